package orama

import (
	"errors"
	"fmt"
)

// ═══════════════════════════════════════════════════════════════════════════════
// ERROR DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════
// Two layers of errors live here:
//
// 1. Sentinel errors for internal conditions, comparable with errors.Is.
// 2. IndexError, a typed failure carrying a stable string code plus the
//    offending property path and value. Callers dispatch on the code.
// ═══════════════════════════════════════════════════════════════════════════════

var (
	ErrPropertyNotIndexed = errors.New("property is not indexed")
	ErrDocumentNotFound   = errors.New("document not found in id store")
)

// Stable error codes surfaced to the engine.
const (
	CodeInvalidSchemaType       = "INVALID_SCHEMA_TYPE"
	CodeUnknownFilterProperty   = "UNKNOWN_FILTER_PROPERTY"
	CodeInvalidFilterOperation  = "INVALID_FILTER_OPERATION"
	CodeWrongSearchPropertyType = "WRONG_SEARCH_PROPERTY_TYPE"
	CodeInvalidBoostValue       = "INVALID_BOOST_VALUE"
	CodeInvalidVectorSize       = "INVALID_VECTOR_SIZE"
)

// IndexError is the typed failure reported by schema construction, dispatch
// and predicate evaluation. Code is one of the Code* constants; Property is
// the offending property path; Value carries the rejected input when one
// exists.
type IndexError struct {
	Code     string
	Property string
	Value    any
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("[%s] property %q: %v", e.Code, e.Property, e.Value)
	}
	return fmt.Sprintf("[%s] property %q", e.Code, e.Property)
}

// Is matches two IndexErrors by code, so errors.Is works against a bare
// &IndexError{Code: ...} target.
func (e *IndexError) Is(target error) bool {
	if t, ok := target.(*IndexError); ok {
		return e.Code == t.Code
	}
	return false
}

func errInvalidSchemaType(prop string, typ any) error {
	return &IndexError{Code: CodeInvalidSchemaType, Property: prop, Value: typ}
}

func errUnknownFilterProperty(prop string) error {
	return &IndexError{Code: CodeUnknownFilterProperty, Property: prop}
}

func errInvalidFilterOperation(prop string, op any) error {
	return &IndexError{Code: CodeInvalidFilterOperation, Property: prop, Value: op}
}

func errWrongSearchPropertyType(prop string) error {
	return &IndexError{Code: CodeWrongSearchPropertyType, Property: prop}
}

func errInvalidBoostValue(prop string, boost float64) error {
	return &IndexError{Code: CodeInvalidBoostValue, Property: prop, Value: boost}
}

func errInvalidVectorSize(prop string, got int) error {
	return &IndexError{Code: CodeInvalidVectorSize, Property: prop, Value: got}
}
