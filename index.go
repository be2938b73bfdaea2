// Package orama implements the indexing core of a schema-driven, in-memory
// full-text and structured search engine.
//
// ═══════════════════════════════════════════════════════════════════════════════
// ARCHITECTURE
// ═══════════════════════════════════════════════════════════════════════════════
// The IndexDirectory is built once from a declarative schema and owns one
// specialized sub-index per property path:
//
//	IndexDirectory
//	├── indexes: path → Tree (tagged union)
//	│   ├── "title"  → RadixTree   (string: tokens → postings with TF)
//	│   ├── "age"    → AVLTree     (number: ordered keys, range queries)
//	│   ├── "color"  → FlatIndex   (enum: key → roaring bitmap)
//	│   ├── "loc"    → BKDTree     (geopoint: radius/polygon)
//	│   └── "active" → BoolIndex   (two roaring buckets)
//	├── vectorIndexes: path → VectorSlot (dense f32 vectors)
//	└── store: shared InternalIDStore (read-only reference)
//
// Insert and remove dispatch on the declared type of the property; the query
// planner (search.go, query.go) fans out over the same trees and merges
// their outputs. All operations are synchronous and single-threaded; the
// caller serializes access.
// ═══════════════════════════════════════════════════════════════════════════════
package orama

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// SearchableType names one of the typed search structures a schema can
// declare for a property.
type SearchableType = string

// The closed set of schema types. Vector properties use the parameterized
// form "vector[N]" and are not enumerated here.
const (
	TypeString       SearchableType = "string"
	TypeStringArray  SearchableType = "string[]"
	TypeNumber       SearchableType = "number"
	TypeNumberArray  SearchableType = "number[]"
	TypeBoolean      SearchableType = "boolean"
	TypeBooleanArray SearchableType = "boolean[]"
	TypeEnum         SearchableType = "enum"
	TypeEnumArray    SearchableType = "enum[]"
	TypeGeopoint     SearchableType = "geopoint"
)

// Schema maps property names to a SearchableType string or to a nested
// Schema (whose properties contribute dot-joined paths).
type Schema map[string]any

// TreeType tags the variant held by a Tree.
type TreeType uint8

const (
	TreeRadix TreeType = iota
	TreeAVL
	TreeFlat
	TreeBKD
	TreeBool
)

// String returns the stable tag name used in serialized snapshots.
func (t TreeType) String() string {
	switch t {
	case TreeRadix:
		return "Radix"
	case TreeAVL:
		return "AVL"
	case TreeFlat:
		return "Flat"
	case TreeBKD:
		return "BKD"
	case TreeBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Tree is the tagged union over the five sub-index kinds. Exactly the field
// matching Type is non-nil; Type and IsArray never change after creation.
type Tree struct {
	Type    TreeType
	IsArray bool

	Radix *RadixTree
	AVL   *AVLTree
	Flat  *FlatIndex
	BKD   *BKDTree
	Bool  *BoolIndex
}

// InsertOptions carries per-insert tuning knobs.
type InsertOptions struct {
	// AVLRebalanceThreshold is the height skew an AVL node tolerates before
	// rotating. Default 1.
	AVLRebalanceThreshold int
}

// DefaultInsertOptions returns the standard options.
func DefaultInsertOptions() *InsertOptions {
	return &InsertOptions{AVLRebalanceThreshold: 1}
}

// IndexDirectory owns every sub-index and vector slot for one schema. It is
// created once and lives for the host engine's lifetime; only Load ever
// replaces sub-indexes wholesale.
type IndexDirectory struct {
	store InternalIDStore

	indexes                       map[string]*Tree
	vectorIndexes                 map[string]*VectorSlot
	searchableProperties          []string
	searchablePropertiesWithTypes map[string]SearchableType

	docsCount int
}

// New walks schema depth-first and allocates one sub-index per leaf
// property. The id store is held by reference and only ever read. An
// unrecognized type fails with INVALID_SCHEMA_TYPE.
func New(schema Schema, store InternalIDStore) (*IndexDirectory, error) {
	dir := &IndexDirectory{
		store:                         store,
		indexes:                       make(map[string]*Tree),
		vectorIndexes:                 make(map[string]*VectorSlot),
		searchablePropertiesWithTypes: make(map[string]SearchableType),
	}
	if err := dir.walkSchema("", schema); err != nil {
		return nil, err
	}
	slog.Debug("index directory created",
		slog.Int("properties", len(dir.searchableProperties)))
	return dir, nil
}

// walkSchema visits keys in sorted order at each nesting level so the
// property walk is deterministic for a given schema.
func (dir *IndexDirectory) walkSchema(prefix string, schema Schema) error {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		switch v := schema[key].(type) {
		case string:
			if err := dir.addProperty(path, v); err != nil {
				return err
			}
		case Schema:
			if err := dir.walkSchema(path, v); err != nil {
				return err
			}
		case map[string]any:
			if err := dir.walkSchema(path, Schema(v)); err != nil {
				return err
			}
		default:
			return errInvalidSchemaType(path, v)
		}
	}
	return nil
}

func (dir *IndexDirectory) addProperty(path string, typ SearchableType) error {
	if size, ok := parseVectorType(typ); ok {
		dir.vectorIndexes[path] = NewVectorSlot(size)
		dir.register(path, typ)
		return nil
	}

	tree := &Tree{IsArray: strings.HasSuffix(typ, "[]")}
	switch typ {
	case TypeString, TypeStringArray:
		tree.Type = TreeRadix
		tree.Radix = NewRadixTree()
	case TypeNumber, TypeNumberArray:
		tree.Type = TreeAVL
		tree.AVL = NewAVLTree()
	case TypeBoolean, TypeBooleanArray:
		tree.Type = TreeBool
		tree.Bool = NewBoolIndex()
	case TypeEnum, TypeEnumArray:
		tree.Type = TreeFlat
		tree.Flat = NewFlatIndex()
	case TypeGeopoint:
		tree.Type = TreeBKD
		tree.BKD = NewBKDTree()
	default:
		return errInvalidSchemaType(path, typ)
	}

	dir.indexes[path] = tree
	dir.register(path, typ)
	return nil
}

func (dir *IndexDirectory) register(path string, typ SearchableType) {
	dir.searchableProperties = append(dir.searchableProperties, path)
	dir.searchablePropertiesWithTypes[path] = typ
}

// parseVectorType recognizes the parameterized "vector[N]" schema type and
// extracts N (N ≥ 1).
func parseVectorType(typ string) (int, bool) {
	if !strings.HasPrefix(typ, "vector[") || !strings.HasSuffix(typ, "]") {
		return 0, false
	}
	n, err := strconv.Atoi(typ[len("vector[") : len(typ)-1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// SearchableProperties returns every indexed path in schema-walk order. The
// returned slice is shared; callers must not modify it.
func (dir *IndexDirectory) SearchableProperties() []string {
	return dir.searchableProperties
}

// SearchablePropertiesWithTypes returns the declared type of every path.
func (dir *IndexDirectory) SearchablePropertiesWithTypes() map[string]SearchableType {
	return dir.searchablePropertiesWithTypes
}

// DocsCount returns the largest corpus size reported through Insert.
func (dir *IndexDirectory) DocsCount() int { return dir.docsCount }

// ═══════════════════════════════════════════════════════════════════════════════
// INSERT / REMOVE DISPATCH
// ═══════════════════════════════════════════════════════════════════════════════

// Insert indexes value for the document (docID, id) at prop, dispatching on
// the declared type. docsCount is the engine's current corpus size, used by
// the scorer. For array types each element yields its own posting.
func (dir *IndexDirectory) Insert(prop string, docID DocumentID, id InternalID, value any, typ SearchableType, language string, tok Tokenizer, docsCount int, opts *InsertOptions) error {
	if docsCount > dir.docsCount {
		dir.docsCount = docsCount
	}
	if opts == nil {
		opts = DefaultInsertOptions()
	}

	if slot, ok := dir.vectorIndexes[prop]; ok {
		return slot.Insert(prop, docID, value)
	}

	tree, ok := dir.indexes[prop]
	if !ok {
		return ErrPropertyNotIndexed
	}

	slog.Debug("indexing value",
		slog.String("property", prop),
		slog.Uint64("internalId", uint64(id)))

	for _, v := range elementsOf(value, tree.IsArray) {
		if err := dir.insertScalar(tree, prop, id, v, language, tok, opts); err != nil {
			return err
		}
	}
	return nil
}

func (dir *IndexDirectory) insertScalar(tree *Tree, prop string, id InternalID, value any, language string, tok Tokenizer, opts *InsertOptions) error {
	switch tree.Type {
	case TreeRadix:
		text, _ := value.(string)
		for _, token := range tok.Tokenize(text, language, prop) {
			tree.Radix.Insert(token, id)
		}
	case TreeAVL:
		key, ok := toFloat64(value)
		if !ok {
			return ErrPropertyNotIndexed
		}
		tree.AVL.Insert(key, id, opts.AVLRebalanceThreshold)
	case TreeBool:
		v, _ := value.(bool)
		tree.Bool.Insert(id, v)
	case TreeFlat:
		tree.Flat.Insert(value, id)
	case TreeBKD:
		point, ok := toGeoPoint(value)
		if !ok {
			return ErrPropertyNotIndexed
		}
		tree.BKD.Insert(point, id)
	}
	return nil
}

// Remove deletes value's postings for docID at prop, visiting each array
// element symmetrically with Insert. The boolean mirrors the BKD contract:
// false means the removal left a tombstone and a rebuild is advisable, never
// failure.
func (dir *IndexDirectory) Remove(prop string, docID DocumentID, value any, typ SearchableType, language string, tok Tokenizer) (bool, error) {
	if slot, ok := dir.vectorIndexes[prop]; ok {
		slot.Remove(docID)
		return true, nil
	}

	tree, ok := dir.indexes[prop]
	if !ok {
		return false, ErrPropertyNotIndexed
	}

	id, ok := dir.store.GetInternalDocumentID(docID)
	if !ok {
		return false, ErrDocumentNotFound
	}

	clean := true
	for _, v := range elementsOf(value, tree.IsArray) {
		ok, err := dir.removeScalar(tree, prop, id, v, language, tok)
		if err != nil {
			return false, err
		}
		clean = clean && ok
	}
	return clean, nil
}

func (dir *IndexDirectory) removeScalar(tree *Tree, prop string, id InternalID, value any, language string, tok Tokenizer) (bool, error) {
	switch tree.Type {
	case TreeRadix:
		text, _ := value.(string)
		for _, token := range tok.Tokenize(text, language, prop) {
			tree.Radix.RemoveDocumentByWord(token, id)
		}
	case TreeAVL:
		key, ok := toFloat64(value)
		if !ok {
			return false, ErrPropertyNotIndexed
		}
		tree.AVL.RemoveDocument(id, key)
	case TreeBool:
		v, _ := value.(bool)
		tree.Bool.RemoveDocument(id, v)
	case TreeFlat:
		tree.Flat.RemoveDocument(id, value)
	case TreeBKD:
		point, ok := toGeoPoint(value)
		if !ok {
			return false, ErrPropertyNotIndexed
		}
		return tree.BKD.RemoveDocument(id, point), nil
	}
	return true, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// VALUE COERCION
// ═══════════════════════════════════════════════════════════════════════════════

// elementsOf flattens value into the scalars to index: array properties
// yield one element per entry, scalar properties yield the value itself.
func elementsOf(value any, isArray bool) []any {
	if !isArray {
		return []any{value}
	}
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out
	case []bool:
		out := make([]any, len(v))
		for i, b := range v {
			out[i] = b
		}
		return out
	default:
		return []any{value}
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint32:
		return float64(v), true
	default:
		return 0, false
	}
}

func toGeoPoint(value any) (GeoPoint, bool) {
	switch v := value.(type) {
	case GeoPoint:
		return v, true
	case *GeoPoint:
		return *v, true
	case map[string]float64:
		return GeoPoint{Lat: v["lat"], Lon: v["lon"]}, true
	default:
		return GeoPoint{}, false
	}
}
