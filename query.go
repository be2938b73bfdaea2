// ═══════════════════════════════════════════════════════════════════════════════
// WHERE-CLAUSE EVALUATION
// ═══════════════════════════════════════════════════════════════════════════════
// A where clause maps property paths to typed predicates. Each predicate is
// evaluated against the sub-index owning its property, yielding one posting
// list per property; the final result is their intersection (logical AND).
//
// EXAMPLE:
// --------
//
//	ids, err := dir.SearchByWhereClause(tok, map[string]WhereCondition{
//	    "color": EnumFilter{Eq: "red"},
//	    "age":   NumberFilter{Between: &[2]float64{20, 30}},
//	}, "")
//
// Predicates are a closed set of condition types; applying a condition to a
// sub-index of the wrong kind is INVALID_FILTER_OPERATION, and naming a
// property the schema never declared is UNKNOWN_FILTER_PROPERTY.
// ═══════════════════════════════════════════════════════════════════════════════

package orama

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// WhereCondition is the closed interface over filter predicates.
type WhereCondition interface {
	whereCondition()
}

// BoolFilter matches documents whose boolean property equals Value.
type BoolFilter struct {
	Value bool
}

// TextFilter matches documents containing any of Terms in a text property.
// Each term is tokenized under the language passed to SearchByWhereClause
// and every token is looked up exactly.
type TextFilter struct {
	Terms []string
}

// EnumFilter is the scalar enum predicate. Exactly one of Eq, In, Nin must
// be set.
type EnumFilter struct {
	Eq  any
	In  []any
	Nin []any
}

// EnumArrayFilter is the array-variant enum predicate: documents whose
// array contains every named key.
type EnumArrayFilter struct {
	ContainsAll []any
}

// NumberFilter is the numeric predicate. Exactly one of its operators must
// be set.
type NumberFilter struct {
	Eq      *float64
	Gt      *float64
	Gte     *float64
	Lt      *float64
	Lte     *float64
	Between *[2]float64
}

// RadiusFilter matches documents whose geopoint lies within (or, with
// Outside, beyond) the given distance of Coordinates. The zero Unit means
// meters; the zero Outside means inside; HighPrecision selects great-circle
// distance.
type RadiusFilter struct {
	Coordinates   GeoPoint
	Value         float64
	Unit          string
	Outside       bool
	HighPrecision bool
}

// PolygonFilter matches documents whose geopoint lies within (or beyond)
// the polygon described by Vertices.
type PolygonFilter struct {
	Vertices      []GeoPoint
	Outside       bool
	HighPrecision bool
}

func (BoolFilter) whereCondition()      {}
func (TextFilter) whereCondition()      {}
func (EnumFilter) whereCondition()      {}
func (EnumArrayFilter) whereCondition() {}
func (NumberFilter) whereCondition()    {}
func (RadiusFilter) whereCondition()    {}
func (PolygonFilter) whereCondition()   {}

// Float is a convenience for building NumberFilter operands inline.
func Float(v float64) *float64 { return &v }

// distanceInMeters converts a radius value from the filter's unit. The
// empty unit is meters.
func distanceInMeters(value float64, unit string) (float64, bool) {
	switch unit {
	case "", "m":
		return value, true
	case "cm":
		return value / 100, true
	case "km":
		return value * 1000, true
	case "ft":
		return value * 0.3048, true
	case "yd":
		return value * 0.9144, true
	case "mi":
		return value * 1609.344, true
	default:
		return 0, false
	}
}

// SearchByWhereClause evaluates every predicate on its property's sub-index
// and intersects the resulting posting lists. Properties are visited in
// sorted path order, and the output preserves the order in which ids first
// appear in the first evaluated list.
func (dir *IndexDirectory) SearchByWhereClause(tok Tokenizer, filters map[string]WhereCondition, language string) ([]InternalID, error) {
	props := make([]string, 0, len(filters))
	for p := range filters {
		props = append(props, p)
	}
	sort.Strings(props)

	lists := make([][]InternalID, 0, len(filters))
	for _, prop := range props {
		list, err := dir.evalFilter(prop, filters[prop], tok, language)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}

	return intersectPostings(lists), nil
}

func (dir *IndexDirectory) evalFilter(prop string, cond WhereCondition, tok Tokenizer, language string) ([]InternalID, error) {
	tree, ok := dir.indexes[prop]
	if !ok {
		return nil, errUnknownFilterProperty(prop)
	}

	switch tree.Type {
	case TreeBool:
		c, ok := cond.(BoolFilter)
		if !ok {
			return nil, errInvalidFilterOperation(prop, cond)
		}
		return tree.Bool.Where(c.Value), nil

	case TreeBKD:
		return evalGeoFilter(tree.BKD, prop, cond)

	case TreeRadix:
		c, ok := cond.(TextFilter)
		if !ok {
			return nil, errInvalidFilterOperation(prop, cond)
		}
		return evalTextFilter(tree.Radix, c, tok, language, prop), nil

	case TreeFlat:
		if tree.IsArray {
			c, ok := cond.(EnumArrayFilter)
			if !ok {
				return nil, errInvalidFilterOperation(prop, cond)
			}
			return tree.Flat.FilterArr(prop, c)
		}
		c, ok := cond.(EnumFilter)
		if !ok {
			return nil, errInvalidFilterOperation(prop, cond)
		}
		return tree.Flat.Filter(prop, c)

	case TreeAVL:
		c, ok := cond.(NumberFilter)
		if !ok {
			return nil, errInvalidFilterOperation(prop, cond)
		}
		return evalNumberFilter(tree.AVL, prop, c)
	}

	return nil, errUnknownFilterProperty(prop)
}

// evalTextFilter tokenizes each term and unions the exact postings of every
// token, preserving first-appearance order.
func evalTextFilter(radix *RadixTree, cond TextFilter, tok Tokenizer, language, prop string) []InternalID {
	var out []InternalID
	seen := roaring.NewBitmap()
	for _, term := range cond.Terms {
		for _, token := range tok.Tokenize(term, language, prop) {
			found := radix.Find(FindParams{Term: token, Exact: true})
			for _, word := range found.Words() {
				for _, id := range found.IDs(word) {
					if seen.CheckedAdd(id) {
						out = append(out, id)
					}
				}
			}
		}
	}
	return out
}

func evalGeoFilter(bkd *BKDTree, prop string, cond WhereCondition) ([]InternalID, error) {
	switch c := cond.(type) {
	case RadiusFilter:
		meters, ok := distanceInMeters(c.Value, c.Unit)
		if !ok {
			return nil, errInvalidFilterOperation(prop, c.Unit)
		}
		return bkd.SearchByRadius(c.Coordinates, meters, !c.Outside, c.HighPrecision), nil
	case PolygonFilter:
		return bkd.SearchByPolygon(c.Vertices, !c.Outside, c.HighPrecision), nil
	default:
		return nil, errInvalidFilterOperation(prop, cond)
	}
}

func evalNumberFilter(avl *AVLTree, prop string, cond NumberFilter) ([]InternalID, error) {
	set := 0
	for _, p := range []*float64{cond.Eq, cond.Gt, cond.Gte, cond.Lt, cond.Lte} {
		if p != nil {
			set++
		}
	}
	if cond.Between != nil {
		set++
	}
	if set != 1 {
		return nil, errInvalidFilterOperation(prop, cond)
	}

	switch {
	case cond.Eq != nil:
		return avl.Find(*cond.Eq), nil
	case cond.Gt != nil:
		return avl.GreaterThan(*cond.Gt, false), nil
	case cond.Gte != nil:
		return avl.GreaterThan(*cond.Gte, true), nil
	case cond.Lt != nil:
		return avl.LessThan(*cond.Lt, false), nil
	case cond.Lte != nil:
		return avl.LessThan(*cond.Lte, true), nil
	default:
		return avl.RangeSearch(cond.Between[0], cond.Between[1]), nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// INTERSECTION
// ═══════════════════════════════════════════════════════════════════════════════

// intersectPostings ANDs the posting lists together. Every list past the
// first becomes a membership bitmap; the first list is then walked in order,
// keeping each id present in all bitmaps exactly once. Output order is
// first-appearance order in the first list.
func intersectPostings(lists [][]InternalID) []InternalID {
	if len(lists) == 0 {
		return nil
	}
	for _, list := range lists {
		if len(list) == 0 {
			return nil
		}
	}
	if len(lists) == 1 {
		return dedupPostings(lists[0])
	}

	rest := make([]*roaring.Bitmap, 0, len(lists)-1)
	for _, list := range lists[1:] {
		bm := roaring.NewBitmap()
		bm.AddMany(list)
		rest = append(rest, bm)
	}

	var out []InternalID
	emitted := roaring.NewBitmap()
	for _, id := range lists[0] {
		if emitted.Contains(id) {
			continue
		}
		inAll := true
		for _, bm := range rest {
			if !bm.Contains(id) {
				inAll = false
				break
			}
		}
		if inAll {
			emitted.Add(id)
			out = append(out, id)
		}
	}
	return out
}

// dedupPostings collapses a multiset posting list to a set, keeping
// first-appearance order.
func dedupPostings(list []InternalID) []InternalID {
	out := make([]InternalID, 0, len(list))
	seen := roaring.NewBitmap()
	for _, id := range list {
		if seen.CheckedAdd(id) {
			out = append(out, id)
		}
	}
	return out
}
