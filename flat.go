// ═══════════════════════════════════════════════════════════════════════════════
// FLAT INDEX: Enum Membership via Roaring Bitmaps
// ═══════════════════════════════════════════════════════════════════════════════
// The flat index is a direct mapping from scalar key to the set of documents
// holding that key. Sets are roaring bitmaps: compressed, and AND/OR/ANDNOT
// compose in effectively constant time per container, which is exactly what
// the eq/in/nin/containsAll operators reduce to.
// ═══════════════════════════════════════════════════════════════════════════════

package orama

import (
	"fmt"
	"strconv"

	"github.com/RoaringBitmap/roaring"
)

// FlatIndex maps an enum key to the bitmap of documents containing it.
type FlatIndex struct {
	postings map[string]*roaring.Bitmap
}

// NewFlatIndex creates an empty flat index.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{postings: make(map[string]*roaring.Bitmap)}
}

// flatKey normalizes an enum value to its index key. Enum values are
// strings, booleans or numbers; everything else stringifies through fmt.
func flatKey(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Insert records id under key.
func (f *FlatIndex) Insert(key any, id InternalID) {
	k := flatKey(key)
	bm, ok := f.postings[k]
	if !ok {
		bm = roaring.NewBitmap()
		f.postings[k] = bm
	}
	bm.Add(id)
}

// RemoveDocument deletes id from key's posting set; empty sets are dropped.
func (f *FlatIndex) RemoveDocument(id InternalID, key any) {
	k := flatKey(key)
	bm, ok := f.postings[k]
	if !ok {
		return
	}
	bm.Remove(id)
	if bm.IsEmpty() {
		delete(f.postings, k)
	}
}

// Filter evaluates a scalar predicate. Exactly one of Eq, In, Nin must be
// set; prop only labels the error.
func (f *FlatIndex) Filter(prop string, cond EnumFilter) ([]InternalID, error) {
	set := 0
	if cond.Eq != nil {
		set++
	}
	if cond.In != nil {
		set++
	}
	if cond.Nin != nil {
		set++
	}
	if set != 1 {
		return nil, errInvalidFilterOperation(prop, cond)
	}

	switch {
	case cond.Eq != nil:
		if bm, ok := f.postings[flatKey(cond.Eq)]; ok {
			return toInternalIDs(bm), nil
		}
		return nil, nil
	case cond.In != nil:
		return toInternalIDs(f.union(cond.In)), nil
	default:
		// nin: the universe of this index minus the named keys.
		all := roaring.NewBitmap()
		for _, bm := range f.postings {
			all.Or(bm)
		}
		all.AndNot(f.union(cond.Nin))
		return toInternalIDs(all), nil
	}
}

// FilterArr evaluates the array-variant predicate: containsAll intersects
// the posting sets of every named key.
func (f *FlatIndex) FilterArr(prop string, cond EnumArrayFilter) ([]InternalID, error) {
	if cond.ContainsAll == nil {
		return nil, errInvalidFilterOperation(prop, cond)
	}
	if len(cond.ContainsAll) == 0 {
		return nil, nil
	}

	var acc *roaring.Bitmap
	for _, key := range cond.ContainsAll {
		bm, ok := f.postings[flatKey(key)]
		if !ok {
			return nil, nil
		}
		if acc == nil {
			acc = bm.Clone()
		} else {
			acc.And(bm)
		}
	}
	return toInternalIDs(acc), nil
}

func (f *FlatIndex) union(keys []any) *roaring.Bitmap {
	out := roaring.NewBitmap()
	for _, key := range keys {
		if bm, ok := f.postings[flatKey(key)]; ok {
			out.Or(bm)
		}
	}
	return out
}

// toInternalIDs materializes a bitmap as an id slice (ascending order).
func toInternalIDs(bm *roaring.Bitmap) []InternalID {
	if bm == nil || bm.IsEmpty() {
		return nil
	}
	return bm.ToArray()
}

func roaringFromIDs(ids []InternalID) *roaring.Bitmap {
	bm := roaring.NewBitmap()
	bm.AddMany(ids)
	return bm
}
