package orama

import "github.com/RoaringBitmap/roaring"

// BoolIndex keeps two posting sets, one per truth value. The same roaring
// bitmaps that back the flat index make Where a single materialization.
type BoolIndex struct {
	trueDocs  *roaring.Bitmap
	falseDocs *roaring.Bitmap
}

// NewBoolIndex creates an empty boolean index.
func NewBoolIndex() *BoolIndex {
	return &BoolIndex{
		trueDocs:  roaring.NewBitmap(),
		falseDocs: roaring.NewBitmap(),
	}
}

func (b *BoolIndex) bucket(v bool) *roaring.Bitmap {
	if v {
		return b.trueDocs
	}
	return b.falseDocs
}

// Insert records id under the value's bucket.
func (b *BoolIndex) Insert(id InternalID, v bool) {
	b.bucket(v).Add(id)
}

// Where returns every id stored under v.
func (b *BoolIndex) Where(v bool) []InternalID {
	return toInternalIDs(b.bucket(v))
}

// RemoveDocument deletes id from the value's bucket; absent ids are a no-op.
func (b *BoolIndex) RemoveDocument(id InternalID, v bool) {
	b.bucket(v).Remove(id)
}
