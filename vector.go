// ═══════════════════════════════════════════════════════════════════════════════
// VECTOR STORE
// ═══════════════════════════════════════════════════════════════════════════════
// Dense per-property vector storage. Each property declared vector[N] owns a
// slot holding one contiguous f32[N] per document plus its precomputed
// magnitude, so a downstream cosine ranker only multiplies and divides:
// the sqrt(Σx²) half of the formula is already paid at insert time.
// ═══════════════════════════════════════════════════════════════════════════════

package orama

import "math"

// VectorEntry is one stored vector with its cached magnitude.
type VectorEntry struct {
	Magnitude float32
	Data      []float32
}

// VectorSlot stores the vectors of a single property.
type VectorSlot struct {
	size    int
	vectors map[DocumentID]VectorEntry
}

// NewVectorSlot creates an empty slot for vectors of the given width.
func NewVectorSlot(size int) *VectorSlot {
	return &VectorSlot{
		size:    size,
		vectors: make(map[DocumentID]VectorEntry),
	}
}

// Size returns the declared vector width.
func (s *VectorSlot) Size() int { return s.size }

// Len returns the number of stored vectors.
func (s *VectorSlot) Len() int { return len(s.vectors) }

// Insert normalizes value into a dense f32 vector and stores it under docID
// with its magnitude. A vector of the wrong width is rejected; prop labels
// the error.
func (s *VectorSlot) Insert(prop string, docID DocumentID, value any) error {
	data, ok := toFloat32Slice(value)
	if !ok || len(data) != s.size {
		return errInvalidVectorSize(prop, len(data))
	}
	s.vectors[docID] = VectorEntry{
		Magnitude: magnitude(data),
		Data:      data,
	}
	return nil
}

// Get returns the stored entry for docID.
func (s *VectorSlot) Get(docID DocumentID) (VectorEntry, bool) {
	e, ok := s.vectors[docID]
	return e, ok
}

// Remove deletes docID's vector; absent ids are a no-op.
func (s *VectorSlot) Remove(docID DocumentID) {
	delete(s.vectors, docID)
}

func magnitude(data []float32) float32 {
	var sum float64
	for _, v := range data {
		sum += float64(v) * float64(v)
	}
	return float32(math.Sqrt(sum))
}

// toFloat32Slice densifies any numeric container into a fresh f32 slice.
func toFloat32Slice(value any) ([]float32, bool) {
	switch v := value.(type) {
	case []float32:
		out := make([]float32, len(v))
		copy(out, v)
		return out, true
	case []float64:
		out := make([]float32, len(v))
		for i, x := range v {
			out[i] = float32(x)
		}
		return out, true
	case []int:
		out := make([]float32, len(v))
		for i, x := range v {
			out[i] = float32(x)
		}
		return out, true
	case []any:
		out := make([]float32, len(v))
		for i, x := range v {
			f, ok := toFloat64(x)
			if !ok {
				return nil, false
			}
			out[i] = float32(f)
		}
		return out, true
	default:
		return nil, false
	}
}
