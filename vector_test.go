package orama

import (
	"errors"
	"math"
	"testing"
)

func TestVectorSlot_InsertAndGet(t *testing.T) {
	slot := NewVectorSlot(3)

	if err := slot.Insert("emb", "doc1", []float32{3, 4, 0}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	entry, ok := slot.Get("doc1")
	if !ok {
		t.Fatal("Get(doc1) missing after insert")
	}
	if entry.Magnitude != 5 {
		t.Errorf("magnitude = %v, want 5", entry.Magnitude)
	}
	if len(entry.Data) != 3 || entry.Data[0] != 3 {
		t.Errorf("data = %v, want [3 4 0]", entry.Data)
	}
}

func TestVectorSlot_NumericContainers(t *testing.T) {
	slot := NewVectorSlot(2)

	for name, value := range map[string]any{
		"float64": []float64{1, 2},
		"int":     []int{1, 2},
		"any":     []any{1.0, 2},
	} {
		if err := slot.Insert("emb", name, value); err != nil {
			t.Errorf("Insert(%s) error: %v", name, err)
		}
	}
	if slot.Len() != 3 {
		t.Errorf("stored %d vectors, want 3", slot.Len())
	}
}

func TestVectorSlot_WrongSize(t *testing.T) {
	slot := NewVectorSlot(4)

	err := slot.Insert("emb", "doc1", []float32{1, 2})
	if !errors.Is(err, &IndexError{Code: CodeInvalidVectorSize}) {
		t.Errorf("short vector: err = %v, want INVALID_VECTOR_SIZE", err)
	}
	err = slot.Insert("emb", "doc1", "not a vector")
	if !errors.Is(err, &IndexError{Code: CodeInvalidVectorSize}) {
		t.Errorf("non-vector: err = %v, want INVALID_VECTOR_SIZE", err)
	}
	if _, ok := slot.Get("doc1"); ok {
		t.Error("rejected vector was stored anyway")
	}
}

func TestVectorSlot_Remove(t *testing.T) {
	slot := NewVectorSlot(2)
	if err := slot.Insert("emb", "doc1", []float32{1, 1}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	slot.Remove("doc1")
	if _, ok := slot.Get("doc1"); ok {
		t.Error("Get(doc1) found a removed vector")
	}
	slot.Remove("doc1") // second removal is a no-op
}

func TestVectorSlot_InsertCopiesInput(t *testing.T) {
	slot := NewVectorSlot(2)
	src := []float32{1, 0}
	if err := slot.Insert("emb", "doc1", src); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	src[0] = 99
	entry, _ := slot.Get("doc1")
	if entry.Data[0] != 1 {
		t.Error("stored vector aliases the caller's slice")
	}
	if math.Abs(float64(entry.Magnitude)-1) > 1e-6 {
		t.Errorf("magnitude = %v, want 1", entry.Magnitude)
	}
}
