package orama

import (
	"reflect"
	"testing"
)

func TestAVLTree_InsertAndFind(t *testing.T) {
	tree := NewAVLTree()
	tree.Insert(10, 1, 1)
	tree.Insert(20, 2, 1)
	tree.Insert(10, 3, 1)

	if got := tree.Find(10); !reflect.DeepEqual(got, []InternalID{1, 3}) {
		t.Errorf("Find(10) = %v, want [1 3] (insertion order)", got)
	}
	if got := tree.Find(20); !reflect.DeepEqual(got, []InternalID{2}) {
		t.Errorf("Find(20) = %v, want [2]", got)
	}
	if got := tree.Find(15); got != nil {
		t.Errorf("Find(15) = %v, want nil", got)
	}
}

// Ascending inserts degenerate into a linked list without rotations; the
// balanced tree keeps every key reachable.
func TestAVLTree_StaysBalancedUnderSortedInserts(t *testing.T) {
	tree := NewAVLTree()
	for i := 0; i < 128; i++ {
		tree.Insert(float64(i), InternalID(i), 1)
	}

	// height of a balanced tree with 128 nodes is at most ~1.44·log2(129) ≈ 10
	if h := avlHeight(tree.root); h > 10 {
		t.Errorf("height = %d after 128 sorted inserts, want ≤ 10", h)
	}
	for i := 0; i < 128; i++ {
		if got := tree.Find(float64(i)); len(got) != 1 || got[0] != InternalID(i) {
			t.Fatalf("Find(%d) = %v after rebalancing", i, got)
		}
	}
}

func TestAVLTree_RangeSearch(t *testing.T) {
	tree := NewAVLTree()
	ages := []float64{10, 20, 30, 40}
	for i, age := range ages {
		tree.Insert(age, InternalID(i+1), 1)
	}

	if got := tree.RangeSearch(15, 35); !reflect.DeepEqual(got, []InternalID{2, 3}) {
		t.Errorf("RangeSearch(15, 35) = %v, want [2 3]", got)
	}
	// Inclusive on both ends.
	if got := tree.RangeSearch(20, 40); !reflect.DeepEqual(got, []InternalID{2, 3, 4}) {
		t.Errorf("RangeSearch(20, 40) = %v, want [2 3 4]", got)
	}
	// Inverted range is empty.
	if got := tree.RangeSearch(35, 15); len(got) != 0 {
		t.Errorf("RangeSearch(35, 15) = %v, want empty", got)
	}
}

func TestAVLTree_Bounds(t *testing.T) {
	tree := NewAVLTree()
	for i, key := range []float64{5, 10, 15, 20} {
		tree.Insert(key, InternalID(i+1), 1)
	}

	if got := tree.GreaterThan(10, false); !reflect.DeepEqual(got, []InternalID{3, 4}) {
		t.Errorf("GreaterThan(10, exclusive) = %v, want [3 4]", got)
	}
	if got := tree.GreaterThan(10, true); !reflect.DeepEqual(got, []InternalID{2, 3, 4}) {
		t.Errorf("GreaterThan(10, inclusive) = %v, want [2 3 4]", got)
	}
	if got := tree.LessThan(15, false); !reflect.DeepEqual(got, []InternalID{1, 2}) {
		t.Errorf("LessThan(15, exclusive) = %v, want [1 2]", got)
	}
	if got := tree.LessThan(15, true); !reflect.DeepEqual(got, []InternalID{1, 2, 3}) {
		t.Errorf("LessThan(15, inclusive) = %v, want [1 2 3]", got)
	}
}

// Array values insert the same id under several keys; ranges spanning them
// legitimately repeat the id. Deduplication is the planner's job.
func TestAVLTree_DuplicateIDsAcrossKeys(t *testing.T) {
	tree := NewAVLTree()
	tree.Insert(1, 1, 1)
	tree.Insert(2, 1, 1)
	tree.Insert(3, 1, 1)

	got := tree.RangeSearch(0, 10)
	if len(got) != 3 {
		t.Errorf("RangeSearch over array keys = %v, want the id three times", got)
	}
}

func TestAVLTree_RemoveDocument(t *testing.T) {
	tree := NewAVLTree()
	tree.Insert(10, 1, 1)
	tree.Insert(10, 2, 1)

	tree.RemoveDocument(1, 10)
	if got := tree.Find(10); !reflect.DeepEqual(got, []InternalID{2}) {
		t.Errorf("Find(10) after removal = %v, want [2]", got)
	}

	// The node survives an emptied posting list.
	tree.RemoveDocument(2, 10)
	if got := tree.Find(10); got == nil || len(got) != 0 {
		t.Errorf("Find(10) after emptying = %v, want an empty (non-nil) list", got)
	}

	// Removing from a missing key is a no-op.
	tree.RemoveDocument(1, 99)
}

func TestAVLTree_RebalanceThreshold(t *testing.T) {
	// With a large threshold no rotation ever fires, so sorted inserts
	// build a right spine of full height.
	tree := NewAVLTree()
	for i := 0; i < 16; i++ {
		tree.Insert(float64(i), InternalID(i), 100)
	}
	if h := avlHeight(tree.root); h != 16 {
		t.Errorf("height = %d with threshold 100, want the unrotated 16", h)
	}

	// Queries still work on the skewed tree.
	if got := tree.RangeSearch(3, 5); len(got) != 3 {
		t.Errorf("RangeSearch on skewed tree = %v, want 3 ids", got)
	}
}
