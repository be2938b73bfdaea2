package orama

import (
	"reflect"
	"sort"
	"testing"
)

func sortedIDs(ids []InternalID) []InternalID {
	out := append([]InternalID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestBKDTree_SearchByRadius(t *testing.T) {
	tree := NewBKDTree()
	tree.Insert(GeoPoint{Lat: 45.0, Lon: 9.0}, 1)
	tree.Insert(GeoPoint{Lat: 45.001, Lon: 9.001}, 2) // ≈ 140 m away
	tree.Insert(GeoPoint{Lat: 46.0, Lon: 10.0}, 3)    // ≈ 135 km away

	center := GeoPoint{Lat: 45, Lon: 9}

	got := sortedIDs(tree.SearchByRadius(center, 200, true, false))
	if !reflect.DeepEqual(got, []InternalID{1, 2}) {
		t.Errorf("radius 200m inside = %v, want [1 2]", got)
	}

	// High precision (haversine) agrees at this scale.
	got = sortedIDs(tree.SearchByRadius(center, 200, true, true))
	if !reflect.DeepEqual(got, []InternalID{1, 2}) {
		t.Errorf("radius 200m haversine = %v, want [1 2]", got)
	}

	// The complement keeps only the far point.
	got = sortedIDs(tree.SearchByRadius(center, 200, false, false))
	if !reflect.DeepEqual(got, []InternalID{3}) {
		t.Errorf("radius 200m outside = %v, want [3]", got)
	}
}

func TestBKDTree_SearchByPolygon(t *testing.T) {
	tree := NewBKDTree()
	tree.Insert(GeoPoint{Lat: 0.5, Lon: 0.5}, 1)
	tree.Insert(GeoPoint{Lat: 2.0, Lon: 2.0}, 2)

	square := []GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 0},
	}

	if got := tree.SearchByPolygon(square, true, false); !reflect.DeepEqual(sortedIDs(got), []InternalID{1}) {
		t.Errorf("polygon inside = %v, want [1]", got)
	}
	if got := tree.SearchByPolygon(square, false, false); !reflect.DeepEqual(sortedIDs(got), []InternalID{2}) {
		t.Errorf("polygon outside = %v, want [2]", got)
	}

	// Degenerate polygons match nothing.
	if got := tree.SearchByPolygon(square[:2], true, false); got != nil {
		t.Errorf("2-vertex polygon = %v, want nil", got)
	}
	line := []GeoPoint{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
	if got := tree.SearchByPolygon(line, true, false); got != nil {
		t.Errorf("zero-area polygon = %v, want nil", got)
	}
}

// Crossing the buffer threshold must rebuild into a real tree without losing
// any posting.
func TestBKDTree_RebuildAfterOverflow(t *testing.T) {
	tree := NewBKDTree()
	for i := 0; i < bkdRebuildThreshold+10; i++ {
		tree.Insert(GeoPoint{Lat: float64(i) * 0.001, Lon: float64(i) * 0.001}, InternalID(i+1))
	}

	if tree.root == nil {
		t.Fatal("tree was never rebuilt after exceeding the buffer threshold")
	}

	// Every inserted point must still be findable.
	got := tree.SearchByRadius(GeoPoint{}, 1e7, true, false)
	if len(got) != bkdRebuildThreshold+10 {
		t.Errorf("found %d ids after rebuild, want %d", len(got), bkdRebuildThreshold+10)
	}
}

func TestBKDTree_RemoveDocument(t *testing.T) {
	tree := NewBKDTree()
	p := GeoPoint{Lat: 45, Lon: 9}
	tree.Insert(p, 1)
	tree.Insert(p, 2)

	// Buffered removals are clean.
	if !tree.RemoveDocument(1, p) {
		t.Error("buffered removal reported a pending rebuild")
	}
	got := tree.SearchByRadius(p, 1, true, false)
	if !reflect.DeepEqual(sortedIDs(got), []InternalID{2}) {
		t.Errorf("after removal = %v, want [2]", got)
	}

	// Force the point into a leaf, then empty its posting list: the
	// tombstone makes the removal report unclean.
	tree.Rebuild()
	if tree.RemoveDocument(2, p) {
		t.Error("removal that emptied a leaf entry reported clean, want tombstone flag")
	}
	if got := tree.SearchByRadius(p, 1, true, false); len(got) != 0 {
		t.Errorf("tombstoned point still matches: %v", got)
	}

	// Removing an unknown point is clean and changes nothing.
	if !tree.RemoveDocument(9, GeoPoint{Lat: 1, Lon: 1}) {
		t.Error("removal of unknown point reported unclean")
	}
}

func TestGeoDistances(t *testing.T) {
	a := GeoPoint{Lat: 45, Lon: 9}
	b := GeoPoint{Lat: 45.001, Lon: 9.001}

	h := haversineDistance(a, b)
	if h < 120 || h > 160 {
		t.Errorf("haversine(a, b) = %v m, want ≈ 140", h)
	}
	e := equirectangularDistance(a, b)
	if e < 120 || e > 160 {
		t.Errorf("equirectangular(a, b) = %v m, want ≈ 140", e)
	}
	if haversineDistance(a, a) != 0 {
		t.Error("distance to self must be 0")
	}
}
