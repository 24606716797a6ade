package region

import (
	"slices"
	"testing"
)

func TestUniversalPrefixStopsAtFirstPoint(t *testing.T) {
	e := NewElements(Shape{8, 1}, 2)
	pulls := 0
	indices := func(yield func(ElementIndex) bool) {
		for _, i := range []int{0, 1, 2, 5, 10} {
			pulls++
			if !yield(newElementIndex(i)) {
				return
			}
		}
	}

	got := slices.Collect(e.universalPrefix(indices))
	if !slices.Equal(got, []RegionVid{0, 1}) {
		t.Fatalf("universalPrefix = %v, want ['r0 'r1]", got)
	}
	// two universal regions plus the first point, nothing after it
	if pulls != 3 {
		t.Fatalf("pulled %d indices, want 3", pulls)
	}
}

func TestUniversalPrefixNoUniversal(t *testing.T) {
	e := NewElements(Shape{8, 1}, 2)
	pulls := 0
	indices := func(yield func(ElementIndex) bool) {
		for _, i := range []int{4, 6} {
			pulls++
			if !yield(newElementIndex(i)) {
				return
			}
		}
	}
	if got := slices.Collect(e.universalPrefix(indices)); len(got) != 0 {
		t.Fatalf("universalPrefix = %v, want none", got)
	}
	if pulls != 1 {
		t.Fatalf("pulled %d indices, want 1", pulls)
	}
}
