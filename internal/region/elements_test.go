package region_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"regionck/internal/mir"
	"regionck/internal/region"
)

func loc(b, s int) mir.Location {
	return mir.Location{Block: mir.BlockID(b), Statement: s}
}

func TestNewElementsLayout(t *testing.T) {
	e := region.NewElements(region.Shape{2, 0, 3}, 2)

	if got := e.NumPoints(); got != 10 {
		t.Fatalf("NumPoints = %d, want 10", got)
	}
	if got := e.NumElements(); got != 12 {
		t.Fatalf("NumElements = %d, want 12", got)
	}
	var before []int
	for b := range e.NumBlocks() {
		before = append(before, e.StatementsBeforeBlock(mir.BlockID(b)))
	}
	if diff := cmp.Diff([]int{0, 3, 4}, before); diff != "" {
		t.Fatalf("statements before block mismatch (-want +got):\n%s", diff)
	}
	for b, want := range []int{2, 0, 3} {
		if got := e.NumStatements(mir.BlockID(b)); got != want {
			t.Errorf("NumStatements(bb%d) = %d, want %d", b, got, want)
		}
	}
}

func TestNewElementsEmpty(t *testing.T) {
	e := region.NewElements(region.Shape{}, 3)
	if e.NumPoints() != 0 || e.NumElements() != 3 {
		t.Fatalf("got %d points / %d elements, want 0 / 3", e.NumPoints(), e.NumElements())
	}
	if n := len(slices.Collect(e.AllPointIndices())); n != 0 {
		t.Fatalf("AllPointIndices yielded %d indices", n)
	}
	if e := region.NewElements(nil, 0); e.NumElements() != 0 {
		t.Fatalf("nil cfg: NumElements = %d", e.NumElements())
	}
}

func TestNewElementsFromFunc(t *testing.T) {
	f := &mir.Func{Name: "f"}
	bb0 := f.NewBlock()
	f.Blocks[bb0].Stmts = []mir.Stmt{{Text: "_1 = &_0"}}
	f.NewBlock()

	e := region.NewElements(f, 1)
	if got := e.NumPoints(); got != 3 {
		t.Fatalf("NumPoints = %d, want 3", got)
	}
	if got := e.Index(region.Point(loc(1, 0))).Index(); got != 3 {
		t.Fatalf("index of bb1[0] = %d, want 3", got)
	}
}

func TestIndexConversion(t *testing.T) {
	e := region.NewElements(region.Shape{2, 0, 3}, 2)
	tests := []struct {
		name string
		elem region.ToElementIndex
		want int
	}{
		{"universal 0", region.RegionVid(0), 0},
		{"universal 1", region.RegionVid(1), 1},
		{"bb0[0]", region.Point(loc(0, 0)), 2},
		{"bb0 terminator", region.Point(loc(0, 2)), 4},
		{"bb1 terminator", region.Point(loc(1, 0)), 5},
		{"bb2[0]", region.Point(loc(2, 0)), 6},
		{"bb2 terminator", region.Point(loc(2, 3)), 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Index(tt.elem)
			if got.Index() != tt.want {
				t.Fatalf("Index = %d, want %d", got.Index(), tt.want)
			}
			if again := e.Index(got); again != got {
				t.Fatalf("index conversion is not the identity: %v != %v", again, got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	e := region.NewElements(region.Shape{2, 0, 3, 1}, 3)
	for n := range e.NumElements() {
		i, err := e.CheckedIndex(n)
		if err != nil {
			t.Fatalf("CheckedIndex(%d): %v", n, err)
		}
		elem := e.ToElement(i)
		var back region.ElementIndex
		switch elem.Kind {
		case region.ElementUniversalRegion:
			back = e.Index(elem.Region)
		case region.ElementLocation:
			back = e.Index(region.Point(elem.Location))
		}
		if back != i {
			t.Fatalf("index %d -> %v -> %d", n, elem, back.Index())
		}
	}
}

func TestToElement(t *testing.T) {
	e := region.NewElements(region.Shape{2, 0, 3}, 2)
	want := []region.Element{
		region.UniversalRegionElement(0),
		region.UniversalRegionElement(1),
		region.LocationElement(loc(0, 0)),
		region.LocationElement(loc(0, 1)),
		region.LocationElement(loc(0, 2)),
		region.LocationElement(loc(1, 0)),
		region.LocationElement(loc(2, 0)),
		region.LocationElement(loc(2, 1)),
		region.LocationElement(loc(2, 2)),
		region.LocationElement(loc(2, 3)),
	}
	var got []region.Element
	for n := range 2 {
		i, err := e.CheckedIndex(n)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, e.ToElement(i))
	}
	for i := range e.AllPointIndices() {
		got = append(got, e.ToElement(i))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ToElement mismatch (-want +got):\n%s", diff)
	}
}

func TestToUniversalRegion(t *testing.T) {
	e := region.NewElements(region.Shape{1}, 2)
	if r, ok := e.ToUniversalRegion(e.Index(region.RegionVid(1))); !ok || r != 1 {
		t.Fatalf("ToUniversalRegion('r1) = %v, %v", r, ok)
	}
	if _, ok := e.ToUniversalRegion(e.Index(region.Point(loc(0, 0)))); ok {
		t.Fatal("a point must not resolve to a universal region")
	}
}

func TestAllPointIndicesRestartable(t *testing.T) {
	e := region.NewElements(region.Shape{1, 1}, 1)
	seq := e.AllPointIndices()
	var first, second []int
	for i := range seq {
		first = append(first, i.Index())
	}
	for i := range seq {
		second = append(second, i.Index())
	}
	want := []int{1, 2, 3, 4}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("first pass mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Fatalf("second pass mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckedIndexRange(t *testing.T) {
	e := region.NewElements(region.Shape{0}, 1)
	if _, err := e.CheckedIndex(2); err == nil {
		t.Fatal("CheckedIndex(2) should fail for 2 elements")
	}
	if _, err := e.CheckedIndex(-1); err == nil {
		t.Fatal("CheckedIndex(-1) should fail")
	}
}

func TestContractViolationsPanic(t *testing.T) {
	e := region.NewElements(region.Shape{2, 0}, 2)
	tests := []struct {
		name string
		fn   func()
	}{
		{"universal out of range", func() { e.Index(region.RegionVid(2)) }},
		{"block out of range", func() { e.Index(region.Point(loc(2, 0))) }},
		{"statement past terminator", func() { e.Index(region.Point(loc(1, 1))) }},
		{"negative statement", func() { e.Index(region.Point(loc(0, -1))) }},
		{"negative universal count", func() { region.NewElements(region.Shape{}, -1) }},
		{"negative statement count", func() { region.NewElements(region.Shape{3, -5, 2}, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected contract panic")
				}
			}()
			tt.fn()
		})
	}
}
