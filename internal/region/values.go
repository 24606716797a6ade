package region

import (
	"fmt"
	"iter"

	"regionck/internal/bitmatrix"
	"regionck/internal/trace"
)

// Values stores the value of every region variable as one bitset row over
// an Elements space. Rows only grow.
type Values[N bitmatrix.Index] struct {
	elements *Elements
	matrix   *bitmatrix.SparseMatrix[N, uint32]
	tracer   trace.Tracer
}

// NewValues creates numRegionVariables empty regions over elements. The
// universal regions must be a subset of the region variables.
func NewValues[N bitmatrix.Index](elements *Elements, numRegionVariables int) *Values[N] {
	if elements.numUniversalRegions > numRegionVariables {
		panic(fmt.Errorf("region: %d universal regions but only %d region variables; universal regions are a subset of the region variables",
			elements.numUniversalRegions, numRegionVariables))
	}
	return &Values[N]{
		elements: elements,
		matrix:   bitmatrix.New[N, uint32](numRegionVariables, elements.NumElements()),
		tracer:   trace.Nop,
	}
}

// SetTracer enables debug events for element insertions.
func (v *Values[N]) SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	v.tracer = t
}

// Elements returns the shared index space.
func (v *Values[N]) Elements() *Elements { return v.elements }

// NumRegions is the number of region variables.
func (v *Values[N]) NumRegions() int { return v.matrix.NumRows() }

// Clone snapshots the rows; the index space stays shared.
func (v *Values[N]) Clone() *Values[N] {
	return &Values[N]{
		elements: v.elements,
		matrix:   v.matrix.Clone(),
		tracer:   v.tracer,
	}
}

// AddElement adds elem to region r and reports whether it was new.
func (v *Values[N]) AddElement(r N, elem ToElementIndex) bool {
	i := v.elements.Index(elem)
	added := v.matrix.Add(r, i.v)
	if added && v.tracer.Level() >= trace.LevelDebug {
		trace.Point(v.tracer, trace.ScopeRegion, "add_element",
			fmt.Sprintf("r=%d elem=%s", int(r), v.elements.ToElement(i)))
	}
	return added
}

// AddRegion adds every element of from to to (to: from) and reports
// whether to changed.
func (v *Values[N]) AddRegion(to, from N) bool {
	changed := v.matrix.Merge(from, to)
	if changed && v.tracer.Level() >= trace.LevelDebug {
		trace.Point(v.tracer, trace.ScopeRegion, "add_region", fmt.Sprintf("to=%d from=%d", int(to), int(from)))
	}
	return changed
}

// Contains reports whether region r contains elem.
func (v *Values[N]) Contains(r N, elem ToElementIndex) bool {
	i := v.elements.Index(elem)
	return v.matrix.Contains(r, i.v)
}

// ContainsPoints reports whether sup contains every CFG point of sub.
// Universal regions are ignored.
func (v *Values[N]) ContainsPoints(sup, sub N) bool {
	for i := range v.ElementIndicesContainedIn(sub) {
		if i.Index() < v.elements.numUniversalRegions {
			continue
		}
		if !v.Contains(sup, i) {
			return false
		}
	}
	return true
}

// ElementIndicesContainedIn yields the indices in r in increasing order.
func (v *Values[N]) ElementIndicesContainedIn(r N) iter.Seq[ElementIndex] {
	cols := v.matrix.Iter(r)
	return func(yield func(ElementIndex) bool) {
		for c := range cols {
			if !yield(ElementIndex{v: c}) {
				return
			}
		}
	}
}

// UniversalRegionsOutlivedBy yields the universal regions in r. They form
// a prefix of r, so iteration stops at the first CFG point.
func (v *Values[N]) UniversalRegionsOutlivedBy(r N) iter.Seq[RegionVid] {
	return v.elements.universalPrefix(v.ElementIndicesContainedIn(r))
}

// universalPrefix yields the universal regions at the head of an ascending
// index sequence and stops pulling at the first point.
func (e *Elements) universalPrefix(indices iter.Seq[ElementIndex]) iter.Seq[RegionVid] {
	return func(yield func(RegionVid) bool) {
		for i := range indices {
			ur, ok := e.ToUniversalRegion(i)
			if !ok || !yield(ur) {
				return
			}
		}
	}
}

// ElementsContainedIn yields the elements of r in index order.
func (v *Values[N]) ElementsContainedIn(r N) iter.Seq[Element] {
	indices := v.ElementIndicesContainedIn(r)
	return func(yield func(Element) bool) {
		for i := range indices {
			if !yield(v.elements.ToElement(i)) {
				return
			}
		}
	}
}
