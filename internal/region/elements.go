package region

import (
	"fmt"
	"iter"
	"sort"

	"fortio.org/safecast"

	"regionck/internal/mir"
)

// ControlFlowGraph is the shape of a function body. *mir.Func implements it.
type ControlFlowGraph interface {
	NumBlocks() int
	NumStatements(b mir.BlockID) int
}

// Shape is a ControlFlowGraph given by per-block statement counts.
type Shape []int

func (s Shape) NumBlocks() int                  { return len(s) }
func (s Shape) NumStatements(b mir.BlockID) int { return s[b] }

// Elements maps region elements to indices and back.
type Elements struct {
	// statementsBeforeBlock[b] is the number of points in blocks before b.
	statementsBeforeBlock []int
	numPoints             int
	numUniversalRegions   int
}

// NewElements lays out the index space for cfg with numUniversalRegions
// universal regions. Each block contributes one point per statement plus
// one for its terminator.
func NewElements(cfg ControlFlowGraph, numUniversalRegions int) *Elements {
	if numUniversalRegions < 0 {
		panic(fmt.Errorf("region: negative universal region count %d", numUniversalRegions))
	}
	n := 0
	if cfg != nil {
		n = cfg.NumBlocks()
	}
	before := make([]int, n)
	numPoints := 0
	for b := range n {
		id, err := safecast.Conv[int32](b)
		if err != nil {
			panic(fmt.Errorf("region: block id overflow: %w", err))
		}
		stmts := cfg.NumStatements(mir.BlockID(id))
		if stmts < 0 {
			panic(fmt.Errorf("region: %s has negative statement count %d", mir.BlockID(id), stmts))
		}
		before[b] = numPoints
		numPoints += stmts + 1
	}
	e := &Elements{
		statementsBeforeBlock: before,
		numPoints:             numPoints,
		numUniversalRegions:   numUniversalRegions,
	}
	// every valid index must fit ElementIndex
	if e.NumElements() > 0 {
		newElementIndex(e.NumElements() - 1)
	}
	return e
}

// NumElements is the size of the index space.
func (e *Elements) NumElements() int { return e.numUniversalRegions + e.numPoints }

func (e *Elements) NumPoints() int           { return e.numPoints }
func (e *Elements) NumUniversalRegions() int { return e.numUniversalRegions }
func (e *Elements) NumBlocks() int           { return len(e.statementsBeforeBlock) }

// StatementsBeforeBlock reports how many points precede block b.
func (e *Elements) StatementsBeforeBlock(b mir.BlockID) int {
	return e.statementsBeforeBlock[b]
}

// NumStatements reports the statement count of block b, recovered from the
// layout. It lets Elements itself serve as a ControlFlowGraph.
func (e *Elements) NumStatements(b mir.BlockID) int {
	return e.pointsInBlock(int(b)) - 1
}

func (e *Elements) pointsInBlock(b int) int {
	if b+1 < len(e.statementsBeforeBlock) {
		return e.statementsBeforeBlock[b+1] - e.statementsBeforeBlock[b]
	}
	return e.numPoints - e.statementsBeforeBlock[b]
}

// Index converts elem to its index.
func (e *Elements) Index(elem ToElementIndex) ElementIndex {
	return elem.toElementIndex(e)
}

// CheckedIndex validates a raw integer, e.g. one read back from a snapshot.
func (e *Elements) CheckedIndex(i int) (ElementIndex, error) {
	if i < 0 || i >= e.NumElements() {
		return ElementIndex{}, fmt.Errorf("element index %d out of range [0, %d)", i, e.NumElements())
	}
	return newElementIndex(i), nil
}

// AllPointIndices yields the index of every CFG point in increasing order.
func (e *Elements) AllPointIndices() iter.Seq[ElementIndex] {
	return func(yield func(ElementIndex) bool) {
		for i := range e.numPoints {
			if !yield(newElementIndex(e.numUniversalRegions + i)) {
				return
			}
		}
	}
}

// ToElement resolves i to the element it denotes.
func (e *Elements) ToElement(i ElementIndex) Element {
	if r, ok := e.ToUniversalRegion(i); ok {
		return UniversalRegionElement(r)
	}
	point := i.Index() - e.numUniversalRegions
	if point >= e.numPoints {
		panic(fmt.Errorf("region: %s out of range (%d elements)", i, e.NumElements()))
	}
	// The owning block is the last one whose first point is <= point.
	b := sort.Search(len(e.statementsBeforeBlock), func(k int) bool {
		return e.statementsBeforeBlock[k] > point
	}) - 1
	return LocationElement(mir.Location{
		Block:     mir.BlockID(b), //nolint:gosec // bounded by block count
		Statement: point - e.statementsBeforeBlock[b],
	})
}

// ToUniversalRegion returns the universal region i denotes, if any.
func (e *Elements) ToUniversalRegion(i ElementIndex) (RegionVid, bool) {
	if i.Index() < e.numUniversalRegions {
		return RegionVid(i.v), true
	}
	return 0, false
}
