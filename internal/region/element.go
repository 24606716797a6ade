package region

import (
	"fmt"

	"fortio.org/safecast"

	"regionck/internal/mir"
)

// ElementIndex is a position in an Elements space. It can only be obtained
// from Elements, so an index computed for one function cannot be forged for
// another.
type ElementIndex struct {
	v uint32
}

// Index returns the integer value of the index.
func (i ElementIndex) Index() int { return int(i.v) }

func (i ElementIndex) String() string {
	return fmt.Sprintf("ElementIndex(%d)", i.v)
}

func newElementIndex(i int) ElementIndex {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("region: element index overflow: %w", err))
	}
	return ElementIndex{v: v}
}

// RegionVid identifies a region variable. The first NumUniversalRegions
// variables are the universal regions.
type RegionVid uint32

func (r RegionVid) String() string {
	return fmt.Sprintf("'r%d", uint32(r))
}

// ElementKind tags which payload of an Element is set.
type ElementKind uint8

const (
	ElementLocation ElementKind = iota
	ElementUniversalRegion
)

func (k ElementKind) String() string {
	switch k {
	case ElementLocation:
		return "location"
	case ElementUniversalRegion:
		return "universal"
	default:
		return "unknown"
	}
}

// Element is a single member of a region value. Only the field matching
// Kind is meaningful.
type Element struct {
	Kind     ElementKind
	Location mir.Location
	Region   RegionVid
}

// LocationElement returns the element for CFG point l.
func LocationElement(l mir.Location) Element {
	return Element{Kind: ElementLocation, Location: l}
}

// UniversalRegionElement returns the element standing for universal region r.
func UniversalRegionElement(r RegionVid) Element {
	return Element{Kind: ElementUniversalRegion, Region: r}
}

func (e Element) String() string {
	switch e.Kind {
	case ElementLocation:
		return e.Location.String()
	case ElementUniversalRegion:
		return e.Region.String()
	default:
		return "<invalid element>"
	}
}

// ToElementIndex is implemented by Point, RegionVid and ElementIndex.
type ToElementIndex interface {
	toElementIndex(e *Elements) ElementIndex
}

// Point is a CFG location used as a region element: region.Point(loc).
type Point mir.Location

func (p Point) String() string { return mir.Location(p).String() }

// toElementIndex requires p to address a statement or terminator of a
// block known to e.
func (p Point) toElementIndex(e *Elements) ElementIndex {
	b := int(p.Block)
	if b < 0 || b >= len(e.statementsBeforeBlock) {
		panic(fmt.Errorf("region: location %s: block out of range (%d blocks)", p, len(e.statementsBeforeBlock)))
	}
	if p.Statement < 0 || p.Statement >= e.pointsInBlock(b) {
		panic(fmt.Errorf("region: location %s: statement out of range (%d points in block)", p, e.pointsInBlock(b)))
	}
	return newElementIndex(e.numUniversalRegions + e.statementsBeforeBlock[b] + p.Statement)
}

func (r RegionVid) toElementIndex(e *Elements) ElementIndex {
	if int(r) >= e.numUniversalRegions {
		panic(fmt.Errorf("region: %s is not a universal region (%d universal regions)", r, e.numUniversalRegions))
	}
	return newElementIndex(int(r))
}

func (i ElementIndex) toElementIndex(*Elements) ElementIndex { return i }
