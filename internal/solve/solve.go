package solve

import (
	"context"
	"fmt"
	"strconv"

	"regionck/internal/region"
	"regionck/internal/trace"
)

// Stats summarises one fixed-point run.
type Stats struct {
	Iterations int // passes over the outlives constraints
	Seeded     int // elements added before propagation
	Merges     int // AddRegion calls that changed a row
}

// Solution is the fixed point of a Problem.
type Solution struct {
	Problem  *Problem
	Elements *region.Elements
	// Initial is the state after seeding, before any constraint was applied.
	Initial *region.Values[region.RegionVid]
	Values  *region.Values[region.RegionVid]
	Stats   Stats
}

// Solve seeds the region values of p and applies its outlives constraints
// until no row changes. Each universal region starts out containing itself
// and every point of the function.
func Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFunc, "solve:"+p.Name(), trace.CurrentSpan(ctx))

	elements := region.NewElements(p.Func, p.NumUniversal)
	values := region.NewValues[region.RegionVid](elements, len(p.Names))
	values.SetTracer(tracer)
	trace.Point(tracer, trace.ScopeFunc, "elements",
		fmt.Sprintf("universal=%d points=%d blocks=%d", elements.NumUniversalRegions(), elements.NumPoints(), elements.NumBlocks()))

	var stats Stats
	for u := range p.NumUniversal {
		ur := region.RegionVid(u) //nolint:gosec // bounded by len(p.Names)
		if values.AddElement(ur, ur) {
			stats.Seeded++
		}
		for i := range elements.AllPointIndices() {
			if values.AddElement(ur, i) {
				stats.Seeded++
			}
		}
	}
	for _, l := range p.Live {
		if values.AddElement(l.Region, region.Point(l.At)) {
			stats.Seeded++
		}
	}
	initial := values.Clone()

	for changed := true; changed; {
		if err := ctx.Err(); err != nil {
			span.End("cancelled")
			return nil, err
		}
		changed = false
		stats.Iterations++
		for _, c := range p.Outlives {
			if values.AddRegion(c.Sup, c.Sub) {
				stats.Merges++
				changed = true
			}
		}
	}

	span.WithExtra("iterations", strconv.Itoa(stats.Iterations)).
		WithExtra("merges", strconv.Itoa(stats.Merges)).
		End("converged")

	return &Solution{
		Problem:  p,
		Elements: elements,
		Initial:  initial,
		Values:   values,
		Stats:    stats,
	}, nil
}

// RegionString renders the final value of r with the problem's names.
func (s *Solution) RegionString(r region.RegionVid) string {
	return s.Values.Render(r, s.Problem.RegionName)
}
