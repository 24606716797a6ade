package solve

import (
	"errors"
	"fmt"

	"regionck/internal/mir"
	"regionck/internal/region"
)

// Outlives is the constraint Sup: Sub, every element of Sub is also in Sup.
type Outlives struct {
	Sup, Sub region.RegionVid
}

// LiveAt records that Region must contain the point At.
type LiveAt struct {
	Region region.RegionVid
	At     mir.Location
}

// Within requires every point of Region to be a point of Scope.
type Within struct {
	Region, Scope region.RegionVid
}

// Problem is the input of one function's region inference.
type Problem struct {
	Func *mir.Func
	// Names holds one name per region variable; the first NumUniversal
	// entries are the universal regions.
	Names        []string
	NumUniversal int

	Live     []LiveAt
	Outlives []Outlives
	// Known lists the relations between universal regions declared by the
	// signature (Sup outlives Sub).
	Known  []Outlives
	Within []Within
}

// Name returns the function name.
func (p *Problem) Name() string {
	if p.Func == nil {
		return "<nil>"
	}
	return p.Func.Name
}

// RegionName returns the display name of r.
func (p *Problem) RegionName(r region.RegionVid) string {
	if int(r) < len(p.Names) && p.Names[r] != "" {
		return p.Names[r]
	}
	return r.String()
}

// Validate checks p against the preconditions of the region core so that
// malformed input is reported instead of aborting the solve.
func (p *Problem) Validate() error {
	if p.Func == nil {
		return errors.New("problem has no function")
	}
	if err := p.Func.Validate(); err != nil {
		return err
	}
	var errs []error
	if p.NumUniversal < 0 || p.NumUniversal > len(p.Names) {
		errs = append(errs, fmt.Errorf("%d universal regions but %d region variables", p.NumUniversal, len(p.Names)))
	}
	checkRegion := func(what string, r region.RegionVid) {
		if int(r) >= len(p.Names) {
			errs = append(errs, fmt.Errorf("%s: unknown region %s", what, r))
		}
	}
	for _, l := range p.Live {
		checkRegion("live", l.Region)
		bb := p.Func.Block(l.At.Block)
		if bb == nil || l.At.Statement < 0 || l.At.Statement > len(bb.Stmts) {
			errs = append(errs, fmt.Errorf("live: %s is not a point of %s", l.At, p.Name()))
		}
	}
	for _, c := range p.Outlives {
		checkRegion("outlives", c.Sup)
		checkRegion("outlives", c.Sub)
	}
	for _, c := range p.Known {
		if int(c.Sup) >= p.NumUniversal || int(c.Sub) >= p.NumUniversal {
			errs = append(errs, fmt.Errorf("known: %s: %s must relate universal regions", p.RegionName(c.Sup), p.RegionName(c.Sub)))
		}
	}
	for _, w := range p.Within {
		checkRegion("within", w.Region)
		checkRegion("within", w.Scope)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("function %s: %w", p.Name(), err)
	}
	return nil
}
