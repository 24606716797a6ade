package solve

import (
	"fmt"
	"strings"

	"regionck/internal/mir"
	"regionck/internal/region"
)

type ViolationKind uint8

const (
	// ViolationEscapesScope: a region holds points its scope does not.
	ViolationEscapesScope ViolationKind = iota + 1
	// ViolationUndeclaredOutlives: a universal region must outlive another
	// universal region without a declared relation.
	ViolationUndeclaredOutlives
)

// Violation is an error found in a solved problem.
type Violation struct {
	Kind    ViolationKind
	Region  region.RegionVid
	Other   region.RegionVid // scope or outlived universal region
	Missing []mir.Location   // points of Region outside Other
}

// Message renders v using the names from p.
func (v Violation) Message(p *Problem) string {
	switch v.Kind {
	case ViolationEscapesScope:
		pts := make([]string, len(v.Missing))
		for i, l := range v.Missing {
			pts[i] = l.String()
		}
		return fmt.Sprintf("%s: region %s outlives its scope %s at %s",
			p.Name(), p.RegionName(v.Region), p.RegionName(v.Other), strings.Join(pts, ", "))
	case ViolationUndeclaredOutlives:
		return fmt.Sprintf("%s: %s must outlive %s, but the signature does not declare %s: %s",
			p.Name(), p.RegionName(v.Region), p.RegionName(v.Other), p.RegionName(v.Region), p.RegionName(v.Other))
	default:
		return fmt.Sprintf("%s: unknown violation", p.Name())
	}
}

// Check reports the scope requirements and universal relations that the
// solution breaks.
func Check(s *Solution) []Violation {
	var out []Violation
	p := s.Problem
	for _, w := range p.Within {
		if s.Values.ContainsPoints(w.Scope, w.Region) {
			continue
		}
		var missing []mir.Location
		for e := range s.Values.ElementsContainedIn(w.Region) {
			if e.Kind == region.ElementLocation && !s.Values.Contains(w.Scope, region.Point(e.Location)) {
				missing = append(missing, e.Location)
			}
		}
		out = append(out, Violation{Kind: ViolationEscapesScope, Region: w.Region, Other: w.Scope, Missing: missing})
	}

	known := closeKnown(p)
	for u := range p.NumUniversal {
		ur := region.RegionVid(u) //nolint:gosec // bounded by len(p.Names)
		for outlived := range s.Values.UniversalRegionsOutlivedBy(ur) {
			if outlived == ur || known[ur][outlived] {
				continue
			}
			out = append(out, Violation{Kind: ViolationUndeclaredOutlives, Region: ur, Other: outlived})
		}
	}
	return out
}

// closeKnown returns the transitive closure of the declared relations.
func closeKnown(p *Problem) []map[region.RegionVid]bool {
	known := make([]map[region.RegionVid]bool, p.NumUniversal)
	for i := range known {
		known[i] = map[region.RegionVid]bool{}
	}
	for _, k := range p.Known {
		known[k.Sup][k.Sub] = true
	}
	for changed := true; changed; {
		changed = false
		for a := range known {
			for b := range known[a] {
				for c := range known[b] {
					if !known[a][c] {
						known[a][c] = true
						changed = true
					}
				}
			}
		}
	}
	return known
}
