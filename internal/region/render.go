package region

import (
	"fmt"
	"strings"

	"regionck/internal/mir"
)

// RegionValueString renders r for debugging, e.g. {'r0, bb0[3..=7], bb1[0]}.
func (v *Values[N]) RegionValueString(r N) string {
	return v.Render(r, RegionVid.String)
}

// Render is RegionValueString with a custom name for universal regions.
//
// Consecutive points of one block are collapsed into bbN[s..=e]; a point
// with no neighbour is printed bare as bbN[s].
func (v *Values[N]) Render(r N, name func(RegionVid) string) string {
	var sb strings.Builder
	sb.WriteByte('{')

	sep := ""
	push := func(s string) {
		sb.WriteString(sep)
		sb.WriteString(s)
		sep = ", "
	}

	// first..last have been seen but not printed yet
	var first, last mir.Location
	open := false
	flush := func() {
		if open {
			push(locationRange(first, last))
			open = false
		}
	}

	for elem := range v.ElementsContainedIn(r) {
		switch elem.Kind {
		case ElementLocation:
			l := elem.Location
			if open && last.Block == l.Block && last.Statement+1 == l.Statement {
				last = l
				continue
			}
			flush()
			first, last, open = l, l, true
		case ElementUniversalRegion:
			flush()
			push(name(elem.Region))
		}
	}
	flush()

	sb.WriteByte('}')
	return sb.String()
}

func locationRange(first, last mir.Location) string {
	if first == last {
		return first.String()
	}
	if first.Block != last.Block {
		panic(fmt.Errorf("region: location range spans %s and %s", first.Block, last.Block))
	}
	return fmt.Sprintf("%s[%d..=%d]", first.Block, first.Statement, last.Statement)
}
