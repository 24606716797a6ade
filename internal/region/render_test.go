package region_test

import (
	"testing"

	"regionck/internal/region"
)

func TestRegionValueString(t *testing.T) {
	tests := []struct {
		name  string
		elems []region.ToElementIndex
		want  string
	}{
		{
			name: "empty",
			want: "{}",
		},
		{
			name: "universal and contiguous run",
			elems: []region.ToElementIndex{
				region.RegionVid(1),
				region.Point(loc(0, 3)), region.Point(loc(0, 4)), region.Point(loc(0, 5)),
				region.Point(loc(0, 6)), region.Point(loc(0, 7)),
			},
			want: "{'r1, bb0[3..=7]}",
		},
		{
			name:  "isolated points render bare",
			elems: []region.ToElementIndex{region.Point(loc(0, 3)), region.Point(loc(0, 5))},
			want:  "{bb0[3], bb0[5]}",
		},
		{
			name: "runs do not cross blocks",
			elems: []region.ToElementIndex{
				region.Point(loc(0, 7)), region.Point(loc(0, 8)), region.Point(loc(1, 0)), region.Point(loc(1, 1)),
			},
			want: "{bb0[7..=8], bb1[0..=1]}",
		},
		{
			name: "universal regions before points",
			elems: []region.ToElementIndex{
				region.Point(loc(1, 0)), region.RegionVid(0), region.RegionVid(1),
			},
			want: "{'r0, 'r1, bb1[0]}",
		},
		{
			name: "mixed runs and singles",
			elems: []region.ToElementIndex{
				region.Point(loc(0, 0)), region.Point(loc(0, 1)), region.Point(loc(0, 4)), region.Point(loc(1, 1)),
			},
			want: "{bb0[0..=1], bb0[4], bb1[1]}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValues(t)
			for _, e := range tt.elems {
				v.AddElement(2, e)
			}
			if got := v.RegionValueString(2); got != tt.want {
				t.Fatalf("RegionValueString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderNames(t *testing.T) {
	v := newValues(t)
	v.AddElement(2, region.RegionVid(0))
	v.AddElement(2, region.Point(loc(1, 1)))
	names := []string{"'a", "'b"}
	got := v.Render(2, func(r region.RegionVid) string { return names[r] })
	if want := "{'a, bb1[1]}"; got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}
