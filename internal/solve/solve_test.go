package solve_test

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"regionck/internal/mir"
	"regionck/internal/region"
	"regionck/internal/solve"
	"regionck/internal/trace"
)

func loc(b, s int) mir.Location {
	return mir.Location{Block: mir.BlockID(b), Statement: s}
}

// straightLine has one block with n statements, followed by a return.
func straightLine(name string, n int) *mir.Func {
	f := &mir.Func{Name: name}
	bb := f.NewBlock()
	for range n {
		f.Blocks[bb].Stmts = append(f.Blocks[bb].Stmts, mir.Stmt{Text: "nop"})
	}
	f.Blocks[bb].Term = mir.Terminator{Kind: mir.TermReturn}
	return f
}

// borrowProblem: universal 'a, locals '1 (borrow) and '2 (referent scope).
func borrowProblem() *solve.Problem {
	return &solve.Problem{
		Func:         straightLine("borrow", 4),
		Names:        []string{"'a", "'1", "'2"},
		NumUniversal: 1,
		Live: []solve.LiveAt{
			{Region: 1, At: loc(0, 1)},
			{Region: 1, At: loc(0, 2)},
			{Region: 2, At: loc(0, 0)},
			{Region: 2, At: loc(0, 1)},
			{Region: 2, At: loc(0, 2)},
			{Region: 2, At: loc(0, 3)},
		},
		Within: []solve.Within{{Region: 1, Scope: 2}},
	}
}

func TestSolveSeedsUniversalRegions(t *testing.T) {
	sol, err := solve.Solve(context.Background(), borrowProblem())
	if err != nil {
		t.Fatal(err)
	}
	if got := sol.RegionString(0); got != "{'a, bb0[0..=4]}" {
		t.Fatalf("'a = %s", got)
	}
	if got := sol.RegionString(1); got != "{bb0[1..=2]}" {
		t.Fatalf("'1 = %s", got)
	}
	if sol.Stats.Seeded != 1+5+6 {
		t.Fatalf("Seeded = %d, want 12", sol.Stats.Seeded)
	}
	if v := solve.Check(sol); len(v) != 0 {
		t.Fatalf("unexpected violations: %+v", v)
	}
}

func TestSolvePropagatesOutlives(t *testing.T) {
	p := borrowProblem()
	// '2: '1 and '1: '3 chain; '3 is live at the terminator only
	p.Names = append(p.Names, "'3")
	p.Live = append(p.Live, solve.LiveAt{Region: 3, At: loc(0, 4)})
	p.Outlives = []solve.Outlives{{Sup: 2, Sub: 1}, {Sup: 1, Sub: 3}}

	sol, err := solve.Solve(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if got := sol.RegionString(1); got != "{bb0[1..=2], bb0[4]}" {
		t.Fatalf("'1 = %s", got)
	}
	if got := sol.RegionString(2); got != "{bb0[0..=4]}" {
		t.Fatalf("'2 = %s", got)
	}
	// constraint order forces a second pass to carry '3 into '2
	if sol.Stats.Iterations != 3 {
		t.Fatalf("Iterations = %d, want 3", sol.Stats.Iterations)
	}
	if got := sol.Initial.RegionValueString(2); got != "{bb0[0..=3]}" {
		t.Fatalf("initial snapshot of '2 changed: %s", got)
	}
	for _, c := range p.Outlives {
		if !sol.Values.ContainsPoints(c.Sup, c.Sub) {
			t.Fatalf("constraint %v unsatisfied at the fixed point", c)
		}
	}
}

func TestCheckEscapesScope(t *testing.T) {
	p := borrowProblem()
	p.Live = append(p.Live, solve.LiveAt{Region: 1, At: loc(0, 4)})
	p.Within = append(p.Within, solve.Within{Region: 0, Scope: 1})

	sol, err := solve.Solve(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	got := solve.Check(sol)
	if len(got) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(got), got)
	}
	want := solve.Violation{Kind: solve.ViolationEscapesScope, Region: 1, Other: 2, Missing: []mir.Location{loc(0, 4)}}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Fatalf("violation mismatch (-want +got):\n%s", diff)
	}
	if msg := got[0].Message(p); msg != "borrow: region '1 outlives its scope '2 at bb0[4]" {
		t.Fatalf("Message = %q", msg)
	}
	// universal elements of 'a are ignored, only its points escape '1
	if diff := cmp.Diff([]mir.Location{loc(0, 0), loc(0, 3)}, got[1].Missing); diff != "" {
		t.Fatalf("missing points mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckUniversalRelations(t *testing.T) {
	p := &solve.Problem{
		Func:         straightLine("rel", 0),
		Names:        []string{"'a", "'b", "'c"},
		NumUniversal: 3,
		Outlives:     []solve.Outlives{{Sup: 0, Sub: 1}, {Sup: 1, Sub: 2}},
		Known:        []solve.Outlives{{Sup: 0, Sub: 1}},
	}
	sol, err := solve.Solve(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	got := slices.Collect(sol.Values.UniversalRegionsOutlivedBy(0))
	if diff := cmp.Diff([]region.RegionVid{0, 1, 2}, got); diff != "" {
		t.Fatalf("'a outlives mismatch (-want +got):\n%s", diff)
	}

	var msgs []string
	for _, v := range solve.Check(sol) {
		msgs = append(msgs, v.Message(p))
	}
	want := []string{
		"rel: 'a must outlive 'c, but the signature does not declare 'a: 'c",
		"rel: 'b must outlive 'c, but the signature does not declare 'b: 'c",
	}
	if diff := cmp.Diff(want, msgs); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}

	// declaring 'b: 'c also covers 'a: 'c transitively
	p.Known = append(p.Known, solve.Outlives{Sup: 1, Sub: 2})
	sol, err = solve.Solve(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if v := solve.Check(sol); len(v) != 0 {
		t.Fatalf("unexpected violations: %+v", v)
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *solve.Problem)
		want   string
	}{
		{"no function", func(p *solve.Problem) { p.Func = nil }, "no function"},
		{"live past terminator", func(p *solve.Problem) { p.Live[0].At = loc(0, 5) }, "bb0[5] is not a point"},
		{"unknown region", func(p *solve.Problem) { p.Outlives = []solve.Outlives{{Sup: 7, Sub: 0}} }, "unknown region"},
		{"too many universals", func(p *solve.Problem) { p.NumUniversal = 4 }, "4 universal regions"},
		{"known on locals", func(p *solve.Problem) { p.Known = []solve.Outlives{{Sup: 1, Sub: 0}} }, "must relate universal regions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := borrowProblem()
			tt.mutate(p)
			_, err := solve.Solve(context.Background(), p)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := solve.Solve(ctx, borrowProblem()); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestSolveAll(t *testing.T) {
	var problems []*solve.Problem
	for i := range 8 {
		p := borrowProblem()
		p.Func = straightLine("f"+string(rune('a'+i)), 4+i)
		problems = append(problems, p)
	}
	var buf bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText))

	sols, err := solve.SolveAll(ctx, problems, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, sol := range sols {
		if sol.Problem != problems[i] {
			t.Fatalf("result %d out of order", i)
		}
		if want := 4 + i + 1; sol.Elements.NumPoints() != want {
			t.Fatalf("%s: NumPoints = %d, want %d", sol.Problem.Name(), sol.Elements.NumPoints(), want)
		}
	}
	if !strings.Contains(buf.String(), "solve:fa") || !strings.Contains(buf.String(), "solve_all") {
		t.Fatalf("trace lacks solve spans:\n%s", buf.String())
	}
}

func TestSolveAllReportsInvalidProblem(t *testing.T) {
	bad := borrowProblem()
	bad.Func = nil
	_, err := solve.SolveAll(context.Background(), []*solve.Problem{borrowProblem(), bad}, 2)
	if err == nil {
		t.Fatal("expected an error")
	}
}
