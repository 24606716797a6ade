package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"regionck/internal/config"
	"regionck/internal/region"
	"regionck/internal/snapshot"
	"regionck/internal/solve"
	"regionck/internal/trace"
)

var (
	solveFormat      string
	solveSnapshotDir string
	solveJobs        int
	solveInitial     bool
	solveDump        bool
)

func init() {
	solveCmd.Flags().StringVar(&solveFormat, "format", "text", "output format (text|json)")
	solveCmd.Flags().StringVar(&solveSnapshotDir, "snapshot", "", "write msgpack snapshots of the solved values to this directory")
	solveCmd.Flags().IntVar(&solveJobs, "jobs", 0, "functions solved in parallel (0 = GOMAXPROCS)")
	solveCmd.Flags().BoolVar(&solveInitial, "initial", false, "also print region values before propagation")
	solveCmd.Flags().BoolVar(&solveDump, "dump-mir", false, "print each function body before its regions")
}

var solveCmd = &cobra.Command{
	Use:   "solve FILE",
	Short: "Solve the region inference problems in a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func runSolve(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(solveFormat)
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (expected text|json)", solveFormat)
	}
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	span := trace.Begin(tracer, trace.ScopeDriver, "solve", 0)
	ctx := trace.WithSpan(cmd.Context(), span)
	defer span.End("")

	file, err := config.Load(args[0])
	if err != nil {
		return err
	}
	problems, err := file.Problems()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	solutions, err := solve.SolveAll(ctx, problems, solveJobs)
	if err != nil {
		dumpTrace(cmd, tracer)
		return err
	}

	violations := 0
	reports := make([]funcReport, len(solutions))
	for i, sol := range solutions {
		reports[i] = newFuncReport(sol)
		violations += len(reports[i].Violations)
		if solveSnapshotDir != "" {
			snap, err := snapshot.Take(sol.Problem.Name(), sol.Problem.Names, sol.Values)
			if err != nil {
				return err
			}
			if reports[i].Snapshot, err = snapshot.WriteFile(solveSnapshotDir, snap); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for i := range solutions {
			if err := printSolution(out, solutions[i], &reports[i]); err != nil {
				return err
			}
		}
	}
	if violations > 0 {
		return errors.New(pluralize(violations, "region error", "region errors"))
	}
	return nil
}

type regionReport struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Initial string `json:"initial,omitempty"`
}

type funcReport struct {
	Name       string         `json:"name"`
	Universal  int            `json:"universal"`
	Points     int            `json:"points"`
	Iterations int            `json:"iterations"`
	Merges     int            `json:"merges"`
	Regions    []regionReport `json:"regions"`
	Violations []string       `json:"violations,omitempty"`
	Snapshot   string         `json:"snapshot,omitempty"`
}

func newFuncReport(sol *solve.Solution) funcReport {
	p := sol.Problem
	rep := funcReport{
		Name:       p.Name(),
		Universal:  sol.Elements.NumUniversalRegions(),
		Points:     sol.Elements.NumPoints(),
		Iterations: sol.Stats.Iterations,
		Merges:     sol.Stats.Merges,
	}
	for r := range sol.Values.NumRegions() {
		vid := region.RegionVid(r) //nolint:gosec // bounded by region count
		rr := regionReport{Name: p.RegionName(vid), Value: sol.RegionString(vid)}
		if solveInitial {
			rr.Initial = sol.Initial.Render(vid, p.RegionName)
		}
		rep.Regions = append(rep.Regions, rr)
	}
	for _, v := range solve.Check(sol) {
		rep.Violations = append(rep.Violations, v.Message(p))
	}
	return rep
}

func printSolution(w io.Writer, sol *solve.Solution, rep *funcReport) error {
	header := color.New(color.Bold)
	errColor := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	if _, err := fmt.Fprintf(w, "%s %s\n", header.Sprint("fn"), header.Sprint(rep.Name)); err != nil {
		return err
	}
	if solveDump {
		if err := dumpFunc(w, sol); err != nil {
			return err
		}
	}
	var tb table
	for i, r := range rep.Regions {
		kind := "local"
		if i < rep.Universal {
			kind = "universal"
		}
		tb.add(r.Name, dim.Sprint(kind), r.Value)
		if r.Initial != "" {
			tb.add("", dim.Sprint("initial"), r.Initial)
		}
	}
	if err := tb.write(w, "  "); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, dim.Sprintf("  %d points, %d universal, converged after %s (%d merges)",
		rep.Points, rep.Universal, pluralize(rep.Iterations, "iteration", "iterations"), rep.Merges)); err != nil {
		return err
	}
	for _, v := range rep.Violations {
		if _, err := fmt.Fprintf(w, "  %s %s\n", errColor.Sprint("error:"), v); err != nil {
			return err
		}
	}
	if rep.Snapshot != "" {
		if _, err := fmt.Fprintf(w, "  snapshot: %s\n", rep.Snapshot); err != nil {
			return err
		}
	}
	return nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
