package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"regionck/internal/config"
	"regionck/internal/mir"
	"regionck/internal/region"
	"regionck/internal/snapshot"
	"regionck/internal/solve"
)

var elementsFromSnapshot bool

func init() {
	elementsCmd.Flags().BoolVar(&elementsFromSnapshot, "snapshot", false, "FILE is a snapshot written by solve --snapshot")
}

var elementsCmd = &cobra.Command{
	Use:   "elements FILE",
	Short: "Print the element index space of every function",
	Long: `Print how region elements are numbered: universal regions first,
then every CFG point ordered by block and statement.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if elementsFromSnapshot {
			return printSnapshot(out, args[0])
		}
		file, err := config.Load(args[0])
		if err != nil {
			return err
		}
		problems, err := file.Problems()
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		for _, p := range problems {
			e := region.NewElements(p.Func, p.NumUniversal)
			if err := printElements(out, p.Name(), e, p.RegionName); err != nil {
				return err
			}
		}
		return nil
	},
}

func printElements(w io.Writer, name string, e *region.Elements, regionName func(region.RegionVid) string) error {
	header := color.New(color.Bold)
	if _, err := fmt.Fprintf(w, "%s %s: %d elements (%d universal, %d points in %d blocks)\n",
		header.Sprint("fn"), header.Sprint(name), e.NumElements(), e.NumUniversalRegions(), e.NumPoints(), e.NumBlocks()); err != nil {
		return err
	}
	var tb table
	for n := range e.NumElements() {
		i, err := e.CheckedIndex(n)
		if err != nil {
			return err
		}
		elem := e.ToElement(i)
		label := elem.String()
		if elem.Kind == region.ElementUniversalRegion {
			label = regionName(elem.Region)
		}
		tb.add(strconv.Itoa(n), elem.Kind.String(), label)
	}
	return tb.write(w, "  ")
}

func printSnapshot(w io.Writer, path string) error {
	snap, err := snapshot.ReadFile(path)
	if err != nil {
		return err
	}
	values, err := snap.Restore()
	if err != nil {
		return err
	}
	p := &solve.Problem{Names: snap.Names, NumUniversal: snap.Universal}
	if err := printElements(w, snap.Name, values.Elements(), p.RegionName); err != nil {
		return err
	}
	var tb table
	for r := range values.NumRegions() {
		vid := region.RegionVid(r) //nolint:gosec // bounded by region count
		tb.add(p.RegionName(vid), values.Render(vid, p.RegionName))
	}
	if _, err := fmt.Fprintln(w, "  values:"); err != nil {
		return err
	}
	return tb.write(w, "    ")
}

func dumpFunc(w io.Writer, sol *solve.Solution) error {
	return mir.DumpFunc(w, sol.Problem.Func)
}
