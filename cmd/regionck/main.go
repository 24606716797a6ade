package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"regionck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "regionck",
	Short:         "Region value inspector for flow-sensitive region inference",
	Long:          `regionck solves region inference problems described in TOML and prints the inferred region values`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		color.NoColor = !(colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)))
		return nil
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(elementsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "text", "trace format (text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
}

// main runs the root command; any command error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}
