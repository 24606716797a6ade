package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the regionck CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Pretty renders Version with coloured components when colour is enabled.
func Pretty() string {
	major, rest, ok := strings.Cut(Version, ".")
	if !ok {
		return Version
	}
	minor, patch, ok := strings.Cut(rest, ".")
	if !ok {
		return Version
	}
	return versionMajorColor.Sprint(major) + "." + versionMinorColor.Sprint(minor) + "." + versionPatchColor.Sprint(patch)
}
