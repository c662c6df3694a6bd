package version

import (
	"fmt"

	"github.com/fatih/color"
)

// Version information for the apisect CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("3") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// String renders the version line printed by `apisect version`.
func String() string {
	s := "apisect " + Version
	if GitCommit != "" {
		short := GitCommit
		if len(short) > 12 {
			short = short[:12]
		}
		s += fmt.Sprintf(" (%s)", short)
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
