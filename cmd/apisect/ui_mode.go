package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode selects whether `apisect intersect` draws the per-type
// progress view while the engine runs.
type progressMode string

const (
	progressAuto progressMode = "auto"
	progressOn   progressMode = "on"
	progressOff  progressMode = "off"
)

func readProgressMode(value string) (progressMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return progressAuto, nil
	case "on":
		return progressOn, nil
	case "off":
		return progressOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// showProgress reports whether the intersection run is rendered as a live
// view on out. --quiet always wins; auto draws only on a terminal, so piped
// runs and CI logs get the plain diagnostics stream.
func showProgress(mode progressMode, quiet bool, out *os.File) bool {
	if quiet {
		return false
	}
	switch mode {
	case progressOn:
		return true
	case progressOff:
		return false
	default:
		return isTerminal(out)
	}
}
