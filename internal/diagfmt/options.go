package diagfmt

import "apisect/internal/diag"

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// MinSeverity hides less important diagnostics.
	MinSeverity diag.Severity
	// Variants labels variant indexes, e.g. "ios 1.0"; may be shorter
	// than the number of variants.
	Variants []string
	// Summary appends an error/warning/info count line.
	Summary bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // truncate the output, not the Bag
	IncludeNotes bool
	MinSeverity  diag.Severity
	Variants     []string
}

func variantName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return ""
	}
	return names[i]
}
