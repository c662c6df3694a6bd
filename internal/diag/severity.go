package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning marks a compatibility trade-off the user should look at.
	SevWarning
	// SevError aborts the run.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the String form, case-insensitively, and "warn".
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToUpper(s) {
	case "INFO":
		return SevInfo, true
	case "WARNING", "WARN":
		return SevWarning, true
	case "ERROR":
		return SevError, true
	}
	return SevInfo, false
}
