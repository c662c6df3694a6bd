package config

import (
	"fmt"
	"sort"
	"strings"

	"apisect/internal/diag"
)

// Problem is one configuration defect.
type Problem struct {
	Code  diag.Code
	Field string // dotted manifest key, e.g. "inputs.main"
	Msg   string
}

// Error is returned for configurations that cannot be run.
type Error struct {
	Path     string
	Problems []Problem
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path + ": ")
	}
	sb.WriteString("invalid configuration")
	for i, p := range e.Problems {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", p.Field, p.Msg)
	}
	return sb.String()
}

// Validate rejects configurations missing inputs or carrying bad values.
func (c *Config) Validate() error {
	var probs []Problem
	add := func(code diag.Code, field, format string, args ...any) {
		probs = append(probs, Problem{Code: code, Field: field, Msg: fmt.Sprintf(format, args...)})
	}
	if strings.TrimSpace(c.Inputs.Main) == "" {
		add(diag.CfgMissingInput, "inputs.main", "no main model given")
	}
	if len(c.Inputs.References) == 0 {
		add(diag.CfgMissingInput, "inputs.references", "at least one reference model is needed")
	}
	for i, r := range c.Inputs.References {
		if strings.TrimSpace(r) == "" {
			add(diag.CfgMissingInput, fmt.Sprintf("inputs.references[%d]", i), "empty path")
		}
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "json", "msgpack":
	default:
		add(diag.CfgInvalidValue, "output.format", "unknown format %q (want json or msgpack)", c.Output.Format)
	}
	if c.Load.Jobs < 0 {
		add(diag.CfgInvalidValue, "load.jobs", "must not be negative, got %d", c.Load.Jobs)
	}
	if c.Options.RedirectInteropMarker && c.Options.InteropRedirect == "" {
		add(diag.CfgInvalidValue, "options.interop_redirect", "redirect_interop_marker needs a target type")
	}
	if len(probs) == 0 {
		return nil
	}
	return &Error{Path: c.Path, Problems: probs}
}

// Conflicts lists identities named by both the blacklist and the
// whitelist. They are legal (the whitelist wins) but worth a warning.
func (c *Config) Conflicts() []string {
	black := make(map[string]bool, len(c.Lists.Blacklist))
	for _, id := range c.Lists.Blacklist {
		black[id] = true
	}
	var out []string
	for _, id := range c.Lists.Whitelist {
		if black[id] {
			out = append(out, id)
			delete(black, id)
		}
	}
	sort.Strings(out)
	return out
}
