package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"apisect/internal/diag"
)

type palette struct {
	err, warn, info, code, subject, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan),
		code:    color.New(color.Faint),
		subject: color.New(color.Bold),
		note:    color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.subject, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty prints one line per diagnostic in bag order (Sort the bag first):
//
//	<subject> [<variant>]: <SEV> <CODE>: <message>
//	    note: <subject>: <message>
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var errs, warns, infos int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
		if d.Severity < opts.MinSeverity {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.subject.Sprint(subject(d.Primary, opts.Variants)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "    %s %s: %s\n",
				p.note.Sprint("note:"), subject(n.Subject, opts.Variants), n.Msg); err != nil {
				return err
			}
		}
	}
	if !opts.Summary {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s, %s, %d info", plural(errs, "error"), plural(warns, "warning"), infos)
	if err == nil && bag.Dropped() > 0 {
		_, err = fmt.Fprintf(w, " (%d more not recorded)", bag.Dropped())
	}
	if err == nil {
		_, err = fmt.Fprintln(w)
	}
	return err
}

func subject(s diag.Subject, variants []string) string {
	if s.Symbol == "" {
		s.Symbol = "<run>"
	}
	if s.Variant == diag.NoVariant {
		return s.Symbol
	}
	if name := variantName(variants, s.Variant); name != "" {
		return fmt.Sprintf("%s [%s]", s.Symbol, name)
	}
	return s.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
