package diagfmt

import (
	"encoding/json"
	"io"

	"apisect/internal/diag"
)

// SubjectJSON locates a diagnostic. Variant is omitted for
// variant-independent subjects.
type SubjectJSON struct {
	Symbol      string `json:"symbol"`
	Variant     *int   `json:"variant,omitempty"`
	VariantName string `json:"variant_name,omitempty"`
}

type NoteJSON struct {
	Message string      `json:"message"`
	Subject SubjectJSON `json:"subject"`
}

type DiagnosticJSON struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Subject  SubjectJSON `json:"subject"`
	Notes    []NoteJSON  `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	// Dropped counts diagnostics the bag refused once full.
	Dropped int `json:"dropped,omitempty"`
}

func makeSubject(s diag.Subject, variants []string) SubjectJSON {
	out := SubjectJSON{Symbol: s.Symbol}
	if s.Variant != diag.NoVariant {
		v := s.Variant
		out.Variant = &v
		out.VariantName = variantName(variants, v)
	}
	return out
}

// BuildDiagnosticsOutput prepares the JSON document without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, bag.Len()), Dropped: bag.Dropped()}
	for _, d := range bag.Items() {
		if d.Severity < opts.MinSeverity {
			continue
		}
		if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
			break
		}
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Subject:  makeSubject(d.Primary, opts.Variants),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Subject: makeSubject(n.Subject, opts.Variants)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the diagnostics as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, opts))
}
