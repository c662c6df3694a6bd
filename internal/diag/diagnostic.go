package diag

import "fmt"

// NoVariant marks a subject that is not tied to a particular variant.
const NoVariant = -1

// Subject locates a diagnostic: the symbol it is about and, when relevant,
// the index of the variant it was observed in.
type Subject struct {
	Symbol  string
	Variant int
}

// About builds a variant-independent subject.
func About(symbol string) Subject { return Subject{Symbol: symbol, Variant: NoVariant} }

// In builds a subject tied to variant i.
func In(symbol string, i int) Subject { return Subject{Symbol: symbol, Variant: i} }

func (s Subject) String() string {
	if s.Variant == NoVariant {
		return s.Symbol
	}
	return fmt.Sprintf("%s@%d", s.Symbol, s.Variant)
}

type Note struct {
	Subject Subject
	Msg     string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Subject
	Notes    []Note
}

func New(sev Severity, code Code, primary Subject, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(s Subject, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Subject: s, Msg: msg})
	return d
}
