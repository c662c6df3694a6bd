package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"apisect/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.IntAbstractMemberRemoved, diag.About("N.IFoo"),
		"abstract member N.IFoo::M(System.String) removed: not present in every variant").
		WithNote(diag.In("N.IFoo", 1), "declared as M(System.Int32) here"))
	bag.Add(diag.New(diag.SevInfo, diag.IntTypeDropped, diag.In("N.Only", 1), "type N.Only removed: missing from Lib 2.0"))
	bag.Add(diag.New(diag.SevError, diag.ResUnresolvedType, diag.About("N.Nowhere"), "cannot resolve type N.Nowhere"))
	bag.Sort()
	return bag
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	err := Pretty(&buf, sampleBag(), PrettyOpts{
		ShowNotes: true,
		Summary:   true,
		Variants:  []string{"Lib 1.0", "Lib 2.0"},
	})
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"N.IFoo: WARNING INT2004: abstract member",
		"    note: N.IFoo [Lib 2.0]: declared as M(System.Int32) here",
		"N.Only [Lib 2.0]: INFO INT2001: type N.Only removed",
		"N.Nowhere: ERROR RES1001: cannot resolve type N.Nowhere",
		"1 error, 1 warning, 1 info",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colors must be off unless asked for")
	}
}

func TestPrettyMinSeverity(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{MinSeverity: diag.SevWarning}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if strings.Contains(buf.String(), "INFO") || strings.Contains(buf.String(), "note:") {
		t.Fatalf("info and notes must be hidden:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Color: true}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI sequences")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{IncludeNotes: true, Variants: []string{"a", "b"}}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", out.Count)
	}
	var only *DiagnosticJSON
	for i := range out.Diagnostics {
		if out.Diagnostics[i].Subject.Symbol == "N.Only" {
			only = &out.Diagnostics[i]
		}
	}
	if only == nil || only.Subject.Variant == nil || *only.Subject.Variant != 1 || only.Subject.VariantName != "b" {
		t.Fatalf("variant subject not encoded: %+v", only)
	}
	if only.Code != "INT2001" || only.Severity != "INFO" {
		t.Fatalf("unexpected code or severity %+v", only)
	}
}

func TestJSONMax(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleBag(), JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %d", out.Count)
	}
}
