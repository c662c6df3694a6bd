package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelScopes(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeType) {
		t.Fatalf("phase must not emit type scope")
	}
	if !LevelDetail.ShouldEmit(ScopeType) || LevelDetail.ShouldEmit(ScopeMember) {
		t.Fatalf("detail must stop at type scope")
	}
	if !LevelDebug.ShouldEmit(ScopeMember) {
		t.Fatalf("debug must emit member scope")
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DETAIL")
	if err != nil || l != LevelDetail {
		t.Fatalf("unexpected %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	sp := Begin(tr, ScopePass, "types", 0)
	Point(tr, ScopeMember, "hidden", "N.Widget::M", "")
	sp.Count("kept", 2).Count("kept", 1).End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d: %q", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if ev.Kind != "end" || ev.Counts["kept"] != 3 || ev.Detail != "done" {
		t.Fatalf("unexpected end event %+v", ev)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, n := range []string{"a", "b", "c"} {
		Point(r, ScopeType, n, "", "")
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	var buf bytes.Buffer
	if err := NewMultiTracer(LevelDebug, Nop, r).Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), "c") {
		t.Fatalf("dump missing events: %q", buf.String())
	}
	if tail := r.Tail(1); len(tail) != 1 || tail[0].Name != "c" {
		t.Fatalf("unexpected tail %+v", tail)
	}
	if tail := r.Tail(10); len(tail) != 2 {
		t.Fatalf("tail must be bounded by what is stored, got %d", len(tail))
	}
}

func TestTextFormatNamesSymbol(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	Point(tr, ScopeType, "drop", "N.Widget", "missing from variant 1")
	BeginSymbol(tr, ScopeType, "type", "N.Gadget", 0).Count("methods", 2).End("")
	out := buf.String()
	for _, want := range []string{"drop N.Widget (missing from variant 1)", "type N.Gadget {methods=2}"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop by default")
	}
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	sp := Begin(FromContext(ctx), ScopeDriver, "run", 0)
	ctx = WithSpan(ctx, sp)
	if ParentSpan(ctx) != sp.ID() || sp.ID() == 0 {
		t.Fatalf("span id not propagated")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("expected disabled tracer")
	}
}
