package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	i := tm.Begin("load")
	tm.End(i, "3 assemblies")
	j := tm.Begin("types")
	tm.End(j, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Note != "3 assemblies" {
		t.Fatalf("unexpected report %+v", r)
	}
	if _, ok := tm.Duration("types"); !ok {
		t.Fatalf("expected types phase")
	}
	s := tm.Summary()
	if !strings.Contains(s, "load") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary %q", s)
	}
}

func TestNilTimerIsSafe(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}
