package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"apisect/internal/intersect"
)

func newModel(t *testing.T) *progressModel {
	t.Helper()
	m, ok := NewProgressModel("intersect Widgets", make(chan intersect.Event)).(*progressModel)
	if !ok {
		t.Fatalf("unexpected model type")
	}
	return m
}

func TestApplyEventTracksTypes(t *testing.T) {
	m := newModel(t)
	m.applyEvent(intersect.Event{Stage: intersect.StageIndex, Status: intersect.StatusWorking})
	m.applyEvent(intersect.Event{Stage: intersect.StageIndex, Status: intersect.StatusDone, Total: 3, Elapsed: 2 * time.Millisecond})
	m.applyEvent(intersect.Event{Stage: intersect.StageTypes, Status: intersect.StatusWorking, Total: 3})
	m.applyEvent(intersect.Event{Stage: intersect.StageTypes, Type: "N.A", Status: intersect.StatusKept, Done: 1, Total: 3})
	m.applyEvent(intersect.Event{Stage: intersect.StageTypes, Type: "N.B", Status: intersect.StatusDropped, Done: 2, Total: 3})
	m.applyEvent(intersect.Event{Stage: intersect.StageTypes, Type: "N.C", Status: intersect.StatusWorking, Done: 2, Total: 3})

	if m.kept != 1 || m.dropped != 1 {
		t.Fatalf("kept=%d dropped=%d", m.kept, m.dropped)
	}
	if len(m.recent) != 2 || m.recent[1].identity != "N.B" {
		t.Fatalf("recent = %+v", m.recent)
	}
	if st := m.stages[0]; st.status != "done" || st.detail != "3 in 2ms" {
		t.Fatalf("index stage = %+v", st)
	}
	if st := m.stages[1]; st.status != "working" || st.detail != "2/3" {
		t.Fatalf("types stage = %+v", st)
	}
	if p := m.percent(); p <= 0.05 || p >= 1 {
		t.Fatalf("percent = %v", p)
	}
}

func TestRecentTypesAreBounded(t *testing.T) {
	m := newModel(t)
	for i := 0; i < recentTypes+5; i++ {
		m.applyEvent(intersect.Event{Stage: intersect.StageTypes, Type: "N.T", Status: intersect.StatusKept, Done: i + 1, Total: 100})
	}
	if len(m.recent) != recentTypes {
		t.Fatalf("recent holds %d entries", len(m.recent))
	}
}

func TestErrorMarksRunFailed(t *testing.T) {
	m := newModel(t)
	m.applyEvent(intersect.Event{Stage: intersect.StageTypes, Status: intersect.StatusError, Err: errors.New("boom")})
	m.done = true
	view := m.View()
	if !strings.Contains(view, "failed: intersect Widgets") || !strings.Contains(view, "boom") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestUnknownStageIgnored(t *testing.T) {
	m := newModel(t)
	if cmd := m.applyEvent(intersect.Event{Stage: "other", Status: intersect.StatusDone}); cmd != nil {
		t.Fatalf("expected no command")
	}
}

func TestTruncate(t *testing.T) {
	got := truncate("System.Collections.Generic", 10)
	if !strings.HasSuffix(got, "...") || runewidth.StringWidth(got) > 10 {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}
