package diag

import "testing"

func TestBagCapCountsDropped(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 4; i++ {
		b.Add(New(SevInfo, IntTypeDropped, About("T"), "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 kept, got %d", b.Len())
	}
	if b.Dropped() != 2 {
		t.Fatalf("expected 2 dropped, got %d", b.Dropped())
	}
}

func TestBagSortIsStable(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, IntAbstractMemberRemoved, In("N.B", 1), "b1"))
	b.Add(New(SevInfo, IntTypeDropped, About("N.A"), "a"))
	b.Add(New(SevError, ResUnresolvedType, In("N.B", 1), "b1e"))
	b.Add(New(SevWarning, IntAbstractMemberRemoved, In("N.B", 0), "b0"))
	b.Sort()

	want := []string{"a", "b0", "b1e", "b1"}
	for i, d := range b.Items() {
		if d.Message != want[i] {
			t.Fatalf("item %d: expected %q, got %q", i, want[i], d.Message)
		}
	}
}

func TestBagSeverityQueries(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevInfo, IntTypeDropped, About("T"), "x"))
	if b.HasWarnings() || b.HasErrors() {
		t.Fatalf("info must not count as warning or error")
	}
	b.Add(New(SevWarning, IntOverrideRemoved, About("T"), "y"))
	if !b.HasWarnings() || b.HasErrors() {
		t.Fatalf("expected warnings only")
	}
	if b.Count(IntOverrideRemoved) != 1 {
		t.Fatalf("expected one override diagnostic")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for i := 0; i < 3; i++ {
		ReportWarning(r, IntDelegateInvokeRemoved, About("N.D"), "gone").Emit()
	}
	ReportWarning(r, IntDelegateInvokeRemoved, In("N.D", 1), "gone").Emit()
	ReportInfo(r, IntDelegateInvokeRemoved, About("N.D"), "gone").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
	if r.Suppressed() != 3 {
		t.Fatalf("expected 3 suppressed duplicates, got %d", r.Suppressed())
	}
	if v := bag.Items()[0].Primary.Variant; v != NoVariant {
		t.Fatalf("first report must win, got variant %d", v)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportInfo(BagReporter{Bag: bag}, IntTypeDropped, About("T"), "x").
		WithNote(In("T", 2), "absent here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected a single emission, got %d", bag.Len())
	}
	if got := bag.Items()[0].Notes[0].Subject.String(); got != "T@2" {
		t.Fatalf("unexpected note subject %q", got)
	}
}

func TestCodeIDRanges(t *testing.T) {
	cases := map[Code]string{
		ResUnresolvedType:    "RES1001",
		IntEmptyIntersection: "INT2007",
		CfgInvalidValue:      "CFG3003",
		IOLoadFailed:         "IO4001",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("code %d: expected %s, got %s", code, want, got)
		}
	}
}
