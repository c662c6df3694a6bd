package presence

import (
	"reflect"
	"testing"

	"apisect/internal/model"
	"apisect/internal/testkit"
)

func variants() []*model.Assembly {
	main := testkit.Assembly("Lib", "2.0.0.0",
		testkit.Class("N.A").Nested(testkit.Class("Inner").Build()).Build(),
		testkit.Class("N.B").Build(),
	)
	ref1 := testkit.Assembly("Lib", "1.0.0.0",
		testkit.Class("N.A").Nested(testkit.Class("Inner").Build()).Build(),
		testkit.Class("N.OnlyHere").Build(),
	)
	return []*model.Assembly{main, ref1}
}

func TestBuildRowsComeFromMain(t *testing.T) {
	vs := variants()
	ix := Build(vs)

	want := []string{"N.A", "N.A/Inner", "N.B"}
	if got := ix.Identities(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if _, ok := ix.Row("N.OnlyHere"); ok {
		t.Fatalf("types only defined by a reference variant must not get a row")
	}

	row, _ := ix.Row("N.A/Inner")
	if !row.Complete() || row[1].Assembly != vs[1] {
		t.Fatalf("nested row must be filled from both variants")
	}
	b, _ := ix.Row("N.B")
	if b.Complete() || b.Missing() != 1 {
		t.Fatalf("N.B must be missing from variant 1")
	}
	if ix.Variants() != 2 {
		t.Fatalf("expected 2 variants")
	}
}

func TestExcludeDropsTopLevelOnly(t *testing.T) {
	ix := Build(variants())
	ex := testkit.Assembly("Other", "1.0.0.0",
		testkit.Class("N.A").Nested(testkit.Class("Inner").Build()).Build(),
		testkit.Class("N.Unrelated").Build(),
	)
	removed := ix.Exclude([]*model.Assembly{ex})
	if !reflect.DeepEqual(removed, []string{"N.A"}) {
		t.Fatalf("unexpected removed set %v", removed)
	}
	if _, ok := ix.Row("N.A"); ok {
		t.Fatalf("excluded row must be gone")
	}
	if _, ok := ix.Row("N.A/Inner"); !ok {
		t.Fatalf("nested row is not excluded on its own")
	}
	if !ix.Orphaned("N.A/Inner") {
		t.Fatalf("nested row of an excluded type must be orphaned")
	}
	if ix.Orphaned("N.B") {
		t.Fatalf("top-level rows are never orphaned")
	}
}

func TestBuildEmpty(t *testing.T) {
	if ix := Build(nil); ix.Len() != 0 {
		t.Fatalf("expected empty index")
	}
}
