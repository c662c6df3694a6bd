package intersect

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"apisect/internal/classify"
	"apisect/internal/diag"
	"apisect/internal/model"
	"apisect/internal/testkit"
)

func run(t *testing.T, opts Options, variants []*model.Assembly, exclusions ...*model.Assembly) (*Result, *diag.Bag) {
	t.Helper()
	res, bag, err := tryRun(opts, variants, exclusions...)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res, bag
}

func tryRun(opts Options, variants []*model.Assembly, exclusions ...*model.Assembly) (*Result, *diag.Bag, error) {
	bag := diag.NewBag(500)
	in := Input{
		Variants:   variants,
		Exclusions: exclusions,
		Resolver:   model.NewUniverse(testkit.Corlib()),
	}
	res, err := Run(context.Background(), in, opts, diag.BagReporter{Bag: bag})
	return res, bag, err
}

func identities(types []*model.TypeSymbol) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.FullName())
	}
	return out
}

func find(t *testing.T, res *Result, id string) *model.TypeSymbol {
	t.Helper()
	for _, ts := range res.Types {
		if ts.FullName() == id {
			return ts
		}
	}
	t.Fatalf("type %s did not survive; got %v", id, identities(res.Types))
	return nil
}

// library builds the same fully compatible surface for every variant.
func library(version string) *model.Assembly {
	return testkit.Assembly("Lib", version,
		testkit.Interface("N.IThing").
			Method(testkit.NewMethod("A", testkit.Void).Abstract().Build()).Build(),
		testkit.Class("N.Widget").
			Implements(model.Named("N.IThing")).
			Ctor(model.AccessPublic, testkit.Int).
			Method(testkit.NewMethod("A", testkit.Void).Virtual().Build()).
			Field("Size", testkit.Int).
			Property("Count", testkit.Int).
			Event("Changed", model.Named("N.ChangedHandler")).Build(),
		testkit.Delegate("N.ChangedHandler", testkit.Void, testkit.Object).Build(),
	)
}

func TestCompatibleVariantsAreUnchanged(t *testing.T) {
	v1, v2 := library("1.0.0.0"), library("4.0.0.0")
	res, bag := run(t, Options{}, []*model.Assembly{v1, v2})

	want := []string{"N.ChangedHandler", "N.IThing", "N.Widget"}
	if got := identities(res.Types); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	w := find(t, res, "N.Widget")
	wantMethods := []string{model.CtorName, "A", "get_Count", "add_Changed", "remove_Changed"}
	if got := testkit.MethodNames(w); !reflect.DeepEqual(got, wantMethods) {
		t.Fatalf("expected methods %v, got %v", wantMethods, got)
	}
	if len(w.Interfaces) != 1 || len(w.Fields) != 1 || len(w.Properties) != 1 || len(w.Events) != 1 {
		t.Fatalf("shape changed: %+v", w)
	}
	if bag.HasWarnings() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if res.Stats.Survived != 3 || res.Stats.Methods.Removed != 0 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}
}

func widget(version string, extra ...string) *model.Assembly {
	b := testkit.Class("N.Widget").
		Ctor(model.AccessPublic, testkit.Int).
		Method(testkit.NewMethod("A", testkit.Void).Build())
	for _, name := range extra {
		b.Method(testkit.NewMethod(name, testkit.Void).Build())
	}
	return testkit.Assembly("Widgets", version, b.Build())
}

func TestWidgetLosesMethodMissingFromOneVariant(t *testing.T) {
	for _, mainHasB := range []bool{true, false} {
		v1, v2 := widget("1.0"), widget("2.0", "B")
		variants := []*model.Assembly{v1, v2}
		if mainHasB {
			variants = []*model.Assembly{v2, v1}
		}
		res, _ := run(t, Options{}, variants)
		w := find(t, res, "N.Widget")
		if got := testkit.MethodNames(w); !reflect.DeepEqual(got, []string{model.CtorName, "A"}) {
			t.Fatalf("main has B=%v: expected [.ctor A], got %v", mainHasB, got)
		}
	}
}

func TestInterfaceMemberMismatchWarns(t *testing.T) {
	foo := func(param *model.TypeRef) *model.Assembly {
		return testkit.Assembly("Lib", "1.0",
			testkit.Interface("N.IFoo").
				Method(testkit.NewMethod("M", testkit.Void, param).Abstract().Build()).Build())
	}
	res, bag, err := tryRun(Options{}, []*model.Assembly{foo(testkit.String), foo(testkit.Int)})
	if err != nil {
		t.Fatalf("a structural mismatch must not abort: %v", err)
	}
	ifoo := find(t, res, "N.IFoo")
	if len(ifoo.Methods) != 0 {
		t.Fatalf("M must be removed, got %v", testkit.MethodNames(ifoo))
	}
	if bag.Count(diag.IntAbstractMemberRemoved) != 1 {
		t.Fatalf("expected one abstract-member warning, got %+v", bag.Items())
	}
}

func TestMemberRemovalAllowSuppressesWarning(t *testing.T) {
	foo := func(param *model.TypeRef) *model.Assembly {
		return testkit.Assembly("Lib", "1.0",
			testkit.Interface("N.IFoo").
				Method(testkit.NewMethod("M", testkit.Void, param).Abstract().Build()).Build())
	}
	_, bag := run(t, Options{MemberRemovalAllow: []string{"N.IFoo::M"}},
		[]*model.Assembly{foo(testkit.String), foo(testkit.Int)})
	if bag.Count(diag.IntAbstractMemberRemoved) != 0 {
		t.Fatalf("allow-listed removal must not warn")
	}
}

func TestExcludedAssemblyRemovesType(t *testing.T) {
	lib := func(v string) *model.Assembly {
		return testkit.Assembly("Lib", v, testkit.Class("N.C").Build(), testkit.Class("N.D").Build())
	}
	x := testkit.Assembly("X", "1.0", testkit.Class("N.C").Build())
	res, bag := run(t, Options{}, []*model.Assembly{lib("1"), lib("2")}, x)

	if got := identities(res.Types); !reflect.DeepEqual(got, []string{"N.D"}) {
		t.Fatalf("expected only N.D, got %v", got)
	}
	if !reflect.DeepEqual(res.Excluded, []string{"N.C"}) {
		t.Fatalf("unexpected excluded set %v", res.Excluded)
	}
	if bag.Count(diag.IntTypeExcluded) != 1 {
		t.Fatalf("expected an excluded-type report")
	}
}

func TestExcludedTypeCascadesToReferences(t *testing.T) {
	lib := func(v string) *model.Assembly {
		return testkit.Assembly("Lib", v,
			testkit.Class("N.C").Nested(testkit.Class("Inner").Build()).Build(),
			testkit.Class("N.User").
				Method(testkit.NewMethod("Take", testkit.Void, model.Named("N.C")).Build()).
				Method(testkit.NewMethod("Keep", testkit.Void).Build()).Build())
	}
	x := testkit.Assembly("X", "1.0", testkit.Class("N.C").Build())
	res, bag := run(t, Options{}, []*model.Assembly{lib("1"), lib("2")}, x)

	u := find(t, res, "N.User")
	if got := testkit.MethodNames(u); !reflect.DeepEqual(got, []string{"Keep", model.CtorName}) {
		t.Fatalf("Take must go with N.C, got %v", got)
	}
	if bag.HasErrors() {
		t.Fatalf("references to excluded types are not resolution failures")
	}
}

func overrideLib(baseFoo model.Access, explicit bool) *model.Assembly {
	zeta := testkit.Class("N.Zeta").
		Ctor(model.AccessPublic).
		Method(testkit.NewMethod("Foo", testkit.Void).Virtual().Access(baseFoo).Build()).Build()
	alpha := testkit.Class("N.Alpha").Base(model.Named("N.Zeta")).
		Ctor(model.AccessPublic).
		Method(testkit.NewMethod("Foo", testkit.Void).Override().Build())
	if explicit {
		alpha.Implements(model.Named("N.IFoo")).
			Method(testkit.NewMethod("N.IFoo.Foo", testkit.Void).Override().
				Access(model.AccessPrivate).
				Implements(model.Named("N.IFoo"), "Foo").Build())
	}
	ifoo := testkit.Interface("N.IFoo").Method(testkit.NewMethod("Foo", testkit.Void).Abstract().Build()).Build()
	return testkit.Assembly("Lib", "1.0", zeta, alpha.Build(), ifoo)
}

func TestOverrideRemovedWhenBaseSlotIsGoneInAVariant(t *testing.T) {
	v1 := overrideLib(model.AccessPublic, true)
	v2 := overrideLib(model.AccessAssembly, true)
	res, _ := run(t, Options{}, []*model.Assembly{v1, v2})

	zeta := find(t, res, "N.Zeta")
	if got := testkit.MethodNames(zeta); !reflect.DeepEqual(got, []string{model.CtorName}) {
		t.Fatalf("Zeta.Foo must be gone, got %v", got)
	}
	alpha := find(t, res, "N.Alpha")
	want := []string{model.CtorName, "N.IFoo.Foo"}
	if got := testkit.MethodNames(alpha); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v (override removed, explicit implementation kept), got %v", want, got)
	}
	if res.Stats.Methods.Removed == 0 {
		t.Fatalf("removals must be counted")
	}
}

func TestSynthesizedConstructorCallsZeroArgBase(t *testing.T) {
	lib := func(v string) *model.Assembly {
		base := testkit.Class("N.Base").
			Ctor(model.AccessPublic, testkit.Int, testkit.String).
			Ctor(model.AccessPublic).Build()
		w := testkit.Class("N.Widget").Base(model.Named("N.Base")).Ctor(model.AccessAssembly).Build()
		return testkit.Assembly("Lib", v, base, w)
	}
	res, bag := run(t, Options{}, []*model.Assembly{lib("1"), lib("2")})

	w := find(t, res, "N.Widget")
	base := find(t, res, "N.Base")
	if len(w.Methods) != 1 || !w.Methods[0].Synthesized || w.Methods[0].Access != model.AccessAssembly {
		t.Fatalf("expected one synthesized internal constructor, got %+v", w.Methods)
	}
	body := w.Methods[0].Body
	if body == nil || body.BaseCall == nil || body.BaseCall.Target != base.Methods[1] {
		t.Fatalf("synthesized constructor must call the 0-arg base constructor")
	}
	if body.Throws != NotImplementedException {
		t.Fatalf("unexpected throw %q", body.Throws)
	}
	if bag.Count(diag.IntConstructorSynthesized) != 1 || res.Stats.Synthesized != 1 {
		t.Fatalf("synthesis must be reported")
	}
}

func TestKeepInternalConstructorsSuppressesSynthesis(t *testing.T) {
	lib := func(v string) *model.Assembly {
		return testkit.Assembly("Lib", v,
			testkit.Class("N.Widget").Ctor(model.AccessAssembly).Build())
	}
	res, _ := run(t, Options{KeepInternalConstructors: true}, []*model.Assembly{lib("1"), lib("2")})
	w := find(t, res, "N.Widget")
	if len(w.Methods) != 1 || w.Methods[0].Synthesized {
		t.Fatalf("the internal constructor must be kept as is")
	}
}

func TestBlacklistedRootRemovesWholeChain(t *testing.T) {
	lib := func(v string) *model.Assembly {
		return testkit.Assembly("Lib", v,
			testkit.Class("N.Root").Build(),
			testkit.Class("N.Mid").Base(model.Named("N.Root")).Build(),
			testkit.Class("N.Leaf").Base(model.Named("N.Mid")).Build(),
			testkit.Class("N.Other").Build())
	}
	res, _ := run(t, Options{Blacklist: []string{"N.Root"}}, []*model.Assembly{lib("1"), lib("2")})
	if got := identities(res.Types); !reflect.DeepEqual(got, []string{"N.Other"}) {
		t.Fatalf("expected only N.Other, got %v", got)
	}
	if len(res.Dropped) != 3 {
		t.Fatalf("expected 3 dropped types, got %+v", res.Dropped)
	}
}

func TestTypeMissingFromVariantIsDropped(t *testing.T) {
	v1 := testkit.Assembly("Lib", "1",
		testkit.Class("N.Only").Build(),
		testkit.Class("N.User").Method(testkit.NewMethod("Use", testkit.Void, model.Named("N.Only")).Build()).Build())
	v2 := testkit.Assembly("Lib", "2",
		testkit.Class("N.User").Method(testkit.NewMethod("Use", testkit.Void, model.Named("N.Only")).Build()).Build())
	res, bag := run(t, Options{}, []*model.Assembly{v1, v2})

	if len(res.Dropped) != 1 || res.Dropped[0].Identity != "N.Only" || res.Dropped[0].Missing != 1 {
		t.Fatalf("unexpected dropped list %+v", res.Dropped)
	}
	if got := testkit.MethodNames(find(t, res, "N.User")); !reflect.DeepEqual(got, []string{model.CtorName}) {
		t.Fatalf("Use must be removed, got %v", got)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected errors %+v", bag.Items())
	}
}

func TestExplicitTypeAllowSilencesDropReport(t *testing.T) {
	v1 := testkit.Assembly("Lib", "1", testkit.Class("N.Only").Build(), testkit.Class("N.Both").Build())
	v2 := testkit.Assembly("Lib", "2", testkit.Class("N.Both").Build())
	res, bag := run(t, Options{ExplicitTypeAllow: []string{"N.Only"}}, []*model.Assembly{v1, v2})
	if len(res.Dropped) != 1 || bag.Count(diag.IntTypeDropped) != 0 {
		t.Fatalf("dropped type is recorded but not reported")
	}
}

func TestMainVisibilityDecidesSurvival(t *testing.T) {
	v1 := testkit.Assembly("Lib", "1",
		testkit.Class("N.A").Build(),
		testkit.Class("N.Y").Visibility(model.VisNotPublic).Build())
	// only the second variant mentions N.Y from a member, and there it is public
	v2 := testkit.Assembly("Lib", "2",
		testkit.Class("N.A").Method(testkit.NewMethod("N", testkit.Void, model.Named("N.Y")).Build()).Build(),
		testkit.Class("N.Y").Build())
	res, _ := run(t, Options{}, []*model.Assembly{v1, v2})

	if got := identities(res.Types); !reflect.DeepEqual(got, []string{"N.A"}) {
		t.Fatalf("internal N.Y must not survive, got %v", got)
	}
}

func TestUnresolvedReferenceAbortsUnlessLenient(t *testing.T) {
	lib := func(v string) *model.Assembly {
		return testkit.Assembly("Lib", v,
			testkit.Class("N.User").
				Method(testkit.NewMethod("Use", testkit.Void, model.Named("N.Nowhere")).Build()).Build())
	}
	_, _, err := tryRun(Options{}, []*model.Assembly{lib("1"), lib("2")})
	var re *classify.ResolutionError
	if !errors.As(err, &re) || re.Identity != "N.Nowhere" {
		t.Fatalf("expected a resolution error, got %v", err)
	}

	res, bag, err := tryRun(Options{Lenient: true}, []*model.Assembly{lib("1"), lib("2")})
	if err != nil {
		t.Fatalf("lenient run must not fail: %v", err)
	}
	if got := testkit.MethodNames(find(t, res, "N.User")); !reflect.DeepEqual(got, []string{model.CtorName}) {
		t.Fatalf("Use must be removed, got %v", got)
	}
	if bag.Count(diag.ResUnresolvedType) != 1 || bag.HasErrors() {
		t.Fatalf("expected a single resolution warning")
	}
}

func TestNestedTypesReconciled(t *testing.T) {
	lib := func(v string, extra bool) *model.Assembly {
		nested := []*model.TypeSymbol{
			testkit.Class("Inner").Build(),
			testkit.Class("Secret").Visibility(model.VisNestedPrivate).Build(),
		}
		if extra {
			nested = append(nested, testkit.Class("Extra").Build())
		}
		return testkit.Assembly("Lib", v, testkit.Class("N.Outer").Nested(nested...).Build())
	}
	res, _ := run(t, Options{}, []*model.Assembly{lib("1", true), lib("2", false)})
	outer := find(t, res, "N.Outer")
	var names []string
	for _, n := range outer.Nested {
		names = append(names, n.Name)
	}
	if !reflect.DeepEqual(names, []string{"Inner"}) {
		t.Fatalf("expected only Inner, got %v", names)
	}
	if res.Stats.Nested.Removed != 2 {
		t.Fatalf("expected 2 nested removals, got %d", res.Stats.Nested.Removed)
	}
	if outer.Nested[0].Methods[0].Body == nil {
		t.Fatalf("nested type members are stubbed too")
	}
}

func TestEmptyIntersectionWarns(t *testing.T) {
	v1 := testkit.Assembly("Lib", "1", testkit.Class("N.A").Build())
	v2 := testkit.Assembly("Lib", "2", testkit.Class("N.B").Build())
	res, bag, err := tryRun(Options{}, []*model.Assembly{v1, v2})
	if err != nil {
		t.Fatalf("empty intersection is not an error: %v", err)
	}
	if len(res.Types) != 0 || bag.Count(diag.IntEmptyIntersection) != 1 {
		t.Fatalf("expected an empty result with a warning")
	}
}

func TestAttributePolicies(t *testing.T) {
	const register = "ObjCRuntime.RegisterAttribute"
	lib := func(v string) *model.Assembly {
		return testkit.Assembly("Lib", v,
			testkit.Class("N.Widget").Serializable().
				Attribute(testkit.Attr(register, testkit.Prim("NSWidget"))).
				Attribute(testkit.Attr(SerializableAttribute)).
				Attribute(testkit.Attr("N.HiddenAttribute")).Build(),
			testkit.Class("N.HiddenAttribute").Visibility(model.VisNotPublic).
				Base(model.Named("System.Attribute")).Build())
	}

	res, _ := run(t, Options{InteropAttributes: []string{register}, StripSerializable: true},
		[]*model.Assembly{lib("1"), lib("2")})
	w := find(t, res, "N.Widget")
	if len(w.Attributes) != 0 || w.Flags&model.TypeSerializable != 0 {
		t.Fatalf("expected every attribute and the serializable flag gone, got %+v", w.Attributes)
	}

	res, _ = run(t, Options{
		InteropAttributes:     []string{register},
		KeepInteropAttributes: true,
		RedirectInteropMarker: true,
		InteropRedirect:       "Foundation.RegisterAttribute",
	}, []*model.Assembly{lib("1"), lib("2")})
	w = find(t, res, "N.Widget")
	if len(w.Attributes) != 2 || w.Attributes[0].Redirect != "Foundation.RegisterAttribute" {
		t.Fatalf("expected the redirected interop attribute and Serializable, got %+v", w.Attributes)
	}
	if w.Flags&model.TypeSerializable == 0 {
		t.Fatalf("serializable flag must stay when the profile supports it")
	}
}

func TestProgressEvents(t *testing.T) {
	var events []Event
	opts := Options{Progress: SinkFunc(func(ev Event) { events = append(events, ev) })}
	run(t, opts, []*model.Assembly{widget("1"), widget("2")})

	var sawKept, sawDone bool
	for _, ev := range events {
		if ev.Stage == StageTypes && ev.Type == "N.Widget" && ev.Status == StatusKept {
			sawKept = true
		}
		if ev.Stage == StageStubs && ev.Status == StatusDone {
			sawDone = true
		}
	}
	if !sawKept || !sawDone {
		t.Fatalf("missing progress events: %+v", events)
	}
}

func TestRunWithoutVariants(t *testing.T) {
	_, _, err := tryRun(Options{}, nil)
	if !errors.Is(err, ErrNoVariants) {
		t.Fatalf("expected ErrNoVariants, got %v", err)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	a, _ := run(t, Options{}, []*model.Assembly{library("1"), library("2")})
	b, _ := run(t, Options{}, []*model.Assembly{library("1"), library("2")})
	if !reflect.DeepEqual(identities(a.Types), identities(b.Types)) || a.Stats != b.Stats {
		t.Fatalf("identical inputs must give identical results")
	}
}
