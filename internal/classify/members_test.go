package classify

import (
	"testing"

	"apisect/internal/model"
	"apisect/internal/testkit"
)

func TestOverrideNeedsBaseSlot(t *testing.T) {
	base := testkit.Class("N.Base").Method(testkit.NewMethod("Foo", testkit.Void).Virtual().Build()).Build()
	derived := testkit.Class("N.Derived").Base(model.Named("N.Base")).Method(
		testkit.NewMethod("Foo", testkit.Void).Override().Build(),
		testkit.NewMethod("Bar", testkit.Void).Override().Build(),
		testkit.NewMethod("ToString", testkit.String).Override().Build(),
	).Build()
	c, _, _ := setup(t, Options{}, base, derived)

	if c.ShouldExcludeMethod(derived.Methods[0]) {
		t.Fatalf("Foo overrides Base.Foo and must be kept")
	}
	if !c.ShouldExcludeMethod(derived.Methods[1]) {
		t.Fatalf("Bar has no base slot and must be excluded")
	}
	if got := c.FindBaseVirtual(derived.Methods[2]); got == nil || got.DeclaringType.FullName() != "System.Object" {
		t.Fatalf("ToString must resolve to System.Object, got %v", got)
	}
}

func TestFindBaseVirtualSkipsRevirtualization(t *testing.T) {
	a := testkit.Class("N.A").Method(testkit.NewMethod("Foo", testkit.Void).Virtual().Build()).Build()
	b := testkit.Class("N.B").Base(model.Named("N.A")).Method(testkit.NewMethod("Foo", testkit.Void).Override().Build()).Build()
	cc := testkit.Class("N.C").Base(model.Named("N.B")).Method(testkit.NewMethod("Foo", testkit.Void).Override().Build()).Build()
	c, _, _ := setup(t, Options{}, a, b, cc)

	got := c.FindBaseVirtual(cc.Methods[0])
	if got != a.Methods[0] {
		t.Fatalf("expected the slot introduced by N.A, got %v", got)
	}
}

func TestFindBaseVirtualBindsGenericParams(t *testing.T) {
	gb := testkit.Class("N.Base`1").Generic("T")
	gb.Method(testkit.NewMethod("Put", testkit.Void, gb.Param(0), gb.Param(0)).Virtual().Build())
	base := gb.Build()

	inst := model.Instantiate(model.Named("N.Base`1"), testkit.Int)
	same := testkit.NewMethod("Put", testkit.Void, testkit.Int, testkit.Int).Override().Build()
	mixed := testkit.NewMethod("Put", testkit.Void, testkit.Int, testkit.String).Override().Build()
	derived := testkit.Class("N.Derived").Base(inst).Method(same, mixed).Build()
	c, _, _ := setup(t, Options{}, base, derived)

	if c.FindBaseVirtual(same) == nil {
		t.Fatalf("Put(int,int) must bind T=int consistently")
	}
	if c.FindBaseVirtual(mixed) != nil {
		t.Fatalf("Put(int,string) binds T twice and must not match")
	}
}

func TestExplicitImplementationKeptWhileInterfacePresent(t *testing.T) {
	iface := testkit.Interface("N.IRun").Method(testkit.NewMethod("Run", testkit.Void).Abstract().Build()).Build()
	explicit := testkit.NewMethod("N.IRun.Run", testkit.Void).
		Access(model.AccessPrivate).
		Implements(model.Named("N.IRun"), "Run").Build()
	with := testkit.Class("N.Runner").Implements(model.Named("N.IRun")).Method(explicit).Build()

	orphan := testkit.NewMethod("N.IRun.Run", testkit.Void).
		Access(model.AccessPrivate).
		Implements(model.Named("N.IRun"), "Run").Build()
	without := testkit.Class("N.Other").Method(orphan).Build()
	c, _, _ := setup(t, Options{}, iface, with, without)

	if c.ShouldExcludeMethod(explicit) {
		t.Fatalf("explicit implementation of a present interface must be kept")
	}
	if !c.ShouldExcludeMethod(orphan) {
		t.Fatalf("private method without a present interface must be excluded")
	}
}

func TestInternalConstructors(t *testing.T) {
	w := testkit.Class("N.W").Ctor(model.AccessAssembly).
		Method(testkit.NewMethod("Helper", testkit.Void).Access(model.AccessAssembly).Build()).Build()

	c, _, _ := setup(t, Options{}, w)
	if !c.ShouldExcludeMethod(w.Methods[0]) {
		t.Fatalf("internal constructor must be excluded by default")
	}

	w2 := testkit.Class("N.W").Ctor(model.AccessAssembly).
		Method(testkit.NewMethod("Helper", testkit.Void).Access(model.AccessAssembly).Build()).Build()
	keep, _, _ := setup(t, Options{KeepInternalConstructors: true}, w2)
	if keep.ShouldExcludeMethod(w2.Methods[0]) {
		t.Fatalf("internal constructor must be kept when asked to")
	}
	if !keep.ShouldExcludeMethod(w2.Methods[1]) {
		t.Fatalf("only constructors are kept")
	}
}

func TestFieldExclusion(t *testing.T) {
	hidden := testkit.Class("N.Secret").Visibility(model.VisNotPublic).Build()
	w := testkit.Class("N.W").
		Field("Ok", testkit.Int).
		Field("Bad", model.Named("N.Secret")).
		FieldWith(&model.Field{Name: "priv", Access: model.AccessPrivate, Type: testkit.Int}).Build()
	c, _, _ := setup(t, Options{}, hidden, w)

	want := []bool{false, true, true}
	for i, f := range w.Fields {
		if got := c.ShouldExcludeField(f); got != want[i] {
			t.Fatalf("field %s: expected %v, got %v", f.Name, want[i], got)
		}
	}
}

func TestAttributeBlacklisted(t *testing.T) {
	hidden := testkit.Class("N.Secret").Visibility(model.VisNotPublic).Build()
	open := testkit.Class("N.MarkAttribute").Base(model.Named("System.Attribute")).Build()
	plain := testkit.Attr("N.MarkAttribute", testkit.Prim("x"))
	viaArray := testkit.Attr("N.MarkAttribute", testkit.ArrayArg(testkit.TypeArg(testkit.Int), testkit.TypeArg(model.Named("N.Secret"))))
	w := testkit.Class("N.W").Attribute(plain).Attribute(viaArray).Build()
	c, _, _ := setup(t, Options{}, hidden, open, w)

	if c.AttributeBlacklisted(plain) {
		t.Fatalf("attribute with primitive arguments must be kept")
	}
	if !c.AttributeBlacklisted(viaArray) {
		t.Fatalf("typeof(blacklisted) inside an array argument must blacklist the attribute")
	}
}

func TestMethodExclusionReasons(t *testing.T) {
	hidden := testkit.Class("N.Secret").Visibility(model.VisNotPublic).Build()
	w := testkit.Class("N.W").Method(
		testkit.NewMethod("Sig", testkit.Void, model.Named("N.Secret")).Build(),
		testkit.NewMethod("Orphan", testkit.Void).Override().Build(),
		testkit.NewMethod("Hidden", testkit.Void).Access(model.AccessPrivate).Build(),
		testkit.NewMethod("Fine", testkit.Void).Build(),
	).Build()
	c, _, _ := setup(t, Options{}, hidden, w)

	want := []Exclusion{ExcludedSignature, ExcludedNoBaseSlot, ExcludedHidden, Kept}
	for i, m := range w.Methods {
		if got := c.MethodExclusion(m); got != want[i] {
			t.Fatalf("%s: expected %v, got %v", m.Name, want[i], got)
		}
	}
}
