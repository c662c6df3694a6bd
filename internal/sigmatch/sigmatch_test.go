package sigmatch

import (
	"testing"

	"apisect/internal/model"
)

func typeParam(name string, pos int) *model.TypeRef {
	return model.ParamRef(&model.GenericParam{Name: name, Owner: model.OwnerType, Position: pos})
}

func methodParam(name string, pos int) *model.TypeRef {
	return model.ParamRef(&model.GenericParam{Name: name, Owner: model.OwnerMethod, Position: pos})
}

func TestEqual(t *testing.T) {
	i32 := model.Named("System.Int32")
	cases := []struct {
		name string
		a, b *model.TypeRef
		want bool
	}{
		{"same name", i32, model.Named("System.Int32"), true},
		{"different name", i32, model.Named("System.Int64"), false},
		{"renamed type parameter", typeParam("T", 0), typeParam("TKey", 0), true},
		{"parameter position", typeParam("T", 0), typeParam("T", 1), false},
		{"parameter owner", typeParam("T", 0), methodParam("T", 0), false},
		{"vector rank", &model.TypeRef{Kind: model.RefArray, Elem: i32}, model.ArrayOf(i32), true},
		{"array rank", model.ArrayOf(i32), &model.TypeRef{Kind: model.RefArray, Elem: i32, Rank: 2}, false},
		{"byref vs pointer", model.ByRef(i32), model.PointerTo(i32), false},
		{"generic args", model.Instantiate(model.Named("N.Box`1"), i32),
			model.Instantiate(model.Named("N.Box`1"), model.Named("System.String")), false},
		{"nil", nil, nil, true},
		{"nil vs named", nil, i32, false},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestEqualIgnoresOriginAssembly(t *testing.T) {
	mk := func(name string) *model.TypeRef {
		a := model.NewAssembly(name, "1", []*model.TypeSymbol{{
			Namespace: "N", Name: "T", Visibility: model.VisPublic, Base: model.Named("System.Object"),
		}})
		ts, _ := a.Find("N.T")
		return ts.Base
	}
	if !Equal(mk("A"), mk("B")) {
		t.Fatalf("references from different assemblies must match by shape")
	}
}

func TestBinderBindsConsistently(t *testing.T) {
	i32, str := model.Named("System.Int32"), model.Named("System.String")
	b := NewBinder()
	if !b.Match(i32, typeParam("T", 0)) {
		t.Fatalf("first occurrence binds")
	}
	if !b.Match(i32, typeParam("T", 0)) {
		t.Fatalf("same binding must match again")
	}
	if b.Match(str, typeParam("T", 0)) {
		t.Fatalf("conflicting binding must fail")
	}
	if got := b.Bindings()["!0"]; got != "System.Int32" {
		t.Fatalf("unexpected binding %q", got)
	}
}

func TestBinderMethodParamsArePositional(t *testing.T) {
	b := NewBinder()
	if !b.Match(methodParam("U", 0), methodParam("V", 0)) {
		t.Fatalf("method parameters match by position")
	}
	if b.Match(model.Named("System.Int32"), methodParam("U", 0)) {
		t.Fatalf("method parameters never bind")
	}
}

func method(name string, ret *model.TypeRef, params ...*model.TypeRef) *model.Method {
	m := &model.Method{Name: name, Access: model.AccessPublic, ReturnType: ret}
	for _, p := range params {
		m.Params = append(m.Params, &model.Param{Type: p})
	}
	return m
}

func TestOverrideMatches(t *testing.T) {
	void, i32 := model.Named("System.Void"), model.Named("System.Int32")
	// Base<T>.Put(T, T) against Derived : Base<int>
	ancestor := method("Put", void, typeParam("T", 0), typeParam("T", 0))
	if !OverrideMatches(method("Put", void, i32, i32), ancestor) {
		t.Fatalf("Put(int,int) overrides Put(T,T)")
	}
	if OverrideMatches(method("Put", void, i32, model.Named("System.String")), ancestor) {
		t.Fatalf("T cannot bind to two types")
	}
	if OverrideMatches(method("Put", void, i32), ancestor) {
		t.Fatalf("arity must match")
	}
	if OverrideMatches(method("Get", void, i32, i32), ancestor) {
		t.Fatalf("names must match")
	}
}

func TestMethodsMatchExplicitImplementation(t *testing.T) {
	void := model.Named("System.Void")
	plain := method("Bar", void)
	explicit := method("N.IFoo.Bar", void)
	if Methods(plain, explicit) {
		t.Fatalf("without an override record the names differ")
	}
	explicit.Overrides = []model.MemberRef{{DeclaringType: model.Named("N.IFoo"), Name: "Bar"}}
	if !Methods(plain, explicit) || !Methods(explicit, plain) {
		t.Fatalf("an explicit implementation matches the member it implements")
	}
	if Methods(method("Bar", void, model.Named("System.Int32")), explicit) {
		t.Fatalf("parameters still have to match")
	}
}

func TestMemberRelations(t *testing.T) {
	i32 := model.Named("System.Int32")
	if !Fields(&model.Field{Name: "F", Type: i32}, &model.Field{Name: "F", Type: model.Named("System.Int32")}) {
		t.Fatalf("fields match by name and type")
	}
	if Properties(&model.Property{Name: "Item", Type: i32, Params: []*model.Param{{Type: i32}}},
		&model.Property{Name: "Item", Type: i32}) {
		t.Fatalf("indexer parameters are part of the property shape")
	}
	if Events(&model.Event{Name: "E", Type: model.Named("N.H")}, &model.Event{Name: "E", Type: model.Named("N.G")}) {
		t.Fatalf("event handler types must match")
	}
	if !Interfaces(model.Named("N.IFoo"), model.NamedIn("Lib", "N.IFoo")) {
		t.Fatalf("interfaces match by identity")
	}
}
