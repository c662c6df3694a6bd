package testkit

import (
	"apisect/internal/model"
)

// Common references used by fixtures and tests.
var (
	Object = model.Named("System.Object")
	Void   = model.Named("System.Void")
	Int    = model.Named("System.Int32")
	String = model.Named("System.String")
	Bool   = model.Named("System.Boolean")
	IntPtr = model.Named("System.IntPtr")
)

// Corlib builds a minimal core library: object with its virtuals, the
// primitives used in tests, the delegate roots and the attribute types the
// intersection cares about.
func Corlib() *model.Assembly {
	object := &model.TypeSymbol{
		Namespace:  "System",
		Name:       "Object",
		Visibility: model.VisPublic,
		Methods: []*model.Method{
			NewMethod(model.CtorName, Void).Build(),
			NewMethod("ToString", String).Virtual().Build(),
			NewMethod("Equals", Bool, Object).Virtual().Build(),
			NewMethod("GetHashCode", Int).Virtual().Build(),
		},
	}
	types := []*model.TypeSymbol{
		object,
		Struct("System.Int32").Build(),
		Struct("System.Boolean").Build(),
		Struct("System.IntPtr").Build(),
		Struct("System.Void").Build(),
		Class("System.String").Sealed().Build(),
		Class("System.ValueType").Abstract().Build(),
		Class("System.Delegate").Abstract().Build(),
		Class("System.MulticastDelegate").Abstract().Base(model.Named("System.Delegate")).Build(),
		Class("System.Attribute").Abstract().Ctor(model.AccessFamily).Build(),
		Class("System.Exception").Ctor(model.AccessPublic).Build(),
		Class("System.NotImplementedException").Base(model.Named("System.Exception")).Ctor(model.AccessPublic).Build(),
		Class("System.SerializableAttribute").Sealed().Base(model.Named("System.Attribute")).Ctor(model.AccessPublic).Build(),
		Class("System.ObsoleteAttribute").Sealed().Base(model.Named("System.Attribute")).
			Ctor(model.AccessPublic).
			Ctor(model.AccessPublic, String, Bool).Build(),
	}
	return model.NewAssembly("mscorlib", "4.0.0.0", types)
}

// TypeBuilder assembles a TypeSymbol fluently.
type TypeBuilder struct{ t *model.TypeSymbol }

func newType(fullName string, kind model.TypeKind) *TypeBuilder {
	ns, name := model.SplitName(fullName)
	return &TypeBuilder{t: &model.TypeSymbol{
		Namespace:  ns,
		Name:       name,
		Kind:       kind,
		Visibility: model.VisPublic,
	}}
}

// Class starts a public class deriving from System.Object.
func Class(fullName string) *TypeBuilder {
	b := newType(fullName, model.KindClass)
	if fullName != "System.Object" {
		b.t.Base = model.Named("System.Object")
	}
	return b
}

// Interface starts a public abstract interface.
func Interface(fullName string) *TypeBuilder {
	b := newType(fullName, model.KindInterface)
	b.t.Flags |= model.TypeAbstract
	return b
}

// Struct starts a public value type.
func Struct(fullName string) *TypeBuilder {
	b := newType(fullName, model.KindValue)
	b.t.Base = model.Named("System.ValueType")
	b.t.Flags |= model.TypeSealed
	return b
}

// Delegate starts a public delegate with the usual constructor and Invoke.
func Delegate(fullName string, ret *model.TypeRef, params ...*model.TypeRef) *TypeBuilder {
	b := newType(fullName, model.KindDelegate)
	b.t.Base = model.Named(model.MulticastDelegate)
	b.t.Flags |= model.TypeSealed
	b.Ctor(model.AccessPublic, Object, IntPtr)
	b.Method(NewMethod("Invoke", ret, params...).Virtual().Build())
	return b
}

func (b *TypeBuilder) Base(ref *model.TypeRef) *TypeBuilder { b.t.Base = ref; return b }
func (b *TypeBuilder) NoBase() *TypeBuilder                 { b.t.Base = nil; return b }

func (b *TypeBuilder) Implements(refs ...*model.TypeRef) *TypeBuilder {
	b.t.Interfaces = append(b.t.Interfaces, refs...)
	return b
}

func (b *TypeBuilder) Visibility(v model.Visibility) *TypeBuilder { b.t.Visibility = v; return b }
func (b *TypeBuilder) Abstract() *TypeBuilder                     { b.t.Flags |= model.TypeAbstract; return b }
func (b *TypeBuilder) Sealed() *TypeBuilder                       { b.t.Flags |= model.TypeSealed; return b }
func (b *TypeBuilder) Serializable() *TypeBuilder                 { b.t.Flags |= model.TypeSerializable; return b }

func (b *TypeBuilder) Generic(names ...string) *TypeBuilder {
	for i, n := range names {
		b.t.GenericParams = append(b.t.GenericParams, &model.GenericParam{Name: n, Owner: model.OwnerType, Position: i})
	}
	return b
}

// Param returns a reference to the i-th type generic parameter.
func (b *TypeBuilder) Param(i int) *model.TypeRef {
	return model.ParamRef(b.t.GenericParams[i])
}

func (b *TypeBuilder) Method(ms ...*model.Method) *TypeBuilder {
	b.t.Methods = append(b.t.Methods, ms...)
	return b
}

// Ctor adds an instance constructor with the given accessibility.
func (b *TypeBuilder) Ctor(access model.Access, params ...*model.TypeRef) *TypeBuilder {
	return b.Method(NewMethod(model.CtorName, Void, params...).Access(access).Build())
}

func (b *TypeBuilder) Field(name string, typ *model.TypeRef) *TypeBuilder {
	b.t.Fields = append(b.t.Fields, &model.Field{Name: name, Access: model.AccessPublic, Type: typ})
	return b
}

func (b *TypeBuilder) FieldWith(f *model.Field) *TypeBuilder {
	b.t.Fields = append(b.t.Fields, f)
	return b
}

// Property adds a property with a getter named get_<name>.
func (b *TypeBuilder) Property(name string, typ *model.TypeRef) *TypeBuilder {
	getter := NewMethod("get_"+name, typ).Build()
	b.t.Methods = append(b.t.Methods, getter)
	b.t.Properties = append(b.t.Properties, &model.Property{Name: name, Type: typ, Getter: getter})
	return b
}

// Event adds an event with add_/remove_ accessors.
func (b *TypeBuilder) Event(name string, typ *model.TypeRef) *TypeBuilder {
	add := NewMethod("add_"+name, Void, typ).Build()
	remove := NewMethod("remove_"+name, Void, typ).Build()
	b.t.Methods = append(b.t.Methods, add, remove)
	b.t.Events = append(b.t.Events, &model.Event{Name: name, Type: typ, Add: add, Remove: remove})
	return b
}

func (b *TypeBuilder) Nested(ts ...*model.TypeSymbol) *TypeBuilder {
	for _, t := range ts {
		if t.Visibility == model.VisPublic {
			t.Visibility = model.VisNestedPublic
		}
		t.Namespace = ""
		b.t.Nested = append(b.t.Nested, t)
	}
	return b
}

func (b *TypeBuilder) Attribute(a *model.Attribute) *TypeBuilder {
	b.t.Attributes = append(b.t.Attributes, a)
	return b
}

func (b *TypeBuilder) Build() *model.TypeSymbol { return b.t }

// MethodBuilder assembles a Method fluently. Methods default to public,
// non-virtual instance methods.
type MethodBuilder struct{ m *model.Method }

func NewMethod(name string, ret *model.TypeRef, params ...*model.TypeRef) *MethodBuilder {
	m := &model.Method{Name: name, Access: model.AccessPublic, ReturnType: ret}
	for i, p := range params {
		m.Params = append(m.Params, &model.Param{Name: paramName(i), Type: p})
	}
	return &MethodBuilder{m: m}
}

func paramName(i int) string { return string(rune('a' + i%26)) }

func (b *MethodBuilder) Access(a model.Access) *MethodBuilder { b.m.Access = a; return b }
func (b *MethodBuilder) Static() *MethodBuilder               { b.m.Flags |= model.MethodStatic; return b }

// Virtual introduces a new virtual slot.
func (b *MethodBuilder) Virtual() *MethodBuilder {
	b.m.Flags |= model.MethodVirtual | model.MethodNewSlot
	return b
}

// Override reuses an inherited slot.
func (b *MethodBuilder) Override() *MethodBuilder {
	b.m.Flags |= model.MethodVirtual
	b.m.Flags &^= model.MethodNewSlot
	return b
}

func (b *MethodBuilder) Abstract() *MethodBuilder {
	b.m.Flags |= model.MethodAbstract | model.MethodVirtual | model.MethodNewSlot
	return b
}

// Implements marks the method as an explicit implementation of iface.name.
func (b *MethodBuilder) Implements(iface *model.TypeRef, name string) *MethodBuilder {
	b.m.Overrides = append(b.m.Overrides, model.MemberRef{DeclaringType: iface, Name: name})
	return b
}

func (b *MethodBuilder) Generic(names ...string) *MethodBuilder {
	for i, n := range names {
		b.m.GenericParams = append(b.m.GenericParams, &model.GenericParam{Name: n, Owner: model.OwnerMethod, Position: i})
	}
	return b
}

func (b *MethodBuilder) Attribute(a *model.Attribute) *MethodBuilder {
	b.m.Attributes = append(b.m.Attributes, a)
	return b
}

func (b *MethodBuilder) Build() *model.Method { return b.m }

// Attr builds an attribute application with primitive or type arguments.
func Attr(typ string, args ...model.AttrValue) *model.Attribute {
	return &model.Attribute{Type: model.Named(typ), Args: args}
}

// Prim wraps a primitive attribute argument.
func Prim(v any) model.AttrValue { return model.AttrValue{Kind: model.ValPrimitive, Prim: v} }

// TypeArg wraps a typeof() attribute argument.
func TypeArg(r *model.TypeRef) model.AttrValue { return model.AttrValue{Kind: model.ValType, Type: r} }

// ArrayArg wraps an array attribute argument.
func ArrayArg(elems ...model.AttrValue) model.AttrValue {
	return model.AttrValue{Kind: model.ValArray, Elems: elems}
}

// Assembly links types into an assembly.
func Assembly(name, version string, types ...*model.TypeSymbol) *model.Assembly {
	return model.NewAssembly(name, version, types)
}
