package model

// TypeKind classifies a type definition.
type TypeKind uint8

const (
	KindClass TypeKind = iota
	KindInterface
	KindValue
	KindEnum
	KindDelegate
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindValue:
		return "struct"
	case KindEnum:
		return "enum"
	case KindDelegate:
		return "delegate"
	default:
		return "invalid"
	}
}

// ParseTypeKind maps the textual form used by model files.
func ParseTypeKind(s string) (TypeKind, bool) {
	for k := KindClass; k <= KindDelegate; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindClass, false
}

// TypeFlags encode modifiers of a type definition.
type TypeFlags uint8

const (
	TypeAbstract TypeFlags = 1 << iota
	TypeSealed
	TypeSerializable
)

// Strings returns textual flag labels.
func (f TypeFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 3)
	if f&TypeAbstract != 0 {
		labels = append(labels, "abstract")
	}
	if f&TypeSealed != 0 {
		labels = append(labels, "sealed")
	}
	if f&TypeSerializable != 0 {
		labels = append(labels, "serializable")
	}
	return labels
}

// MulticastDelegate is the root every delegate type derives from.
const MulticastDelegate = "System.MulticastDelegate"

// TypeSymbol is a type definition read from one assembly.
type TypeSymbol struct {
	Namespace  string // empty for nested types; see FullName
	Name       string // simple name, including the `N generic arity suffix
	Kind       TypeKind
	Visibility Visibility
	Flags      TypeFlags

	Base          *TypeRef
	Interfaces    []*TypeRef
	GenericParams []*GenericParam
	Methods       []*Method
	Fields        []*Field
	Properties    []*Property
	Events        []*Event
	Nested        []*TypeSymbol
	Attributes    []*Attribute

	DeclaringType *TypeSymbol
	Assembly      *Assembly
}

// FullName is the type identity: "Ns.Outer/Inner".
func (t *TypeSymbol) FullName() string {
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "/" + t.Name
	}
	return JoinName(t.Namespace, t.Name)
}

// TopNamespace is the namespace of the outermost declaring type.
func (t *TypeSymbol) TopNamespace() string {
	cur := t
	for cur.DeclaringType != nil {
		cur = cur.DeclaringType
	}
	return cur.Namespace
}

// IsNested reports whether the type is declared inside another type.
func (t *TypeSymbol) IsNested() bool { return t.DeclaringType != nil }

func (t *TypeSymbol) IsInterface() bool { return t.Kind == KindInterface }

// IsValueType reports structs and enums.
func (t *TypeSymbol) IsValueType() bool { return t.Kind == KindValue || t.Kind == KindEnum }

// IsDelegate reports whether the type derives directly from the delegate root.
func (t *TypeSymbol) IsDelegate() bool {
	if t.Kind == KindDelegate {
		return true
	}
	return t.Base != nil && t.Base.Kind == RefNamed && t.Base.FullName == MulticastDelegate
}

// IsStaticHolder reports sealed+abstract types (C# static classes).
func (t *TypeSymbol) IsStaticHolder() bool {
	return t.Flags&TypeAbstract != 0 && t.Flags&TypeSealed != 0
}

// Ref returns a named reference to t anchored in t's assembly.
func (t *TypeSymbol) Ref() *TypeRef {
	r := Named(t.FullName())
	if t.Assembly != nil {
		r.Scope = t.Assembly.Name
		r.origin = t.Assembly
	}
	return r
}

// FindMethod returns the first method with the given name.
func (t *TypeSymbol) FindMethod(name string) *Method {
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// HasInterface reports whether identity is in the interface list.
func (t *TypeSymbol) HasInterface(identity string) bool {
	for _, i := range t.Interfaces {
		if i.Identity() == identity {
			return true
		}
	}
	return false
}

// Walk visits t and all nested types in declaration order.
func (t *TypeSymbol) Walk(fn func(*TypeSymbol)) {
	fn(t)
	for _, n := range t.Nested {
		n.Walk(fn)
	}
}

// Constructors returns the instance constructors, in declaration order.
func (t *TypeSymbol) Constructors() []*Method {
	var out []*Method
	for _, m := range t.Methods {
		if m.IsInstanceConstructor() {
			out = append(out, m)
		}
	}
	return out
}
