package model

import "strings"

// MethodFlags encode method modifiers.
type MethodFlags uint16

const (
	MethodStatic MethodFlags = 1 << iota
	MethodVirtual
	MethodAbstract
	MethodFinal
	MethodNewSlot
)

// Strings returns textual flag labels.
func (f MethodFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 5)
	if f&MethodStatic != 0 {
		labels = append(labels, "static")
	}
	if f&MethodVirtual != 0 {
		labels = append(labels, "virtual")
	}
	if f&MethodAbstract != 0 {
		labels = append(labels, "abstract")
	}
	if f&MethodFinal != 0 {
		labels = append(labels, "final")
	}
	if f&MethodNewSlot != 0 {
		labels = append(labels, "newslot")
	}
	return labels
}

const (
	CtorName       = ".ctor"
	StaticCtorName = ".cctor"
)

// MemberRef names a member of another type, used for explicit interface
// implementations.
type MemberRef struct {
	DeclaringType *TypeRef
	Name          string
}

// Param is a method or indexer parameter.
type Param struct {
	Name       string
	Type       *TypeRef
	Attributes []*Attribute
}

// Method is a method, constructor or accessor definition.
type Method struct {
	Name             string
	Access           Access
	Flags            MethodFlags
	ReturnType       *TypeRef
	Params           []*Param
	GenericParams    []*GenericParam
	Overrides        []MemberRef
	Attributes       []*Attribute
	ReturnAttributes []*Attribute

	DeclaringType *TypeSymbol

	// Synthesized marks constructors added by the intersection.
	Synthesized bool
	// Body is set once the method has been planned as stub-only.
	Body *StubBody
}

func (m *Method) IsStatic() bool   { return m.Flags&MethodStatic != 0 }
func (m *Method) IsVirtual() bool  { return m.Flags&MethodVirtual != 0 }
func (m *Method) IsAbstract() bool { return m.Flags&MethodAbstract != 0 }
func (m *Method) IsNewSlot() bool  { return m.Flags&MethodNewSlot != 0 }

// IsConstructor reports instance and static constructors.
func (m *Method) IsConstructor() bool {
	return m.Name == CtorName || m.Name == StaticCtorName
}

// IsInstanceConstructor reports .ctor on a non-static method.
func (m *Method) IsInstanceConstructor() bool {
	return m.Name == CtorName && !m.IsStatic()
}

// ReusesSlot reports a virtual that overrides an inherited slot.
func (m *Method) ReusesSlot() bool { return m.IsVirtual() && !m.IsNewSlot() }

// SimpleName strips the interface prefix of an explicit implementation:
// "Ns.IFoo.Bar" -> "Bar".
func (m *Method) SimpleName() string { return SimpleMemberName(m.Name) }

// SimpleMemberName returns the part after the last '.', leaving ".ctor" alone.
func SimpleMemberName(name string) string {
	if name == CtorName || name == StaticCtorName {
		return name
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i+1 < len(name) {
		return name[i+1:]
	}
	return name
}

// Signature renders the method for diagnostics: "Name(T1,T2)".
func (m *Method) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Type.Identity())
	}
	sb.WriteByte(')')
	return sb.String()
}

// QualifiedName prefixes the signature with the declaring type.
func (m *Method) QualifiedName() string {
	if m.DeclaringType == nil {
		return m.Signature()
	}
	return m.DeclaringType.FullName() + "::" + m.Signature()
}

// Field is a field definition.
type Field struct {
	Name       string
	Access     Access
	Static     bool
	Type       *TypeRef
	Attributes []*Attribute

	DeclaringType *TypeSymbol
}

// Property is a property or indexer.
type Property struct {
	Name       string
	Type       *TypeRef
	Params     []*Param
	Getter     *Method
	Setter     *Method
	Attributes []*Attribute

	DeclaringType *TypeSymbol
}

// HasAccessors reports whether any accessor survives.
func (p *Property) HasAccessors() bool { return p.Getter != nil || p.Setter != nil }

// Event is an event definition.
type Event struct {
	Name       string
	Type       *TypeRef
	Add        *Method
	Remove     *Method
	Raise      *Method
	Attributes []*Attribute

	DeclaringType *TypeSymbol
}

// HasAccessors reports whether any accessor survives.
func (e *Event) HasAccessors() bool { return e.Add != nil || e.Remove != nil || e.Raise != nil }

// DefaultKind tells how an argument default is materialized.
type DefaultKind uint8

const (
	// DefaultNull passes a null reference.
	DefaultNull DefaultKind = iota
	// DefaultZero passes default(T): zeroed value types and generic parameters.
	DefaultZero
	// DefaultLocal passes a zeroed local of the element type by reference.
	DefaultLocal
)

// DefaultValue is one synthesized constructor argument.
type DefaultValue struct {
	Kind DefaultKind
	Type *TypeRef
}

// CtorCall is the base constructor call a stub constructor performs.
type CtorCall struct {
	Target *Method
	Args   []DefaultValue
}

// StubBody describes the replacement body of a surviving method: an
// optional base constructor call followed by throwing Throws.
type StubBody struct {
	BaseCall *CtorCall
	Throws   string
}
