package model

// ValueKind discriminates attribute argument values.
type ValueKind uint8

const (
	ValNull ValueKind = iota
	ValPrimitive
	ValType
	ValArray
)

// AttrValue is a constructor or named argument of a custom attribute.
type AttrValue struct {
	Kind  ValueKind
	Prim  any // bool, int64, float64 or string when Kind == ValPrimitive
	Type  *TypeRef
	Elems []AttrValue
}

// NamedArg is a property or field assignment in an attribute blob.
type NamedArg struct {
	Name  string
	Value AttrValue
}

// Attribute is a custom attribute application.
type Attribute struct {
	Type  *TypeRef
	Args  []AttrValue
	Named []NamedArg

	// Redirect is the replacement attribute type identity chosen by the
	// interop marker policy, empty when the attribute is emitted as is.
	Redirect string
}

// TypeArgs returns every type referenced by the attribute's arguments,
// including types nested in array arguments.
func (a *Attribute) TypeArgs() []*TypeRef {
	var out []*TypeRef
	var collect func(v AttrValue)
	collect = func(v AttrValue) {
		switch v.Kind {
		case ValType:
			if v.Type != nil {
				out = append(out, v.Type)
			}
		case ValArray:
			for _, e := range v.Elems {
				collect(e)
			}
		}
	}
	for _, v := range a.Args {
		collect(v)
	}
	for _, n := range a.Named {
		collect(n.Value)
	}
	return out
}

// ObsoleteAttribute is the deprecation marker identity.
const ObsoleteAttribute = "System.ObsoleteAttribute"

// IsHardObsolete reports [Obsolete(msg, true)]: the second constructor
// argument is literally the boolean true.
func (a *Attribute) IsHardObsolete() bool {
	if a.Type == nil || a.Type.Identity() != ObsoleteAttribute || len(a.Args) < 2 {
		return false
	}
	v := a.Args[1]
	b, ok := v.Prim.(bool)
	return v.Kind == ValPrimitive && ok && b
}
