package sigmatch

import "apisect/internal/model"

// Methods is the cross-variant method relation: matching name, return type
// and positional parameter types.
func Methods(a, b *model.Method) bool {
	return methodNamesMatch(a, b) &&
		Equal(a.ReturnType, b.ReturnType) &&
		ParamsEqual(a.Params, b.Params)
}

// methodNamesMatch lets an explicit implementation ("Ns.IFoo.Bar") match a
// method named after the interface member it implements ("Bar").
func methodNamesMatch(a, b *model.Method) bool {
	if a.Name == b.Name {
		return true
	}
	sa, sb := a.SimpleName(), b.SimpleName()
	if sa != sb {
		return false
	}
	return implementsMember(a, sa) || implementsMember(b, sb)
}

func implementsMember(m *model.Method, name string) bool {
	for _, o := range m.Overrides {
		if o.Name == name {
			return true
		}
	}
	return false
}

// Fields matches name and field type.
func Fields(a, b *model.Field) bool {
	return a.Name == b.Name && Equal(a.Type, b.Type)
}

// Properties matches name, type and indexer parameters.
func Properties(a, b *model.Property) bool {
	return a.Name == b.Name && Equal(a.Type, b.Type) && ParamsEqual(a.Params, b.Params)
}

// Events matches name and handler type.
func Events(a, b *model.Event) bool {
	return a.Name == b.Name && Equal(a.Type, b.Type)
}

// Interfaces matches by identity.
func Interfaces(a, b *model.TypeRef) bool { return SameIdentity(a, b) }

// NestedTypes matches by identity.
func NestedTypes(a, b *model.TypeSymbol) bool { return a.FullName() == b.FullName() }
