// Package sigmatch implements structural equality of type references and
// member signatures. Nothing here looks at which assembly a symbol came
// from: two symbols match by name and shape only.
package sigmatch

import "apisect/internal/model"

// Equal reports structural equality of two references. Generic parameters
// match by owner kind and position, so T in one variant equals T in another
// even if the parameter was renamed.
func Equal(a, b *model.TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case model.RefNamed:
		return a.FullName == b.FullName
	case model.RefGenericParam:
		return sameParam(a.Param, b.Param)
	case model.RefArray:
		return rank(a) == rank(b) && Equal(a.Elem, b.Elem)
	case model.RefPointer, model.RefByRef:
		return Equal(a.Elem, b.Elem)
	case model.RefGenericInst:
		if !Equal(a.Elem, b.Elem) || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// SameIdentity compares references by full identity; used for interface
// lists and nested types.
func SameIdentity(a, b *model.TypeRef) bool {
	return a.Identity() == b.Identity()
}

// ParamsEqual compares parameter lists positionally; arity must match.
func ParamsEqual(a, b []*model.Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func sameParam(a, b *model.GenericParam) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Owner == b.Owner && a.Position == b.Position
}

func rank(r *model.TypeRef) int {
	if r.Rank <= 1 {
		return 1
	}
	return r.Rank
}
