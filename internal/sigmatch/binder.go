package sigmatch

import (
	"strconv"

	"apisect/internal/model"
)

// Binder matches a derived-side reference against an ancestor-side one.
// Type-level generic parameters on the ancestor side are placeholders: the
// first time one is met it binds to whatever the derived side has there,
// and every later occurrence must bind to the same thing. A Binder is
// meant for exactly one signature comparison.
type Binder struct {
	bound map[string]string
}

// NewBinder returns an empty binding table.
func NewBinder() *Binder {
	return &Binder{bound: make(map[string]string, 4)}
}

// Match reports whether derived is structurally equal to ancestor under the
// current bindings, extending them as needed.
func (b *Binder) Match(derived, ancestor *model.TypeRef) bool {
	if derived == nil || ancestor == nil {
		return derived == ancestor
	}
	if ancestor.Kind == model.RefGenericParam && ancestor.Param != nil && ancestor.Param.Owner == model.OwnerType {
		key := "!" + strconv.Itoa(ancestor.Param.Position)
		got := derived.Identity()
		if prev, ok := b.bound[key]; ok {
			return prev == got
		}
		b.bound[key] = got
		return true
	}
	if derived.Kind != ancestor.Kind {
		return false
	}
	switch ancestor.Kind {
	case model.RefNamed:
		return derived.FullName == ancestor.FullName
	case model.RefGenericParam:
		// method-level parameters line up positionally
		return sameParam(derived.Param, ancestor.Param)
	case model.RefArray:
		return rank(derived) == rank(ancestor) && b.Match(derived.Elem, ancestor.Elem)
	case model.RefPointer, model.RefByRef:
		return b.Match(derived.Elem, ancestor.Elem)
	case model.RefGenericInst:
		if !b.Match(derived.Elem, ancestor.Elem) || len(derived.Args) != len(ancestor.Args) {
			return false
		}
		for i := range ancestor.Args {
			if !b.Match(derived.Args[i], ancestor.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Bindings returns a copy of the table, keyed "!<position>".
func (b *Binder) Bindings() map[string]string {
	out := make(map[string]string, len(b.bound))
	for k, v := range b.bound {
		out[k] = v
	}
	return out
}

// OverrideMatches reports whether m can occupy the slot of candidate: same
// name, parameter count and generic arity, and structurally equal return and
// parameter types under a fresh binding table.
func OverrideMatches(m, candidate *model.Method) bool {
	if m.Name != candidate.Name ||
		len(m.Params) != len(candidate.Params) ||
		len(m.GenericParams) != len(candidate.GenericParams) {
		return false
	}
	b := NewBinder()
	if !b.Match(m.ReturnType, candidate.ReturnType) {
		return false
	}
	for i := range m.Params {
		if !b.Match(m.Params[i].Type, candidate.Params[i].Type) {
			return false
		}
	}
	return true
}
