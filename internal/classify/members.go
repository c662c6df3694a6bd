package classify

import (
	"apisect/internal/model"
	"apisect/internal/sigmatch"
	"apisect/internal/trace"
)

// Exclusion tells why a method drops out of the surface.
type Exclusion uint8

const (
	Kept Exclusion = iota
	// ExcludedSignature: return or parameter type is blacklisted.
	ExcludedSignature
	// ExcludedNoBaseSlot: overrides a slot no ancestor introduces.
	ExcludedNoBaseSlot
	// ExcludedHidden: private or internal.
	ExcludedHidden
)

func (x Exclusion) String() string {
	switch x {
	case Kept:
		return "kept"
	case ExcludedSignature:
		return "signature references a removed type"
	case ExcludedNoBaseSlot:
		return "overridden slot is gone"
	case ExcludedHidden:
		return "not visible"
	}
	return "unknown"
}

// MethodExclusion runs the member predicate on m:
//   - its return or a parameter type is blacklisted;
//   - it explicitly implements a member of an interface still listed on
//     its type: kept, whatever follows;
//   - it overrides a slot no ancestor introduces;
//   - it is private or internal, except instance constructors when
//     KeepInternalConstructors is set.
func (c *Classifier) MethodExclusion(m *model.Method) Exclusion {
	x := c.methodExclusion(m)
	if x != Kept {
		trace.Point(c.tracer, trace.ScopeMember, "exclude", m.QualifiedName(), x.String())
	}
	return x
}

func (c *Classifier) methodExclusion(m *model.Method) Exclusion {
	if c.IsBlacklisted(m.ReturnType) {
		return ExcludedSignature
	}
	for _, p := range m.Params {
		if c.IsBlacklisted(p.Type) {
			return ExcludedSignature
		}
	}
	if implementsPresentInterface(m) {
		return Kept
	}
	if m.ReusesSlot() && c.FindBaseVirtual(m) == nil {
		return ExcludedNoBaseSlot
	}
	if m.Access.Hidden() {
		if c.opts.KeepInternalConstructors && m.IsInstanceConstructor() {
			return Kept
		}
		return ExcludedHidden
	}
	return Kept
}

// ShouldExcludeMethod reports whether m drops out of the surface.
func (c *Classifier) ShouldExcludeMethod(m *model.Method) bool {
	return c.MethodExclusion(m) != Kept
}

// ShouldExcludeField drops fields of blacklisted type and hidden fields.
func (c *Classifier) ShouldExcludeField(f *model.Field) bool {
	return c.IsBlacklisted(f.Type) || f.Access.Hidden()
}

// AttributeBlacklisted reports an attribute whose type, or any type passed
// to it (arrays included), is blacklisted.
func (c *Classifier) AttributeBlacklisted(a *model.Attribute) bool {
	if c.IsBlacklisted(a.Type) {
		return true
	}
	for _, r := range a.TypeArgs() {
		if c.IsBlacklisted(r) {
			return true
		}
	}
	return false
}

// FindBaseVirtual walks the base chain of m's declaring type and returns the
// ancestor method that introduced the slot m overrides, or nil.
// Re-virtualizing matches are skipped.
func (c *Classifier) FindBaseVirtual(m *model.Method) *model.Method {
	if m.DeclaringType == nil {
		return nil
	}
	seen := map[*model.TypeSymbol]bool{m.DeclaringType: true}
	for base := m.DeclaringType.Base; base != nil; {
		anc, ok := c.res.Resolve(base)
		if !ok || seen[anc] {
			return nil
		}
		seen[anc] = true
		for _, cand := range anc.Methods {
			if !cand.IsVirtual() || !sigmatch.OverrideMatches(m, cand) {
				continue
			}
			if cand.IsNewSlot() {
				return cand
			}
			break
		}
		base = anc.Base
	}
	return nil
}

func implementsPresentInterface(m *model.Method) bool {
	if m.DeclaringType == nil {
		return false
	}
	for _, o := range m.Overrides {
		if o.DeclaringType != nil && m.DeclaringType.HasInterface(o.DeclaringType.Identity()) {
			return true
		}
	}
	return false
}
