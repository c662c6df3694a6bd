package intersect

import (
	"apisect/internal/model"
	"apisect/internal/trace"
)

// keepAttribute applies the interop policy, then drops attributes that are
// blacklisted or pass blacklisted types as arguments. Interop attributes the
// profile lacks are kept unclassified when they get redirected.
func (e *engine) keepAttribute(a *model.Attribute) bool {
	if a == nil || a.Type == nil {
		return false
	}
	id := a.Type.Identity()
	if _, interop := e.interop[id]; interop {
		if !e.opts.KeepInteropAttributes {
			trace.Point(e.tracer, trace.ScopeMember, "strip-interop", id, "")
			return false
		}
		if e.opts.RedirectInteropMarker && e.opts.InteropRedirect != "" && !e.profile.HasType(id) {
			a.Redirect = e.opts.InteropRedirect
			return true
		}
	}
	if e.cls.AttributeBlacklisted(a) {
		trace.Point(e.tracer, trace.ScopeMember, "strip-attribute", id, "")
		return false
	}
	return true
}

func (e *engine) filterAttributes(attrs []*model.Attribute) []*model.Attribute {
	if len(attrs) == 0 {
		return attrs
	}
	out := make([]*model.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if e.keepAttribute(a) {
			out = append(out, a)
		}
	}
	return out
}

// clearSerializable drops the serializable flag and its attribute.
func clearSerializable(t *model.TypeSymbol) {
	t.Flags &^= model.TypeSerializable
	if len(t.Attributes) == 0 {
		return
	}
	out := t.Attributes[:0:0]
	for _, a := range t.Attributes {
		if a.Type != nil && a.Type.Identity() == SerializableAttribute {
			continue
		}
		out = append(out, a)
	}
	t.Attributes = out
}
