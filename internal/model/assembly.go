package model

// Assembly is one loaded assembly description.
type Assembly struct {
	Name    string
	Version string
	Types   []*TypeSymbol // top-level types, declaration order

	index map[string]*TypeSymbol
}

// NewAssembly links the given top-level types to the assembly: declaring
// type back-pointers, member owners and reference origins are filled in and
// every type, nested ones included, is indexed by identity.
func NewAssembly(name, version string, types []*TypeSymbol) *Assembly {
	a := &Assembly{
		Name:    name,
		Version: version,
		Types:   types,
		index:   make(map[string]*TypeSymbol, len(types)),
	}
	for _, t := range types {
		t.DeclaringType = nil
		a.link(t)
	}
	return a
}

func (a *Assembly) link(t *TypeSymbol) {
	t.Assembly = a
	a.index[t.FullName()] = t

	t.Base = a.own(t.Base)
	for i := range t.Interfaces {
		t.Interfaces[i] = a.own(t.Interfaces[i])
	}
	a.ownParams(t.GenericParams)
	a.ownAttrs(t.Attributes)
	for _, m := range t.Methods {
		m.DeclaringType = t
		m.ReturnType = a.own(m.ReturnType)
		for _, p := range m.Params {
			p.Type = a.own(p.Type)
			a.ownAttrs(p.Attributes)
		}
		for i := range m.Overrides {
			m.Overrides[i].DeclaringType = a.own(m.Overrides[i].DeclaringType)
		}
		a.ownParams(m.GenericParams)
		a.ownAttrs(m.Attributes)
		a.ownAttrs(m.ReturnAttributes)
	}
	for _, f := range t.Fields {
		f.DeclaringType = t
		f.Type = a.own(f.Type)
		a.ownAttrs(f.Attributes)
	}
	for _, p := range t.Properties {
		p.DeclaringType = t
		p.Type = a.own(p.Type)
		for _, ip := range p.Params {
			ip.Type = a.own(ip.Type)
		}
		a.ownAttrs(p.Attributes)
	}
	for _, e := range t.Events {
		e.DeclaringType = t
		e.Type = a.own(e.Type)
		a.ownAttrs(e.Attributes)
	}
	for _, n := range t.Nested {
		n.DeclaringType = t
		n.Namespace = ""
		a.link(n)
	}
}

// own anchors r in a. A reference already anchored in another assembly is
// copied first so that both assemblies keep resolving from their own side.
func (a *Assembly) own(r *TypeRef) *TypeRef {
	if r == nil {
		return nil
	}
	claimed := false
	walkRefs(r, func(x *TypeRef) {
		if x.origin != nil && x.origin != a {
			claimed = true
		}
	})
	if claimed {
		r = r.clone()
	}
	walkRefs(r, func(x *TypeRef) { x.origin = a })
	return r
}

func (a *Assembly) ownParams(gps []*GenericParam) {
	for _, gp := range gps {
		for i := range gp.Constraints {
			gp.Constraints[i] = a.own(gp.Constraints[i])
		}
	}
}

func (a *Assembly) ownAttrs(attrs []*Attribute) {
	for _, at := range attrs {
		at.Type = a.own(at.Type)
		for i := range at.Args {
			a.ownValue(&at.Args[i])
		}
		for i := range at.Named {
			a.ownValue(&at.Named[i].Value)
		}
	}
}

func (a *Assembly) ownValue(v *AttrValue) {
	switch v.Kind {
	case ValType:
		v.Type = a.own(v.Type)
	case ValArray:
		for i := range v.Elems {
			a.ownValue(&v.Elems[i])
		}
	}
}

// Find returns the type (nested or not) with the given identity.
func (a *Assembly) Find(identity string) (*TypeSymbol, bool) {
	if a == nil {
		return nil, false
	}
	t, ok := a.index[identity]
	return t, ok
}

// Walk visits every type, nested types right after their declaring type.
func (a *Assembly) Walk(fn func(*TypeSymbol)) {
	for _, t := range a.Types {
		t.Walk(fn)
	}
}

// Len is the number of indexed types, nested ones included.
func (a *Assembly) Len() int { return len(a.index) }
