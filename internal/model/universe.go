package model

// Resolver maps references to definitions.
type Resolver interface {
	// Resolve returns the definition a named or generic-instance reference
	// points at. Arrays, pointers and generic parameters never resolve.
	Resolve(ref *TypeRef) (*TypeSymbol, bool)
	// Lookup probes for identity as seen from origin without treating a
	// miss as a failure.
	Lookup(origin *Assembly, identity string) (*TypeSymbol, bool)
}

// Profile answers questions about the target core library.
type Profile interface {
	HasType(identity string) bool
}

// Universe resolves references against the assembly they were read from
// first and then against the dependency assemblies, in load order.
type Universe struct {
	deps []*Assembly
}

// NewUniverse builds a universe whose fallback search path is deps.
func NewUniverse(deps ...*Assembly) *Universe {
	return &Universe{deps: deps}
}

// AddDependency appends an assembly to the search path.
func (u *Universe) AddDependency(a *Assembly) {
	if a != nil {
		u.deps = append(u.deps, a)
	}
}

// Dependencies returns the search path.
func (u *Universe) Dependencies() []*Assembly { return u.deps }

func (u *Universe) Resolve(ref *TypeRef) (*TypeSymbol, bool) {
	def := ref.Definition()
	if def == nil {
		return nil, false
	}
	return u.find(def.origin, def.Scope, def.FullName)
}

func (u *Universe) Lookup(origin *Assembly, identity string) (*TypeSymbol, bool) {
	return u.find(origin, "", identity)
}

// HasType reports whether any dependency defines identity.
func (u *Universe) HasType(identity string) bool {
	for _, d := range u.deps {
		if _, ok := d.Find(identity); ok {
			return true
		}
	}
	return false
}

func (u *Universe) find(origin *Assembly, scope, identity string) (*TypeSymbol, bool) {
	if origin != nil && (scope == "" || scope == origin.Name) {
		if t, ok := origin.Find(identity); ok {
			return t, true
		}
	}
	for _, d := range u.deps {
		if scope != "" && d.Name != scope {
			continue
		}
		if t, ok := d.Find(identity); ok {
			return t, true
		}
	}
	return nil, false
}
