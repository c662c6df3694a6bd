package testkit

import (
	"fmt"

	"apisect/internal/model"
)

// CheckAssemblyInvariants verifies that an assembly is consistently linked:
// every type is reachable by identity, nested types point back at their
// declaring type and every member points at its owner.
func CheckAssemblyInvariants(a *model.Assembly) error {
	if a == nil {
		return fmt.Errorf("nil assembly")
	}
	seen := make(map[string]bool)
	var err error
	a.Walk(func(t *model.TypeSymbol) {
		if err != nil {
			return
		}
		id := t.FullName()
		if seen[id] {
			err = fmt.Errorf("duplicate identity %q", id)
			return
		}
		seen[id] = true
		if got, ok := a.Find(id); !ok || got != t {
			err = fmt.Errorf("type %q is not indexed", id)
			return
		}
		if t.Assembly != a {
			err = fmt.Errorf("type %q belongs to another assembly", id)
			return
		}
		for _, n := range t.Nested {
			if n.DeclaringType != t {
				err = fmt.Errorf("nested type %q does not point back at %q", n.Name, id)
				return
			}
		}
		for _, m := range t.Methods {
			if m.DeclaringType != t {
				err = fmt.Errorf("method %q of %q has wrong owner", m.Name, id)
				return
			}
		}
		for _, f := range t.Fields {
			if f.DeclaringType != t {
				err = fmt.Errorf("field %q of %q has wrong owner", f.Name, id)
				return
			}
		}
	})
	if err != nil {
		return err
	}
	if len(seen) != a.Len() {
		return fmt.Errorf("index holds %d types, walk found %d", a.Len(), len(seen))
	}
	return nil
}

// MethodNames lists method names of t in order, for compact assertions.
func MethodNames(t *model.TypeSymbol) []string {
	out := make([]string, 0, len(t.Methods))
	for _, m := range t.Methods {
		out = append(out, m.Name)
	}
	return out
}
