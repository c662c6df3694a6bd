// Package presence indexes which variants define each type of the main
// assembly.
package presence

import (
	"sort"

	"apisect/internal/model"
)

// Vector holds, per variant, that variant's definition of one identity or
// nil when the variant lacks it. Slot 0 is always set.
type Vector []*model.TypeSymbol

// Main returns the main variant's definition.
func (v Vector) Main() *model.TypeSymbol { return v[0] }

// Complete reports whether every variant defines the identity.
func (v Vector) Complete() bool { return v.Missing() < 0 }

// Missing returns the first variant lacking the identity, or -1.
func (v Vector) Missing() int {
	for i, t := range v {
		if t == nil {
			return i
		}
	}
	return -1
}

// Index maps type identities to presence vectors.
type Index struct {
	n    int
	rows map[string]Vector
}

// Build indexes variants; variants[0] is the main assembly. Rows exist only
// for identities the main assembly defines. Nested types get their own row.
func Build(variants []*model.Assembly) *Index {
	ix := &Index{n: len(variants), rows: make(map[string]Vector)}
	if len(variants) == 0 {
		return ix
	}
	variants[0].Walk(func(t *model.TypeSymbol) {
		id := t.FullName()
		if _, ok := ix.rows[id]; ok {
			return
		}
		row := make(Vector, ix.n)
		row[0] = t
		ix.rows[id] = row
	})
	for i := 1; i < len(variants); i++ {
		variants[i].Walk(func(t *model.TypeSymbol) {
			row, ok := ix.rows[t.FullName()]
			if !ok || row[i] != nil {
				return
			}
			row[i] = t
		})
	}
	return ix
}

// Exclude deletes the rows of every top-level type the exclusion assemblies
// define and returns the deleted identities in ordinal order. Nested types
// of a deleted row keep their rows.
func (ix *Index) Exclude(exclusions []*model.Assembly) []string {
	var removed []string
	for _, ex := range exclusions {
		for _, t := range ex.Types {
			id := t.FullName()
			if _, ok := ix.rows[id]; ok {
				delete(ix.rows, id)
				removed = append(removed, id)
			}
		}
	}
	sort.Strings(removed)
	return removed
}

// Row returns the presence vector of identity.
func (ix *Index) Row(identity string) (Vector, bool) {
	row, ok := ix.rows[identity]
	return row, ok
}

// Identities returns every indexed identity in ordinal order.
func (ix *Index) Identities() []string {
	ids := make([]string, 0, len(ix.rows))
	for id := range ix.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Variants is the number of variants the index was built from.
func (ix *Index) Variants() int { return ix.n }

func (ix *Index) Len() int { return len(ix.rows) }

// Orphaned reports an indexed nested type one of whose declaring types
// lost its row.
func (ix *Index) Orphaned(identity string) bool {
	row, ok := ix.rows[identity]
	if !ok {
		return false
	}
	for outer := row.Main().DeclaringType; outer != nil; outer = outer.DeclaringType {
		if _, ok := ix.rows[outer.FullName()]; !ok {
			return true
		}
	}
	return false
}
