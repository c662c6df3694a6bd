package intersect

import (
	"fmt"

	"apisect/internal/diag"
	"apisect/internal/model"
	"apisect/internal/sigmatch"
	"apisect/internal/trace"
)

// nestedPass reconciles nested type lists once every outer type is final:
// nested types missing from a variant go, then blacklisted ones.
func (e *engine) nestedPass() {
	sp := trace.Begin(e.tracer, trace.ScopePass, string(StageNested), e.span)
	defer sp.End("")
	e.emit(Event{Stage: StageNested, Status: StatusWorking})

	ids := e.index.Identities()
	for _, id := range ids {
		row, _ := e.index.Row(id)
		main := row.Main()
		if !row.Complete() || len(main.Nested) == 0 {
			continue
		}
		sets := make([][]*model.TypeSymbol, len(row))
		for i, t := range row {
			sets[i] = t.Nested
		}
		kept, removed := Intersect(sets, sigmatch.NestedTypes)
		var final []*model.TypeSymbol
		for _, n := range kept {
			if e.cls.IsBlacklisted(n.Ref()) {
				removed = append(removed, n)
				continue
			}
			final = append(final, n)
		}
		main.Nested = final
		for _, n := range removed {
			e.nestedRemoved(main, n)
		}
	}
	e.emit(Event{Stage: StageNested, Status: StatusDone, Done: len(ids), Total: len(ids)})
}

func (e *engine) nestedRemoved(outer, n *model.TypeSymbol) {
	e.stats.Nested.Removed++
	id := n.FullName()
	why := "not present in every variant"
	if r, ok := e.cls.Reason(id); ok {
		why = r.String()
	}
	trace.Point(e.tracer, trace.ScopeType, "nested", id, why)
	if _, allowed := e.typeAllow[id]; allowed || n.Visibility.HiddenNested() {
		return
	}
	diag.ReportInfo(e.reporter, diag.IntNestedTypeRemoved, diag.About(outer.FullName()),
		fmt.Sprintf("nested type %s removed: %s", id, why)).Emit()
}
