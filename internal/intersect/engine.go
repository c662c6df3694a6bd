package intersect

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"apisect/internal/classify"
	"apisect/internal/diag"
	"apisect/internal/model"
	"apisect/internal/observ"
	"apisect/internal/presence"
	"apisect/internal/stubs"
	"apisect/internal/trace"
)

// NotImplementedException is thrown by stub bodies when the profile has it.
const (
	NotImplementedException = "System.NotImplementedException"
	fallbackException       = "System.Exception"
)

// ErrNoVariants is returned when Run gets no main assembly.
var ErrNoVariants = errors.New("intersect: no variants given")

// Input is the set of loaded assemblies a run works on.
type Input struct {
	// Variants are intersected; Variants[0] is the main assembly.
	Variants []*model.Assembly
	// Exclusions remove every top-level identity they define.
	Exclusions []*model.Assembly
	// Resolver resolves references from any of the assemblies above.
	Resolver model.Resolver
	// Timer collects stage durations; a private one is used when nil.
	Timer *observ.Timer
}

type engine struct {
	opts     Options
	in       Input
	index    *presence.Index
	cls      *classify.Classifier
	profile  model.Profile
	reporter diag.Reporter
	tracer   trace.Tracer
	progress ProgressSink
	span     uint64

	removalAllow map[string]struct{}
	typeAllow    map[string]struct{}
	interop      map[string]struct{}
	stripSer     bool

	done     map[string]bool
	excluded map[string]bool
	stats    Stats
	started  map[Stage]time.Time
}

// Run intersects in.Variants. It only fails on missing input, cancellation
// or, unless opts.Lenient is set, on unresolvable references; every other
// finding is reported through reporter.
func Run(ctx context.Context, in Input, opts Options, reporter diag.Reporter) (*Result, error) {
	if len(in.Variants) == 0 {
		return nil, ErrNoVariants
	}
	if in.Resolver == nil {
		return nil, errors.New("intersect: no resolver given")
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	timer := in.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	e := &engine{
		opts:         opts,
		in:           in,
		reporter:     reporter,
		tracer:       trace.FromContext(ctx),
		progress:     opts.Progress,
		removalAllow: toSet(opts.MemberRemovalAllow),
		typeAllow:    toSet(opts.ExplicitTypeAllow),
		interop:      toSet(opts.InteropAttributes),
		done:         make(map[string]bool),
		excluded:     make(map[string]bool),
		started:      make(map[Stage]time.Time),
	}
	e.profile = opts.Profile
	if e.profile == nil {
		if p, ok := in.Resolver.(model.Profile); ok {
			e.profile = p
		} else {
			e.profile = fullProfile{}
		}
	}
	e.stripSer = opts.StripSerializable || !e.profile.HasType(SerializableAttribute)
	e.cls = classify.New(in.Resolver, classify.Options{
		KeepInternalConstructors: opts.KeepInternalConstructors,
		Lenient:                  opts.Lenient,
	}, reporter, e.tracer)

	run := trace.Begin(e.tracer, trace.ScopeDriver, "intersect", trace.ParentSpan(ctx))
	defer run.End("")
	e.span = run.ID()

	idx := timer.Begin(string(StageIndex))
	e.buildIndex()
	timer.End(idx, fmt.Sprintf("%d rows", e.index.Len()))

	idx = timer.Begin(string(StageTypes))
	err := e.typePass(ctx)
	timer.End(idx, fmt.Sprintf("%d processed", len(e.done)))
	if err != nil {
		return nil, err
	}

	idx = timer.Begin(string(StageNested))
	e.nestedPass()
	timer.End(idx, "")
	if err := e.strictErr(); err != nil {
		return nil, err
	}

	survivors := e.survivors()

	idx = timer.Begin(string(StageStubs))
	e.emit(Event{Stage: StageStubs, Status: StatusWorking})
	throws := fallbackException
	if e.profile.HasType(NotImplementedException) {
		throws = NotImplementedException
	}
	st := stubs.Plan(survivors, stubs.Config{
		Classifier:    e.cls,
		KeepAttribute: e.keepAttribute,
		Throws:        throws,
		Reporter:      reporter,
		Tracer:        e.tracer,
	})
	e.stats.Stubbed = st.Stubbed
	e.emit(Event{Stage: StageStubs, Status: StatusDone, Done: st.Stubbed, Total: st.Stubbed})
	timer.End(idx, fmt.Sprintf("%d stubs", st.Stubbed))
	if err := e.strictErr(); err != nil {
		return nil, err
	}

	res := &Result{
		Types:    survivors,
		Excluded: sortedKeys(e.excluded),
		Dropped:  e.reportDropped(survivors),
		Throws:   throws,
	}
	e.countKept(survivors)
	e.stats.Survived = len(survivors)
	e.stats.Dropped = len(res.Dropped)
	e.stats.Excluded = len(res.Excluded)
	e.stats.Blacklisted, e.stats.Whitelisted = e.cls.Counts()
	res.Stats = e.stats
	res.Timings = timer.Report()

	if len(survivors) == 0 {
		diag.ReportWarning(reporter, diag.IntEmptyIntersection, diag.About(mainName(in.Variants[0])),
			"no type survives the intersection; the variants may be structurally incompatible").Emit()
	}
	run.Count("survivors", len(survivors))
	return res, nil
}

func mainName(a *model.Assembly) string {
	if a.Version == "" {
		return a.Name
	}
	return a.Name + " " + a.Version
}

// buildIndex indexes the variants, applies exclusions and seeds the
// classifier so that references to types that cannot survive cascade
// instead of failing resolution.
func (e *engine) buildIndex() {
	sp := trace.Begin(e.tracer, trace.ScopePass, string(StageIndex), e.span)
	defer sp.End("")
	e.emit(Event{Stage: StageIndex, Status: StatusWorking})

	e.index = presence.Build(e.in.Variants)
	e.stats.Indexed = e.index.Len()
	for _, id := range e.index.Exclude(e.in.Exclusions) {
		e.excluded[id] = true
	}

	for _, id := range e.opts.Whitelist {
		e.cls.Whitelist(id)
	}
	for _, id := range e.opts.Blacklist {
		e.cls.Blacklist(id, classify.ReasonExplicit)
	}
	for id := range e.excluded {
		e.cls.Blacklist(id, classify.ReasonExcluded)
	}
	for _, id := range e.index.Identities() {
		row, _ := e.index.Row(id)
		switch {
		case e.index.Orphaned(id):
			e.cls.Blacklist(id, classify.ReasonExcluded)
		case !row.Complete():
			e.cls.Blacklist(id, classify.ReasonAbsent)
		}
	}
	// main types are decided from their own definitions before any other
	// variant's members reference them
	for _, id := range e.index.Identities() {
		row, _ := e.index.Row(id)
		if row.Complete() && !e.index.Orphaned(id) {
			e.cls.IsBlacklisted(row.Main().Ref())
		}
	}
	e.emit(Event{Stage: StageIndex, Status: StatusDone, Done: e.index.Len(), Total: e.index.Len()})
}

// typePass processes every indexed identity, base types first.
func (e *engine) typePass(ctx context.Context) error {
	sp := trace.Begin(e.tracer, trace.ScopePass, string(StageTypes), e.span)
	defer sp.End("")
	prev := e.span
	e.span = sp.ID()
	defer func() { e.span = prev }()

	ids := e.index.Identities()
	e.emit(Event{Stage: StageTypes, Status: StatusWorking, Total: len(ids)})
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			e.emit(Event{Stage: StageTypes, Status: StatusError, Err: err})
			return err
		}
		e.process(id)
		if err := e.strictErr(); err != nil {
			e.emit(Event{Stage: StageTypes, Type: id, Status: StatusError, Err: err})
			return err
		}
	}
	e.emit(Event{Stage: StageTypes, Status: StatusDone, Done: len(ids), Total: len(ids)})
	return nil
}

func (e *engine) process(id string) {
	if e.done[id] {
		return
	}
	e.done[id] = true
	row, ok := e.index.Row(id)
	if !ok || !row.Complete() || e.index.Orphaned(id) {
		e.emit(Event{Stage: StageTypes, Type: id, Status: StatusDropped, Done: len(e.done), Total: e.index.Len()})
		return
	}
	// overrides are checked against the already intersected base
	if def := row.Main().Base.Definition(); def != nil {
		if _, indexed := e.index.Row(def.FullName); indexed {
			e.process(def.FullName)
		}
	}
	if e.cls.IsBlacklisted(row.Main().Ref()) {
		e.emit(Event{Stage: StageTypes, Type: id, Status: StatusDropped, Done: len(e.done), Total: e.index.Len()})
		return
	}
	e.emit(Event{Stage: StageTypes, Type: id, Status: StatusWorking, Done: len(e.done), Total: e.index.Len()})
	e.processType(row)
	e.emit(Event{Stage: StageTypes, Type: id, Status: StatusKept, Done: len(e.done), Total: e.index.Len()})
}

// survivors are complete, non-nested, non-blacklisted rows in identity order.
func (e *engine) survivors() []*model.TypeSymbol {
	var out []*model.TypeSymbol
	for _, id := range e.index.Identities() {
		row, _ := e.index.Row(id)
		main := row.Main()
		if main.IsNested() || !row.Complete() || e.cls.IsBlacklisted(main.Ref()) {
			continue
		}
		out = append(out, main)
	}
	return out
}

// reportDropped explains every main top-level type that is not a survivor.
func (e *engine) reportDropped(survivors []*model.TypeSymbol) []DroppedType {
	kept := make(map[string]bool, len(survivors))
	for _, t := range survivors {
		kept[t.FullName()] = true
	}
	var ids []string
	for _, t := range e.in.Variants[0].Types {
		if id := t.FullName(); !kept[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var out []DroppedType
	for _, id := range ids {
		d := DroppedType{Identity: id, Missing: -1}
		code := diag.IntTypeDropped
		subject := diag.About(id)
		switch row, ok := e.index.Row(id); {
		case e.excluded[id]:
			code = diag.IntTypeExcluded
			d.Reason = "defined by an excluded assembly"
		case ok && !row.Complete():
			d.Missing = row.Missing()
			d.Reason = "missing from " + mainName(e.in.Variants[d.Missing])
			subject = diag.In(id, d.Missing)
		default:
			why, _ := e.cls.Reason(id)
			d.Reason = why.String()
		}
		out = append(out, d)
		trace.Point(e.tracer, trace.ScopeType, "drop", id, d.Reason)
		if _, allowed := e.typeAllow[id]; allowed {
			continue
		}
		diag.ReportInfo(e.reporter, code, subject, fmt.Sprintf("type %s removed: %s", id, d.Reason)).Emit()
	}
	return out
}

func (e *engine) countKept(survivors []*model.TypeSymbol) {
	for _, top := range survivors {
		top.Walk(func(t *model.TypeSymbol) {
			e.stats.Interfaces.Kept += len(t.Interfaces)
			e.stats.Methods.Kept += len(t.Methods)
			e.stats.Fields.Kept += len(t.Fields)
			e.stats.Properties.Kept += len(t.Properties)
			e.stats.Events.Kept += len(t.Events)
			e.stats.Nested.Kept += len(t.Nested)
		})
	}
}

func (e *engine) strictErr() error {
	if e.opts.Lenient {
		return nil
	}
	return e.cls.Err()
}

// emit stamps stage-level events with the time spent in the stage so far.
func (e *engine) emit(ev Event) {
	if ev.Type == "" {
		switch ev.Status {
		case StatusWorking:
			e.started[ev.Stage] = time.Now()
		case StatusDone, StatusError:
			if start, ok := e.started[ev.Stage]; ok {
				ev.Elapsed = time.Since(start)
			}
		}
	}
	if e.progress != nil {
		e.progress.OnEvent(ev)
	}
}
