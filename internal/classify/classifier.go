package classify

import (
	"fmt"
	"strings"

	"apisect/internal/diag"
	"apisect/internal/model"
	"apisect/internal/trace"
)

const delegateSuffix = "Delegate"

// Options tune the classifier and the member predicates built on it.
type Options struct {
	// KeepInternalConstructors retains private and internal instance
	// constructors instead of excluding them.
	KeepInternalConstructors bool
	// Lenient turns unresolvable references into a warning instead of an
	// error that aborts the run.
	Lenient bool
}

// Classifier decides, once per identity, whether a type is reachable from
// the public surface. Decisions are cached for the lifetime of the value:
// a query never changes its answer.
type Classifier struct {
	res      model.Resolver
	opts     Options
	reporter diag.Reporter
	tracer   trace.Tracer

	black map[string]Reason
	white map[string]struct{}
	// stack holds the queries in progress; active maps their identities to
	// stack positions. A re-entrant query, e.g. a delegate whose Invoke takes
	// the delegate itself, is answered provisionally.
	stack  []frame
	active map[string]int
	// tentative whitelist entries depend on a provisional answer given for
	// the frame at the recorded position; pending lists them per frame owner.
	tentative map[string]int
	pending   map[string][]*model.TypeRef
	errs      []*ResolutionError
}

// frame is a query in progress. low is the outermost stack position whose
// provisional answer the query has relied on.
type frame struct {
	id  string
	low int
}

// New builds a classifier. reporter and tracer may be nil.
func New(res model.Resolver, opts Options, reporter diag.Reporter, tracer trace.Tracer) *Classifier {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Classifier{
		res:       res,
		opts:      opts,
		reporter:  reporter,
		tracer:    tracer,
		black:     make(map[string]Reason),
		white:     make(map[string]struct{}),
		active:    make(map[string]int),
		tentative: make(map[string]int),
		pending:   make(map[string][]*model.TypeRef),
	}
}

// Options returns the options the classifier was built with.
func (c *Classifier) Options() Options { return c.opts }

// Resolver exposes the resolver used for classification.
func (c *Classifier) Resolver() model.Resolver { return c.res }

// Blacklist records identity up front. It is a no-op when identity has
// already been decided.
func (c *Classifier) Blacklist(identity string, why Reason) {
	if c.decided(identity) {
		return
	}
	c.black[identity] = why
}

// Whitelist records identity up front. It is a no-op when identity has
// already been decided.
func (c *Classifier) Whitelist(identity string) {
	if c.decided(identity) {
		return
	}
	c.white[identity] = struct{}{}
}

func (c *Classifier) decided(identity string) bool {
	if _, ok := c.white[identity]; ok {
		return true
	}
	_, ok := c.black[identity]
	return ok
}

// Reason reports why identity was blacklisted.
func (c *Classifier) Reason(identity string) (Reason, bool) {
	r, ok := c.black[identity]
	return r, ok
}

// Counts returns the sizes of the blacklist and the whitelist.
func (c *Classifier) Counts() (black, white int) { return len(c.black), len(c.white) }

// IsBlacklisted classifies ref, memoizing the answer under its identity.
//
// On a cycle the inner query assumes the outer type is reachable. Types
// whitelisted under that assumption are classified again once the outer
// type turns out blacklisted.
func (c *Classifier) IsBlacklisted(ref *model.TypeRef) bool {
	if ref == nil {
		return false
	}
	id := ref.Identity()
	if _, ok := c.white[id]; ok {
		if k, ok := c.tentative[id]; ok {
			c.dependOn(k)
		}
		return false
	}
	if _, ok := c.black[id]; ok {
		return true
	}
	if k, busy := c.active[id]; busy {
		c.dependOn(k)
		return false
	}

	k := len(c.stack)
	c.active[id] = k
	c.stack = append(c.stack, frame{id: id, low: k})
	why := c.classify(ref)
	f := c.stack[k]
	c.stack = c.stack[:k]
	delete(c.active, id)
	if f.low < k {
		c.dependOn(f.low)
	}
	deps := c.pending[id]
	delete(c.pending, id)

	if why == ReasonNone {
		c.white[id] = struct{}{}
		if f.low < k {
			c.park(f.low, append(deps, ref)...)
		} else {
			for _, d := range deps {
				delete(c.tentative, d.Identity())
			}
		}
		return false
	}
	c.black[id] = why
	trace.Point(c.tracer, trace.ScopeMember, "blacklist", id, why.String())
	for _, d := range deps {
		did := d.Identity()
		delete(c.white, did)
		delete(c.tentative, did)
	}
	for _, d := range deps {
		c.IsBlacklisted(d)
	}
	return true
}

// dependOn records that the innermost query relied on the provisional
// answer for the frame at position k.
func (c *Classifier) dependOn(k int) {
	if len(c.stack) == 0 {
		return
	}
	top := &c.stack[len(c.stack)-1]
	if k < top.low {
		top.low = k
	}
}

// park parks tentative whitelist entries on the frame at position k.
func (c *Classifier) park(k int, refs ...*model.TypeRef) {
	owner := c.stack[k].id
	for _, r := range refs {
		c.tentative[r.Identity()] = k
	}
	c.pending[owner] = append(c.pending[owner], refs...)
}

// classify runs the rule chain for an undecided reference.
func (c *Classifier) classify(ref *model.TypeRef) Reason {
	switch ref.Kind {
	case model.RefGenericParam:
		if ref.Param == nil {
			return ReasonNone
		}
		for _, con := range ref.Param.Constraints {
			if c.IsBlacklisted(con) {
				return ReasonConstraint
			}
		}
		return ReasonNone

	case model.RefArray, model.RefPointer, model.RefByRef, model.RefGenericInst:
		if c.IsBlacklisted(ref.Elem) {
			return ReasonElement
		}
		return ReasonNone

	case model.RefNamed:
		t, ok := c.res.Resolve(ref)
		if !ok {
			c.unresolved(ref)
			return ReasonUnresolved
		}
		return c.classifyType(t)
	}
	return ReasonNone
}

func (c *Classifier) classifyType(t *model.TypeSymbol) Reason {
	if t.IsNested() && t.Visibility.HiddenNested() {
		return ReasonHiddenNested
	}
	if !Exposed(t) {
		return ReasonNotPublic
	}
	if t.Base != nil && c.IsBlacklisted(t.Base) {
		return ReasonBase
	}
	if c.orphanedDelegate(t) {
		return ReasonOrphanedDelegate
	}
	if c.orphanedImplementation(t) {
		return ReasonOrphanedImplementation
	}
	if t.IsDelegate() {
		if invoke := t.FindMethod("Invoke"); invoke != nil && c.ShouldExcludeMethod(invoke) {
			return ReasonDelegateInvoke
		}
	}
	return ReasonNone
}

// Exposed reports whether t and every type declaring it are visible
// outside their assembly.
func Exposed(t *model.TypeSymbol) bool {
	for cur := t; cur != nil; cur = cur.DeclaringType {
		if !cur.Visibility.Exposed() {
			return false
		}
		if cur.DeclaringType == nil && cur.Visibility != model.VisPublic {
			return false
		}
	}
	return true
}

// siblingName is the identity a type named name would have next to t.
func siblingName(t *model.TypeSymbol, name string) string {
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "/" + name
	}
	return model.JoinName(t.Namespace, name)
}

// orphanedDelegate: FooDelegate or IFooDelegate whose owner Foo is gone.
func (c *Classifier) orphanedDelegate(t *model.TypeSymbol) bool {
	if !strings.HasSuffix(t.Name, delegateSuffix) {
		return false
	}
	owner := strings.TrimSuffix(t.Name, delegateSuffix)
	owner = strings.TrimPrefix(owner, "I")
	if owner == "" {
		return false
	}
	ot, ok := c.res.Lookup(t.Assembly, siblingName(t, owner))
	if !ok {
		return false
	}
	return c.IsBlacklisted(ot.Ref())
}

// orphanedImplementation: Foo implementing IFoo whose IFoo is gone.
func (c *Classifier) orphanedImplementation(t *model.TypeSymbol) bool {
	want := siblingName(t, "I"+t.Name)
	for _, i := range t.Interfaces {
		def := i.Definition()
		if def == nil || def.FullName != want {
			continue
		}
		if c.IsBlacklisted(i) {
			return true
		}
	}
	return false
}

func (c *Classifier) unresolved(ref *model.TypeRef) {
	from := ""
	if o := ref.Origin(); o != nil {
		from = o.Name
	}
	id := ref.Identity()
	msg := fmt.Sprintf("type %s cannot be resolved", id)
	if from != "" {
		msg += " (referenced from " + from + ")"
	}
	if c.opts.Lenient {
		diag.ReportWarning(c.reporter, diag.ResUnresolvedType, diag.About(id), msg+"; treated as removed").Emit()
		return
	}
	c.errs = append(c.errs, &ResolutionError{Identity: id, From: from})
	diag.ReportError(c.reporter, diag.ResUnresolvedType, diag.About(id), msg).Emit()
}
