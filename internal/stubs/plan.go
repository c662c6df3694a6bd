// Package stubs decides the body every surviving method gets in the
// contract assembly: constructors call the cheapest usable base
// constructor with default arguments, then everything throws.
package stubs

import (
	"fmt"

	"apisect/internal/classify"
	"apisect/internal/diag"
	"apisect/internal/model"
	"apisect/internal/trace"
)

// Config wires the planner to the run.
type Config struct {
	Classifier *classify.Classifier
	// KeepAttribute filters method, parameter and return attributes.
	// Nil keeps attributes the classifier does not blacklist.
	KeepAttribute func(*model.Attribute) bool
	// Throws is the exception type every stub throws.
	Throws   string
	Reporter diag.Reporter
	Tracer   trace.Tracer
}

// Stats counts what Plan did.
type Stats struct {
	Stubbed   int
	BaseCalls int
	NoBase    int
}

type planner struct {
	Config
	stats Stats
}

// Plan marks every non-abstract method of types (nested included) as a
// stub and scrubs method attributes.
func Plan(types []*model.TypeSymbol, cfg Config) Stats {
	if cfg.Reporter == nil {
		cfg.Reporter = diag.NopReporter{}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = trace.Nop
	}
	if cfg.KeepAttribute == nil {
		cfg.KeepAttribute = func(a *model.Attribute) bool { return !cfg.Classifier.AttributeBlacklisted(a) }
	}
	p := &planner{Config: cfg}
	for _, top := range types {
		top.Walk(p.planType)
	}
	return p.stats
}

func (p *planner) planType(t *model.TypeSymbol) {
	for _, m := range t.Methods {
		p.scrub(m)
		if m.IsAbstract() {
			continue
		}
		body := &model.StubBody{Throws: p.Throws}
		// delegate constructors are provided by the runtime
		if m.IsInstanceConstructor() && !t.IsValueType() && !t.IsDelegate() && t.Base != nil {
			body.BaseCall = p.baseCall(t, m)
		}
		m.Body = body
		p.stats.Stubbed++
	}
}

func (p *planner) baseCall(t *model.TypeSymbol, m *model.Method) *model.CtorCall {
	res := p.Classifier.Resolver()
	base, ok := res.Resolve(t.Base)
	if !ok {
		return nil
	}
	target := BestConstructor(p.Classifier, base)
	if target == nil {
		p.stats.NoBase++
		diag.ReportWarning(p.Reporter, diag.IntNoBaseConstructor, diag.About(m.QualifiedName()),
			fmt.Sprintf("base type %s has no usable constructor", base.FullName())).Emit()
		return nil
	}
	p.stats.BaseCalls++
	call := &model.CtorCall{Target: target, Args: make([]model.DefaultValue, len(target.Params))}
	for i, param := range target.Params {
		call.Args[i] = DefaultFor(res, param.Type)
	}
	trace.Point(p.Tracer, trace.ScopeMember, "base-call", m.QualifiedName(), "-> "+target.QualifiedName())
	return call
}

// BestConstructor picks the instance constructor of base with the fewest
// parameters that is neither excluded nor hard-obsolete; the first one
// wins ties. Synthesized constructors are always usable.
func BestConstructor(cls *classify.Classifier, base *model.TypeSymbol) *model.Method {
	var best *model.Method
	for _, c := range base.Methods {
		if !c.IsInstanceConstructor() || hardObsolete(c) {
			continue
		}
		if !c.Synthesized && cls.ShouldExcludeMethod(c) {
			continue
		}
		if best == nil || len(c.Params) < len(best.Params) {
			best = c
		}
	}
	return best
}

func hardObsolete(m *model.Method) bool {
	for _, a := range m.Attributes {
		if a.IsHardObsolete() {
			return true
		}
	}
	return false
}

// DefaultFor is default(T) for value types and generic parameters, a
// zeroed local for byref parameters and null for everything else,
// unresolvable types included.
func DefaultFor(res model.Resolver, typ *model.TypeRef) model.DefaultValue {
	v := model.DefaultValue{Kind: model.DefaultNull, Type: typ}
	if typ == nil {
		return v
	}
	switch typ.Kind {
	case model.RefGenericParam:
		v.Kind = model.DefaultZero
	case model.RefByRef:
		v.Kind = model.DefaultLocal
	case model.RefNamed, model.RefGenericInst:
		if t, ok := res.Resolve(typ); ok && t.IsValueType() {
			v.Kind = model.DefaultZero
		}
	}
	return v
}

func (p *planner) scrub(m *model.Method) {
	m.Attributes = p.filter(m.Attributes)
	m.ReturnAttributes = p.filter(m.ReturnAttributes)
	for _, param := range m.Params {
		param.Attributes = p.filter(param.Attributes)
	}
}

func (p *planner) filter(attrs []*model.Attribute) []*model.Attribute {
	if len(attrs) == 0 {
		return attrs
	}
	out := make([]*model.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if p.KeepAttribute(a) {
			out = append(out, a)
		}
	}
	return out
}
