package intersect

import (
	"fmt"

	"apisect/internal/classify"
	"apisect/internal/diag"
	"apisect/internal/model"
	"apisect/internal/presence"
	"apisect/internal/sigmatch"
	"apisect/internal/trace"
)

// processType reduces every variant of one identity and leaves the result
// in the main variant. Steps that later steps compare across variants run
// on all of them; warnings are only raised for the main variant.
func (e *engine) processType(row presence.Vector) {
	main := row.Main()
	sp := trace.BeginSymbol(e.tracer, trace.ScopeType, "type", main.FullName(), e.span)
	defer sp.End("")

	// attributes and the serializable marker
	for _, t := range row {
		t.Attributes = e.filterAttributes(t.Attributes)
		if e.stripSer {
			clearSerializable(t)
		}
	}

	// interfaces: blacklisted ones first, then the cross-variant match
	for i, t := range row {
		var kept []*model.TypeRef
		for _, iface := range t.Interfaces {
			if e.cls.IsBlacklisted(iface) {
				if i == 0 {
					e.interfaceRemoved(main, iface, "it is not part of the surface")
				}
				continue
			}
			kept = append(kept, iface)
		}
		t.Interfaces = kept
	}
	kept, removed := Intersect(interfaceSets(row), sigmatch.Interfaces)
	main.Interfaces = kept
	for _, iface := range removed {
		e.interfaceRemoved(main, iface, "it is not implemented in every variant")
	}

	// methods and fields failing the member predicate
	for i, t := range row {
		var methods []*model.Method
		for _, m := range t.Methods {
			if x := e.cls.MethodExclusion(m); x != classify.Kept {
				if i == 0 {
					e.methodRemoved(main, m, x.String(), x == classify.ExcludedNoBaseSlot)
				}
				continue
			}
			methods = append(methods, m)
		}
		t.Methods = methods
		detachAccessors(t)

		var fields []*model.Field
		for _, f := range t.Fields {
			if e.cls.ShouldExcludeField(f) {
				if i == 0 {
					e.memberRemoved(&e.stats.Fields, main, f.Name)
				}
				continue
			}
			fields = append(fields, f)
		}
		t.Fields = fields
	}

	mkept, mremoved := Intersect(methodSets(row), sigmatch.Methods)
	main.Methods = mkept
	for _, m := range mremoved {
		e.methodRemoved(main, m, "not present in every variant", false)
	}
	detachAccessors(main)

	e.synthesizeConstructor(main)

	// accessor-less properties and events
	for i, t := range row {
		var props []*model.Property
		for _, p := range t.Properties {
			if !p.HasAccessors() {
				if i == 0 {
					e.memberRemoved(&e.stats.Properties, main, p.Name)
				}
				continue
			}
			props = append(props, p)
		}
		t.Properties = props

		var events []*model.Event
		for _, ev := range t.Events {
			if !ev.HasAccessors() {
				if i == 0 {
					e.memberRemoved(&e.stats.Events, main, ev.Name)
				}
				continue
			}
			events = append(events, ev)
		}
		t.Events = events
	}

	fkept, fremoved := Intersect(fieldSets(row), sigmatch.Fields)
	main.Fields = fkept
	for _, f := range fremoved {
		e.memberRemoved(&e.stats.Fields, main, f.Name)
	}
	pkept, premoved := Intersect(propertySets(row), sigmatch.Properties)
	main.Properties = pkept
	for _, p := range premoved {
		e.memberRemoved(&e.stats.Properties, main, p.Name)
	}
	ekept, eremoved := Intersect(eventSets(row), sigmatch.Events)
	main.Events = ekept
	for _, ev := range eremoved {
		e.memberRemoved(&e.stats.Events, main, ev.Name)
	}

	for _, f := range main.Fields {
		f.Attributes = e.filterAttributes(f.Attributes)
	}
	for _, p := range main.Properties {
		p.Attributes = e.filterAttributes(p.Attributes)
	}
	for _, ev := range main.Events {
		ev.Attributes = e.filterAttributes(ev.Attributes)
	}
}

// synthesizeConstructor gives a derivable reference type that lost all its
// instance constructors an internal parameterless one, so the emitted type
// does not silently gain a public default constructor.
func (e *engine) synthesizeConstructor(t *model.TypeSymbol) {
	if e.opts.KeepInternalConstructors || t.Base == nil || t.IsValueType() ||
		t.IsInterface() || t.IsStaticHolder() || len(t.Constructors()) > 0 {
		return
	}
	ctor := &model.Method{
		Name:          model.CtorName,
		Access:        model.AccessAssembly,
		ReturnType:    model.Named("System.Void"),
		DeclaringType: t,
		Synthesized:   true,
	}
	t.Methods = append(t.Methods, ctor)
	e.stats.Synthesized++
	diag.ReportInfo(e.reporter, diag.IntConstructorSynthesized, diag.About(t.FullName()),
		"no constructor survives; an internal parameterless constructor is added").Emit()
}

func (e *engine) interfaceRemoved(t *model.TypeSymbol, iface *model.TypeRef, why string) {
	e.stats.Interfaces.Removed++
	if t.IsInterface() {
		msg := fmt.Sprintf("interface %s removed from %s: %s", iface.Identity(), t.FullName(), why)
		diag.ReportWarning(e.reporter, diag.IntBaseInterfaceRemoved, diag.About(t.FullName()),
			msg+"; the interface contract changes").Emit()
		return
	}
	trace.Point(e.tracer, trace.ScopeType, "interface", t.FullName(), iface.Identity()+": "+why)
}

func (e *engine) methodRemoved(t *model.TypeSymbol, m *model.Method, why string, override bool) {
	e.stats.Methods.Removed++
	name := m.QualifiedName()
	switch {
	case t.IsDelegate() && m.Name == "Invoke":
		diag.ReportWarning(e.reporter, diag.IntDelegateInvokeRemoved, diag.About(t.FullName()),
			fmt.Sprintf("delegate Invoke %s removed: %s", name, why)).Emit()
	case m.IsAbstract() && !e.removalAllowed(t, m):
		diag.ReportWarning(e.reporter, diag.IntAbstractMemberRemoved, diag.About(t.FullName()),
			fmt.Sprintf("abstract member %s removed: %s", name, why)).Emit()
	case override:
		diag.ReportInfo(e.reporter, diag.IntOverrideRemoved, diag.About(name),
			fmt.Sprintf("override %s removed: %s", name, why)).Emit()
	default:
		trace.Point(e.tracer, trace.ScopeMember, "method", name, why)
	}
}

func (e *engine) memberRemoved(c *Counter, t *model.TypeSymbol, name string) {
	c.Removed++
	trace.Point(e.tracer, trace.ScopeMember, "member", t.FullName()+"::"+name, "")
}

func (e *engine) removalAllowed(t *model.TypeSymbol, m *model.Method) bool {
	if _, ok := e.removalAllow[t.FullName()]; ok {
		return true
	}
	_, ok := e.removalAllow[t.FullName()+"::"+m.Name]
	return ok
}

// detachAccessors clears property and event accessors that are no longer
// among t's methods.
func detachAccessors(t *model.TypeSymbol) {
	live := make(map[*model.Method]bool, len(t.Methods))
	for _, m := range t.Methods {
		live[m] = true
	}
	keep := func(m *model.Method) *model.Method {
		if m != nil && !live[m] {
			return nil
		}
		return m
	}
	for _, p := range t.Properties {
		p.Getter, p.Setter = keep(p.Getter), keep(p.Setter)
	}
	for _, ev := range t.Events {
		ev.Add, ev.Remove, ev.Raise = keep(ev.Add), keep(ev.Remove), keep(ev.Raise)
	}
}

func interfaceSets(row presence.Vector) [][]*model.TypeRef {
	out := make([][]*model.TypeRef, len(row))
	for i, t := range row {
		out[i] = t.Interfaces
	}
	return out
}

func methodSets(row presence.Vector) [][]*model.Method {
	out := make([][]*model.Method, len(row))
	for i, t := range row {
		out[i] = t.Methods
	}
	return out
}

func fieldSets(row presence.Vector) [][]*model.Field {
	out := make([][]*model.Field, len(row))
	for i, t := range row {
		out[i] = t.Fields
	}
	return out
}

func propertySets(row presence.Vector) [][]*model.Property {
	out := make([][]*model.Property, len(row))
	for i, t := range row {
		out[i] = t.Properties
	}
	return out
}

func eventSets(row presence.Vector) [][]*model.Event {
	out := make([][]*model.Event, len(row))
	for i, t := range row {
		out[i] = t.Events
	}
	return out
}
