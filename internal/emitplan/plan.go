// Package emitplan turns the intersection result into the decision record
// handed to the external emitter: which types and members to write, which
// are stub-only and what each stub constructor calls.
package emitplan

import (
	"apisect/internal/intersect"
	"apisect/internal/model"
	"apisect/internal/observ"
)

// SchemaVersion of the record; bump on incompatible changes.
const SchemaVersion = 1

type Plan struct {
	Schema   int           `json:"schema" msgpack:"schema"`
	Main     Assembly      `json:"main" msgpack:"main"`
	Variants []Assembly    `json:"variants" msgpack:"variants"`
	Throws   string        `json:"throws" msgpack:"throws"`
	Types    []*Type       `json:"types" msgpack:"types"`
	Dropped  []Dropped     `json:"dropped,omitempty" msgpack:"dropped,omitempty"`
	Excluded []string      `json:"excluded,omitempty" msgpack:"excluded,omitempty"`
	Summary  Summary       `json:"summary" msgpack:"summary"`
	Timings  observ.Report `json:"timings" msgpack:"timings"`
}

type Assembly struct {
	Name    string `json:"name" msgpack:"name"`
	Version string `json:"version,omitempty" msgpack:"version,omitempty"`
}

type Dropped struct {
	Identity string `json:"identity" msgpack:"identity"`
	Reason   string `json:"reason" msgpack:"reason"`
	// Missing is the first variant lacking the type, -1 when present.
	Missing int `json:"missing" msgpack:"missing"`
}

// Count is a kept/removed pair.
type Count struct {
	Kept    int `json:"kept" msgpack:"kept"`
	Removed int `json:"removed" msgpack:"removed"`
}

type Summary struct {
	Indexed     int   `json:"indexed" msgpack:"indexed"`
	Survived    int   `json:"survived" msgpack:"survived"`
	Dropped     int   `json:"dropped" msgpack:"dropped"`
	Excluded    int   `json:"excluded" msgpack:"excluded"`
	Interfaces  Count `json:"interfaces" msgpack:"interfaces"`
	Methods     Count `json:"methods" msgpack:"methods"`
	Fields      Count `json:"fields" msgpack:"fields"`
	Properties  Count `json:"properties" msgpack:"properties"`
	Events      Count `json:"events" msgpack:"events"`
	Nested      Count `json:"nested" msgpack:"nested"`
	Synthesized int   `json:"synthesized" msgpack:"synthesized"`
	Stubbed     int   `json:"stubbed" msgpack:"stubbed"`
}

type Type struct {
	Identity      string         `json:"identity" msgpack:"identity"`
	Kind          string         `json:"kind" msgpack:"kind"`
	Visibility    string         `json:"visibility" msgpack:"visibility"`
	Flags         []string       `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Base          string         `json:"base,omitempty" msgpack:"base,omitempty"`
	Interfaces    []string       `json:"interfaces,omitempty" msgpack:"interfaces,omitempty"`
	GenericParams []GenericParam `json:"generic_params,omitempty" msgpack:"generic_params,omitempty"`
	Attributes    []Attribute    `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Methods       []Method       `json:"methods,omitempty" msgpack:"methods,omitempty"`
	Fields        []Field        `json:"fields,omitempty" msgpack:"fields,omitempty"`
	Properties    []Property     `json:"properties,omitempty" msgpack:"properties,omitempty"`
	Events        []Event        `json:"events,omitempty" msgpack:"events,omitempty"`
	Nested        []*Type        `json:"nested,omitempty" msgpack:"nested,omitempty"`
}

type GenericParam struct {
	Name        string   `json:"name" msgpack:"name"`
	Constraints []string `json:"constraints,omitempty" msgpack:"constraints,omitempty"`
}

type Method struct {
	Signature        string      `json:"signature" msgpack:"signature"`
	Name             string      `json:"name" msgpack:"name"`
	Access           string      `json:"access" msgpack:"access"`
	Flags            []string    `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Return           string      `json:"return" msgpack:"return"`
	Params           []Param     `json:"params,omitempty" msgpack:"params,omitempty"`
	GenericParams    []string    `json:"generic_params,omitempty" msgpack:"generic_params,omitempty"`
	Overrides        []string    `json:"overrides,omitempty" msgpack:"overrides,omitempty"`
	Attributes       []Attribute `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	ReturnAttributes []Attribute `json:"return_attributes,omitempty" msgpack:"return_attributes,omitempty"`
	// Synthesized constructors do not exist in any input.
	Synthesized bool `json:"synthesized,omitempty" msgpack:"synthesized,omitempty"`
	// Stub is set for every method with a body; abstract ones have none.
	Stub     bool      `json:"stub" msgpack:"stub"`
	Throws   string    `json:"throws,omitempty" msgpack:"throws,omitempty"`
	BaseCall *BaseCall `json:"base_call,omitempty" msgpack:"base_call,omitempty"`
}

type Param struct {
	Name       string      `json:"name,omitempty" msgpack:"name,omitempty"`
	Type       string      `json:"type" msgpack:"type"`
	Attributes []Attribute `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// BaseCall is the base constructor a stub constructor chains to.
type BaseCall struct {
	Target string `json:"target" msgpack:"target"`
	Args   []Arg  `json:"args,omitempty" msgpack:"args,omitempty"`
}

// Arg is a synthesized argument: "null", "default" of Type, or "local",
// a zeroed variable of Type's element passed by reference.
type Arg struct {
	Type    string `json:"type" msgpack:"type"`
	Default string `json:"default" msgpack:"default"`
}

type Field struct {
	Name       string      `json:"name" msgpack:"name"`
	Access     string      `json:"access" msgpack:"access"`
	Static     bool        `json:"static,omitempty" msgpack:"static,omitempty"`
	Type       string      `json:"type" msgpack:"type"`
	Attributes []Attribute `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// Property and Event name their accessors by method signature.
type Property struct {
	Name       string      `json:"name" msgpack:"name"`
	Type       string      `json:"type" msgpack:"type"`
	Params     []Param     `json:"params,omitempty" msgpack:"params,omitempty"`
	Getter     string      `json:"getter,omitempty" msgpack:"getter,omitempty"`
	Setter     string      `json:"setter,omitempty" msgpack:"setter,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

type Event struct {
	Name       string      `json:"name" msgpack:"name"`
	Type       string      `json:"type" msgpack:"type"`
	Add        string      `json:"add,omitempty" msgpack:"add,omitempty"`
	Remove     string      `json:"remove,omitempty" msgpack:"remove,omitempty"`
	Raise      string      `json:"raise,omitempty" msgpack:"raise,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

type Attribute struct {
	Type string `json:"type" msgpack:"type"`
	// Redirect replaces Type when the target profile lacks it.
	Redirect string       `json:"redirect,omitempty" msgpack:"redirect,omitempty"`
	Args     []Value      `json:"args,omitempty" msgpack:"args,omitempty"`
	Named    []NamedValue `json:"named,omitempty" msgpack:"named,omitempty"`
}

type Value struct {
	Kind  string  `json:"kind" msgpack:"kind"`
	Value any     `json:"value,omitempty" msgpack:"value,omitempty"`
	Type  string  `json:"type,omitempty" msgpack:"type,omitempty"`
	Elems []Value `json:"elems,omitempty" msgpack:"elems,omitempty"`
}

type NamedValue struct {
	Name  string `json:"name" msgpack:"name"`
	Value Value  `json:"value" msgpack:"value"`
}

// Build records res. variants are the inputs of the run, main first.
func Build(res *intersect.Result, variants []*model.Assembly) *Plan {
	p := &Plan{
		Schema:   SchemaVersion,
		Throws:   res.Throws,
		Excluded: res.Excluded,
		Timings:  res.Timings,
		Summary:  summarize(res.Stats),
	}
	for i, v := range variants {
		a := Assembly{Name: v.Name, Version: v.Version}
		if i == 0 {
			p.Main = a
		}
		p.Variants = append(p.Variants, a)
	}
	for _, t := range res.Types {
		p.Types = append(p.Types, typeOf(t))
	}
	for _, d := range res.Dropped {
		p.Dropped = append(p.Dropped, Dropped{Identity: d.Identity, Reason: d.Reason, Missing: d.Missing})
	}
	return p
}

func summarize(s intersect.Stats) Summary {
	c := func(x intersect.Counter) Count { return Count{Kept: x.Kept, Removed: x.Removed} }
	return Summary{
		Indexed:     s.Indexed,
		Survived:    s.Survived,
		Dropped:     s.Dropped,
		Excluded:    s.Excluded,
		Interfaces:  c(s.Interfaces),
		Methods:     c(s.Methods),
		Fields:      c(s.Fields),
		Properties:  c(s.Properties),
		Events:      c(s.Events),
		Nested:      c(s.Nested),
		Synthesized: s.Synthesized,
		Stubbed:     s.Stubbed,
	}
}

func typeOf(t *model.TypeSymbol) *Type {
	out := &Type{
		Identity:   t.FullName(),
		Kind:       t.Kind.String(),
		Visibility: t.Visibility.String(),
		Flags:      t.Flags.Strings(),
		Attributes: attributes(t.Attributes),
	}
	if t.Base != nil {
		out.Base = t.Base.Identity()
	}
	for _, i := range t.Interfaces {
		out.Interfaces = append(out.Interfaces, i.Identity())
	}
	for _, gp := range t.GenericParams {
		g := GenericParam{Name: gp.Name}
		for _, c := range gp.Constraints {
			g.Constraints = append(g.Constraints, c.Identity())
		}
		out.GenericParams = append(out.GenericParams, g)
	}
	for _, m := range t.Methods {
		out.Methods = append(out.Methods, method(m))
	}
	for _, f := range t.Fields {
		out.Fields = append(out.Fields, Field{
			Name:       f.Name,
			Access:     f.Access.String(),
			Static:     f.Static,
			Type:       f.Type.Identity(),
			Attributes: attributes(f.Attributes),
		})
	}
	for _, p := range t.Properties {
		out.Properties = append(out.Properties, Property{
			Name:       p.Name,
			Type:       p.Type.Identity(),
			Params:     params(p.Params),
			Getter:     signature(p.Getter),
			Setter:     signature(p.Setter),
			Attributes: attributes(p.Attributes),
		})
	}
	for _, e := range t.Events {
		out.Events = append(out.Events, Event{
			Name:       e.Name,
			Type:       e.Type.Identity(),
			Add:        signature(e.Add),
			Remove:     signature(e.Remove),
			Raise:      signature(e.Raise),
			Attributes: attributes(e.Attributes),
		})
	}
	for _, n := range t.Nested {
		out.Nested = append(out.Nested, typeOf(n))
	}
	return out
}

func signature(m *model.Method) string {
	if m == nil {
		return ""
	}
	return m.Signature()
}

func method(m *model.Method) Method {
	out := Method{
		Signature:        m.Signature(),
		Name:             m.Name,
		Access:           m.Access.String(),
		Flags:            m.Flags.Strings(),
		Return:           m.ReturnType.Identity(),
		Params:           params(m.Params),
		Attributes:       attributes(m.Attributes),
		ReturnAttributes: attributes(m.ReturnAttributes),
		Synthesized:      m.Synthesized,
	}
	for _, gp := range m.GenericParams {
		out.GenericParams = append(out.GenericParams, gp.Name)
	}
	for _, o := range m.Overrides {
		out.Overrides = append(out.Overrides, o.DeclaringType.Identity()+"::"+o.Name)
	}
	if m.Body != nil {
		out.Stub = true
		out.Throws = m.Body.Throws
		if call := m.Body.BaseCall; call != nil {
			bc := &BaseCall{Target: call.Target.QualifiedName()}
			for _, a := range call.Args {
				def := "null"
				switch a.Kind {
				case model.DefaultZero:
					def = "default"
				case model.DefaultLocal:
					def = "local"
				}
				bc.Args = append(bc.Args, Arg{Type: a.Type.Identity(), Default: def})
			}
			out.BaseCall = bc
		}
	}
	return out
}

func params(ps []*model.Param) []Param {
	var out []Param
	for _, p := range ps {
		out = append(out, Param{Name: p.Name, Type: p.Type.Identity(), Attributes: attributes(p.Attributes)})
	}
	return out
}

func attributes(attrs []*model.Attribute) []Attribute {
	var out []Attribute
	for _, a := range attrs {
		at := Attribute{Type: a.Type.Identity(), Redirect: a.Redirect}
		for _, v := range a.Args {
			at.Args = append(at.Args, value(v))
		}
		for _, n := range a.Named {
			at.Named = append(at.Named, NamedValue{Name: n.Name, Value: value(n.Value)})
		}
		out = append(out, at)
	}
	return out
}

func value(v model.AttrValue) Value {
	switch v.Kind {
	case model.ValPrimitive:
		return Value{Kind: "primitive", Value: v.Prim}
	case model.ValType:
		return Value{Kind: "type", Type: v.Type.Identity()}
	case model.ValArray:
		out := Value{Kind: "array"}
		for _, e := range v.Elems {
			out.Elems = append(out.Elems, value(e))
		}
		return out
	}
	return Value{Kind: "null"}
}
