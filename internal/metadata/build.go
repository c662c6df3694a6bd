package metadata

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"apisect/internal/model"
)

// Assembly converts the document into a linked model assembly. Every name
// is NFC-normalized so identities compare equal across dumpers. path only
// labels errors.
func (d *Document) Assembly(path string) (*model.Assembly, error) {
	if d.Name == "" {
		return nil, &FormatError{Path: path, Err: errors.New("assembly has no name")}
	}
	b := &builder{path: path}
	types := make([]*model.TypeSymbol, 0, len(d.Types))
	count := 0
	for _, td := range d.Types {
		t, err := b.typ(td, false)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		t.Walk(func(*model.TypeSymbol) { count++ })
	}
	a := model.NewAssembly(nfc(d.Name), d.Version, types)
	if a.Len() != count {
		return nil, &FormatError{Path: path, Err: fmt.Errorf("%d types share an identity", count-a.Len()+1)}
	}
	return a, nil
}

func nfc(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

type builder struct {
	path         string
	where        string
	typeParams   []*model.GenericParam
	methodParams []*model.GenericParam
}

func (b *builder) errorf(format string, args ...any) error {
	return &FormatError{Path: b.path, Where: b.where, Err: fmt.Errorf(format, args...)}
}

func (b *builder) typ(d *TypeDoc, nested bool) (*model.TypeSymbol, error) {
	if d == nil || d.Name == "" {
		return nil, b.errorf("type without a name")
	}
	t := &model.TypeSymbol{Name: nfc(d.Name)}
	if !nested {
		t.Namespace = nfc(d.Namespace)
	}
	outerWhere, outerParams := b.where, b.typeParams
	defer func() { b.where, b.typeParams = outerWhere, outerParams }()
	if nested {
		b.where = outerWhere + "/" + t.Name
	} else {
		b.where = model.JoinName(t.Namespace, t.Name)
	}

	var ok bool
	if t.Kind, ok = model.ParseTypeKind(orDefault(d.Kind, "class")); !ok {
		return nil, b.errorf("unknown type kind %q", d.Kind)
	}
	vis := "public"
	if nested {
		vis = "nested public"
	}
	if t.Visibility, ok = model.ParseVisibility(orDefault(d.Visibility, vis)); !ok {
		return nil, b.errorf("unknown visibility %q", d.Visibility)
	}
	for _, f := range d.Flags {
		switch f {
		case "abstract":
			t.Flags |= model.TypeAbstract
		case "sealed":
			t.Flags |= model.TypeSealed
		case "serializable":
			t.Flags |= model.TypeSerializable
		default:
			return nil, b.errorf("unknown type flag %q", f)
		}
	}

	var err error
	if t.GenericParams, err = b.generics(d.GenericParams, model.OwnerType, &b.typeParams); err != nil {
		return nil, err
	}
	if t.Base, err = b.ref(d.Base); err != nil {
		return nil, err
	}
	if t.Interfaces, err = b.refs(d.Interfaces); err != nil {
		return nil, err
	}
	if t.Attributes, err = b.attrs(d.Attributes); err != nil {
		return nil, err
	}
	for _, md := range d.Methods {
		m, err := b.method(md)
		if err != nil {
			return nil, err
		}
		t.Methods = append(t.Methods, m)
	}
	for _, fd := range d.Fields {
		f, err := b.field(fd)
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, f)
	}
	for _, pd := range d.Properties {
		p, err := b.property(pd, t.Methods)
		if err != nil {
			return nil, err
		}
		t.Properties = append(t.Properties, p)
	}
	for _, ed := range d.Events {
		e, err := b.event(ed, t.Methods)
		if err != nil {
			return nil, err
		}
		t.Events = append(t.Events, e)
	}
	for _, nd := range d.Nested {
		n, err := b.typ(nd, true)
		if err != nil {
			return nil, err
		}
		t.Nested = append(t.Nested, n)
	}
	return t, nil
}

// generics declares the parameters in scope before converting constraints,
// which may mention the parameters themselves.
func (b *builder) generics(docs []*GenericDoc, owner model.GenericOwner, scope *[]*model.GenericParam) ([]*model.GenericParam, error) {
	if len(docs) == 0 {
		*scope = nil
		return nil, nil
	}
	params := make([]*model.GenericParam, len(docs))
	for i, gd := range docs {
		if gd == nil {
			return nil, b.errorf("generic parameter %d is empty", i)
		}
		params[i] = &model.GenericParam{Name: nfc(gd.Name), Owner: owner, Position: i}
	}
	*scope = params
	for i, gd := range docs {
		cs, err := b.refs(gd.Constraints)
		if err != nil {
			return nil, err
		}
		params[i].Constraints = cs
	}
	return params, nil
}

func (b *builder) method(d *MethodDoc) (*model.Method, error) {
	if d == nil || d.Name == "" {
		return nil, b.errorf("method without a name")
	}
	outer := b.where
	b.where = outer + "::" + d.Name
	defer func() { b.where, b.methodParams = outer, nil }()

	m := &model.Method{Name: nfc(d.Name)}
	var err error
	if m.Access, err = b.access(d.Access); err != nil {
		return nil, err
	}
	for _, f := range d.Flags {
		switch f {
		case "static":
			m.Flags |= model.MethodStatic
		case "virtual":
			m.Flags |= model.MethodVirtual
		case "abstract":
			m.Flags |= model.MethodAbstract
		case "final":
			m.Flags |= model.MethodFinal
		case "newslot":
			m.Flags |= model.MethodNewSlot
		default:
			return nil, b.errorf("unknown method flag %q", f)
		}
	}
	if m.GenericParams, err = b.generics(d.GenericParams, model.OwnerMethod, &b.methodParams); err != nil {
		return nil, err
	}
	if d.Return == nil {
		m.ReturnType = model.Named("System.Void")
	} else if m.ReturnType, err = b.ref(d.Return); err != nil {
		return nil, err
	}
	if m.Params, err = b.params(d.Params); err != nil {
		return nil, err
	}
	for _, o := range d.Overrides {
		if o == nil || o.Name == "" {
			return nil, b.errorf("override without a member name")
		}
		decl, err := b.ref(o.Type)
		if err != nil {
			return nil, err
		}
		m.Overrides = append(m.Overrides, model.MemberRef{DeclaringType: decl, Name: nfc(o.Name)})
	}
	if m.Attributes, err = b.attrs(d.Attributes); err != nil {
		return nil, err
	}
	if m.ReturnAttributes, err = b.attrs(d.ReturnAttributes); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *builder) access(s string) (model.Access, error) {
	a, ok := model.ParseAccess(orDefault(s, "public"))
	if !ok {
		return a, b.errorf("unknown access %q", s)
	}
	return a, nil
}

func (b *builder) params(docs []*ParamDoc) ([]*model.Param, error) {
	var out []*model.Param
	for i, pd := range docs {
		if pd == nil || pd.Type == nil {
			return nil, b.errorf("parameter %d has no type", i)
		}
		typ, err := b.ref(pd.Type)
		if err != nil {
			return nil, err
		}
		attrs, err := b.attrs(pd.Attributes)
		if err != nil {
			return nil, err
		}
		out = append(out, &model.Param{Name: nfc(pd.Name), Type: typ, Attributes: attrs})
	}
	return out, nil
}

func (b *builder) field(d *FieldDoc) (*model.Field, error) {
	if d == nil || d.Name == "" || d.Type == nil {
		return nil, b.errorf("field needs a name and a type")
	}
	f := &model.Field{Name: nfc(d.Name), Static: d.Static}
	var err error
	if f.Access, err = b.access(d.Access); err != nil {
		return nil, err
	}
	if f.Type, err = b.ref(d.Type); err != nil {
		return nil, err
	}
	if f.Attributes, err = b.attrs(d.Attributes); err != nil {
		return nil, err
	}
	return f, nil
}

func (b *builder) accessor(idx *int, methods []*model.Method, owner string) (*model.Method, error) {
	if idx == nil {
		return nil, nil
	}
	if *idx < 0 || *idx >= len(methods) {
		return nil, b.errorf("accessor of %s points at method %d of %d", owner, *idx, len(methods))
	}
	return methods[*idx], nil
}

func (b *builder) property(d *PropertyDoc, methods []*model.Method) (*model.Property, error) {
	if d == nil || d.Name == "" || d.Type == nil {
		return nil, b.errorf("property needs a name and a type")
	}
	p := &model.Property{Name: nfc(d.Name)}
	var err error
	if p.Type, err = b.ref(d.Type); err != nil {
		return nil, err
	}
	if p.Params, err = b.params(d.Params); err != nil {
		return nil, err
	}
	if p.Getter, err = b.accessor(d.Getter, methods, p.Name); err != nil {
		return nil, err
	}
	if p.Setter, err = b.accessor(d.Setter, methods, p.Name); err != nil {
		return nil, err
	}
	if p.Attributes, err = b.attrs(d.Attributes); err != nil {
		return nil, err
	}
	return p, nil
}

func (b *builder) event(d *EventDoc, methods []*model.Method) (*model.Event, error) {
	if d == nil || d.Name == "" || d.Type == nil {
		return nil, b.errorf("event needs a name and a type")
	}
	e := &model.Event{Name: nfc(d.Name)}
	var err error
	if e.Type, err = b.ref(d.Type); err != nil {
		return nil, err
	}
	if e.Add, err = b.accessor(d.Add, methods, e.Name); err != nil {
		return nil, err
	}
	if e.Remove, err = b.accessor(d.Remove, methods, e.Name); err != nil {
		return nil, err
	}
	if e.Raise, err = b.accessor(d.Raise, methods, e.Name); err != nil {
		return nil, err
	}
	if e.Attributes, err = b.attrs(d.Attributes); err != nil {
		return nil, err
	}
	return e, nil
}

func (b *builder) refs(docs []*RefDoc) ([]*model.TypeRef, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]*model.TypeRef, len(docs))
	for i, d := range docs {
		if d == nil {
			return nil, b.errorf("empty type reference")
		}
		r, err := b.ref(d)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (b *builder) ref(d *RefDoc) (*model.TypeRef, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Kind {
	case "", "named":
		if d.Name == "" {
			return nil, b.errorf("named reference without a name")
		}
		return model.NamedIn(nfc(d.Scope), nfc(d.Name)), nil
	case "generic-param":
		scope := b.typeParams
		switch d.Owner {
		case "", "type":
		case "method":
			scope = b.methodParams
		default:
			return nil, b.errorf("unknown generic parameter owner %q", d.Owner)
		}
		if d.Position < 0 || d.Position >= len(scope) {
			return nil, b.errorf("generic parameter %d of %s is not declared", d.Position, orDefault(d.Owner, "type"))
		}
		return model.ParamRef(scope[d.Position]), nil
	case "array", "pointer", "byref", "generic-inst":
		if d.Elem == nil {
			return nil, b.errorf("%s reference without an element", d.Kind)
		}
		elem, err := b.ref(d.Elem)
		if err != nil {
			return nil, err
		}
		switch d.Kind {
		case "array":
			r := model.ArrayOf(elem)
			if d.Rank > 1 {
				r.Rank = d.Rank
			}
			return r, nil
		case "pointer":
			return model.PointerTo(elem), nil
		case "byref":
			return model.ByRef(elem), nil
		}
		if elem.Kind != model.RefNamed {
			return nil, b.errorf("generic instance of a non-named type")
		}
		args, err := b.refs(d.Args)
		if err != nil {
			return nil, err
		}
		return model.Instantiate(elem, args...), nil
	}
	return nil, b.errorf("unknown reference kind %q", d.Kind)
}

func (b *builder) attrs(docs []*AttrDoc) ([]*model.Attribute, error) {
	var out []*model.Attribute
	for _, ad := range docs {
		if ad == nil || ad.Type == nil {
			return nil, b.errorf("attribute without a type")
		}
		typ, err := b.ref(ad.Type)
		if err != nil {
			return nil, err
		}
		a := &model.Attribute{Type: typ}
		for _, vd := range ad.Args {
			v, err := b.value(vd)
			if err != nil {
				return nil, err
			}
			a.Args = append(a.Args, v)
		}
		for _, nd := range ad.Named {
			if nd == nil || nd.Name == "" {
				return nil, b.errorf("named attribute argument without a name")
			}
			v, err := b.value(nd.Value)
			if err != nil {
				return nil, err
			}
			a.Named = append(a.Named, model.NamedArg{Name: nfc(nd.Name), Value: v})
		}
		out = append(out, a)
	}
	return out, nil
}

func (b *builder) value(d *ValueDoc) (model.AttrValue, error) {
	if d == nil {
		return model.AttrValue{Kind: model.ValNull}, nil
	}
	kind := d.Kind
	if kind == "" {
		kind = "null"
		if d.Value != nil {
			kind = "primitive"
		}
	}
	switch kind {
	case "null":
		return model.AttrValue{Kind: model.ValNull}, nil
	case "primitive":
		v := d.Value
		if s, ok := v.(string); ok {
			v = nfc(s)
		}
		return model.AttrValue{Kind: model.ValPrimitive, Prim: v}, nil
	case "type":
		r, err := b.ref(d.Type)
		if err != nil {
			return model.AttrValue{}, err
		}
		if r == nil {
			return model.AttrValue{}, b.errorf("typeof argument without a type")
		}
		return model.AttrValue{Kind: model.ValType, Type: r}, nil
	case "array":
		v := model.AttrValue{Kind: model.ValArray}
		for _, ed := range d.Elems {
			e, err := b.value(ed)
			if err != nil {
				return model.AttrValue{}, err
			}
			v.Elems = append(v.Elems, e)
		}
		return v, nil
	}
	return model.AttrValue{}, b.errorf("unknown attribute value kind %q", d.Kind)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
