package metadata

// SchemaVersion is the newest document schema this package understands.
const SchemaVersion = 1

// Document is one assembly description.
type Document struct {
	Schema  int        `json:"schema,omitempty" msgpack:"schema,omitempty"`
	Name    string     `json:"name" msgpack:"name"`
	Version string     `json:"version,omitempty" msgpack:"version,omitempty"`
	Types   []*TypeDoc `json:"types" msgpack:"types"`
}

// TypeDoc describes a type definition. Empty Kind means class; empty
// Visibility means public, or nested public for nested types.
type TypeDoc struct {
	Namespace     string         `json:"namespace,omitempty" msgpack:"namespace,omitempty"`
	Name          string         `json:"name" msgpack:"name"`
	Kind          string         `json:"kind,omitempty" msgpack:"kind,omitempty"`
	Visibility    string         `json:"visibility,omitempty" msgpack:"visibility,omitempty"`
	Flags         []string       `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Base          *RefDoc        `json:"base,omitempty" msgpack:"base,omitempty"`
	Interfaces    []*RefDoc      `json:"interfaces,omitempty" msgpack:"interfaces,omitempty"`
	GenericParams []*GenericDoc  `json:"generic_params,omitempty" msgpack:"generic_params,omitempty"`
	Attributes    []*AttrDoc     `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Methods       []*MethodDoc   `json:"methods,omitempty" msgpack:"methods,omitempty"`
	Fields        []*FieldDoc    `json:"fields,omitempty" msgpack:"fields,omitempty"`
	Properties    []*PropertyDoc `json:"properties,omitempty" msgpack:"properties,omitempty"`
	Events        []*EventDoc    `json:"events,omitempty" msgpack:"events,omitempty"`
	Nested        []*TypeDoc     `json:"nested,omitempty" msgpack:"nested,omitempty"`
}

// GenericDoc declares a generic parameter; its position is its index.
type GenericDoc struct {
	Name        string    `json:"name" msgpack:"name"`
	Constraints []*RefDoc `json:"constraints,omitempty" msgpack:"constraints,omitempty"`
}

// RefDoc is a type reference. Kind is one of named (the default),
// generic-param, array, pointer, byref and generic-inst.
type RefDoc struct {
	Kind  string `json:"kind,omitempty" msgpack:"kind,omitempty"`
	Name  string `json:"name,omitempty" msgpack:"name,omitempty"`
	Scope string `json:"scope,omitempty" msgpack:"scope,omitempty"`
	// generic-param: "type" (default) or "method", and the position.
	Owner    string    `json:"owner,omitempty" msgpack:"owner,omitempty"`
	Position int       `json:"position,omitempty" msgpack:"position,omitempty"`
	Elem     *RefDoc   `json:"elem,omitempty" msgpack:"elem,omitempty"`
	Args     []*RefDoc `json:"args,omitempty" msgpack:"args,omitempty"`
	Rank     int       `json:"rank,omitempty" msgpack:"rank,omitempty"`
}

// MethodDoc describes a method. A missing return type means void and a
// missing access means public.
type MethodDoc struct {
	Name             string          `json:"name" msgpack:"name"`
	Access           string          `json:"access,omitempty" msgpack:"access,omitempty"`
	Flags            []string        `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Return           *RefDoc         `json:"return,omitempty" msgpack:"return,omitempty"`
	Params           []*ParamDoc     `json:"params,omitempty" msgpack:"params,omitempty"`
	GenericParams    []*GenericDoc   `json:"generic_params,omitempty" msgpack:"generic_params,omitempty"`
	Overrides        []*MemberRefDoc `json:"overrides,omitempty" msgpack:"overrides,omitempty"`
	Attributes       []*AttrDoc      `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	ReturnAttributes []*AttrDoc      `json:"return_attributes,omitempty" msgpack:"return_attributes,omitempty"`
}

type ParamDoc struct {
	Name       string     `json:"name,omitempty" msgpack:"name,omitempty"`
	Type       *RefDoc    `json:"type" msgpack:"type"`
	Attributes []*AttrDoc `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// MemberRefDoc names the interface member an explicit implementation fills.
type MemberRefDoc struct {
	Type *RefDoc `json:"type" msgpack:"type"`
	Name string  `json:"name" msgpack:"name"`
}

type FieldDoc struct {
	Name       string     `json:"name" msgpack:"name"`
	Access     string     `json:"access,omitempty" msgpack:"access,omitempty"`
	Static     bool       `json:"static,omitempty" msgpack:"static,omitempty"`
	Type       *RefDoc    `json:"type" msgpack:"type"`
	Attributes []*AttrDoc `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// PropertyDoc refers to its accessors by index into the owning type's
// method list.
type PropertyDoc struct {
	Name       string      `json:"name" msgpack:"name"`
	Type       *RefDoc     `json:"type" msgpack:"type"`
	Params     []*ParamDoc `json:"params,omitempty" msgpack:"params,omitempty"`
	Getter     *int        `json:"getter,omitempty" msgpack:"getter,omitempty"`
	Setter     *int        `json:"setter,omitempty" msgpack:"setter,omitempty"`
	Attributes []*AttrDoc  `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// EventDoc refers to its accessors like PropertyDoc.
type EventDoc struct {
	Name       string     `json:"name" msgpack:"name"`
	Type       *RefDoc    `json:"type" msgpack:"type"`
	Add        *int       `json:"add,omitempty" msgpack:"add,omitempty"`
	Remove     *int       `json:"remove,omitempty" msgpack:"remove,omitempty"`
	Raise      *int       `json:"raise,omitempty" msgpack:"raise,omitempty"`
	Attributes []*AttrDoc `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

type AttrDoc struct {
	Type  *RefDoc     `json:"type" msgpack:"type"`
	Args  []*ValueDoc `json:"args,omitempty" msgpack:"args,omitempty"`
	Named []*NamedDoc `json:"named,omitempty" msgpack:"named,omitempty"`
}

// ValueDoc is an attribute argument. Kind is null, primitive (the default
// when Value is set), type or array.
type ValueDoc struct {
	Kind  string      `json:"kind,omitempty" msgpack:"kind,omitempty"`
	Value any         `json:"value" msgpack:"value"`
	Type  *RefDoc     `json:"type,omitempty" msgpack:"type,omitempty"`
	Elems []*ValueDoc `json:"elems,omitempty" msgpack:"elems,omitempty"`
}

type NamedDoc struct {
	Name  string    `json:"name" msgpack:"name"`
	Value *ValueDoc `json:"value" msgpack:"value"`
}
