package model

import (
	"strconv"
	"strings"
)

// RefKind discriminates the TypeRef union.
type RefKind uint8

const (
	// RefNamed points at a type definition by identity; it may dangle.
	RefNamed RefKind = iota + 1
	// RefGenericParam is a type or method generic parameter.
	RefGenericParam
	// RefArray, RefPointer, RefByRef and RefGenericInst wrap an element type.
	RefArray
	RefPointer
	RefByRef
	RefGenericInst
)

func (k RefKind) String() string {
	switch k {
	case RefNamed:
		return "named"
	case RefGenericParam:
		return "generic-param"
	case RefArray:
		return "array"
	case RefPointer:
		return "pointer"
	case RefByRef:
		return "byref"
	case RefGenericInst:
		return "generic-inst"
	default:
		return "invalid"
	}
}

// GenericOwner tells whether a generic parameter belongs to a type or a method.
type GenericOwner uint8

const (
	OwnerType GenericOwner = iota
	OwnerMethod
)

// GenericParam declares a generic parameter together with its constraints.
type GenericParam struct {
	Name        string
	Owner       GenericOwner
	Position    int
	Constraints []*TypeRef
}

// TypeRef is a reference to a type as it appears in a signature, a base
// list or an attribute blob. Only the fields of its Kind are meaningful.
type TypeRef struct {
	Kind RefKind

	// RefNamed
	FullName string
	Scope    string // defining assembly name, empty for "same assembly"

	// RefGenericParam
	Param *GenericParam

	// constructed kinds
	Elem *TypeRef
	Args []*TypeRef // RefGenericInst
	Rank int        // RefArray, 0 and 1 both mean a vector

	origin *Assembly
}

// Named builds a named reference.
func Named(fullName string) *TypeRef {
	return &TypeRef{Kind: RefNamed, FullName: fullName}
}

// NamedIn builds a named reference to a type defined in assembly scope.
func NamedIn(scope, fullName string) *TypeRef {
	return &TypeRef{Kind: RefNamed, FullName: fullName, Scope: scope}
}

// ParamRef references a generic parameter.
func ParamRef(p *GenericParam) *TypeRef {
	return &TypeRef{Kind: RefGenericParam, Param: p}
}

// ArrayOf builds a single-dimensional array reference.
func ArrayOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefArray, Elem: elem, Rank: 1}
}

// PointerTo builds an unmanaged pointer reference.
func PointerTo(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefPointer, Elem: elem}
}

// ByRef builds a managed reference (ref/out parameter).
func ByRef(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: RefByRef, Elem: elem}
}

// Instantiate builds a generic instantiation of def.
func Instantiate(def *TypeRef, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: RefGenericInst, Elem: def, Args: args}
}

// IsConstructed reports whether the reference wraps an element type.
func (r *TypeRef) IsConstructed() bool {
	if r == nil {
		return false
	}
	switch r.Kind {
	case RefArray, RefPointer, RefByRef, RefGenericInst:
		return true
	}
	return false
}

// Origin is the assembly the reference was read from, nil for free refs.
func (r *TypeRef) Origin() *Assembly {
	if r == nil {
		return nil
	}
	return r.origin
}

// Identity is the fully qualified name used as the classification key.
// Generic parameters are keyed by their bare name.
func (r *TypeRef) Identity() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	r.writeIdentity(&sb)
	return sb.String()
}

func (r *TypeRef) writeIdentity(sb *strings.Builder) {
	switch r.Kind {
	case RefNamed:
		sb.WriteString(r.FullName)
	case RefGenericParam:
		if r.Param != nil {
			sb.WriteString(r.Param.Name)
		}
	case RefArray:
		r.Elem.writeIdentity(sb)
		sb.WriteByte('[')
		for i := 1; i < r.Rank; i++ {
			sb.WriteByte(',')
		}
		sb.WriteByte(']')
	case RefPointer:
		r.Elem.writeIdentity(sb)
		sb.WriteByte('*')
	case RefByRef:
		r.Elem.writeIdentity(sb)
		sb.WriteByte('&')
	case RefGenericInst:
		r.Elem.writeIdentity(sb)
		sb.WriteByte('<')
		for i, a := range r.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			a.writeIdentity(sb)
		}
		sb.WriteByte('>')
	}
}

// Definition strips generic instantiation and returns the named reference
// underneath, or nil for arrays, pointers and generic parameters.
func (r *TypeRef) Definition() *TypeRef {
	for cur := r; cur != nil; cur = cur.Elem {
		switch cur.Kind {
		case RefNamed:
			return cur
		case RefGenericInst:
			continue
		default:
			return nil
		}
	}
	return nil
}

func (r *TypeRef) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.Kind == RefGenericParam && r.Param != nil {
		prefix := "!"
		if r.Param.Owner == OwnerMethod {
			prefix = "!!"
		}
		return r.Param.Name + "(" + prefix + strconv.Itoa(r.Param.Position) + ")"
	}
	return r.Identity()
}

// SplitName returns the namespace and the simple (outermost-relative) name
// of a fully qualified identity: "A.B.Outer/Inner" -> ("A.B", "Outer/Inner").
func SplitName(fullName string) (namespace, name string) {
	top := fullName
	rest := ""
	if i := strings.IndexByte(fullName, '/'); i >= 0 {
		top, rest = fullName[:i], fullName[i:]
	}
	if i := strings.LastIndexByte(top, '.'); i >= 0 {
		return top[:i], top[i+1:] + rest
	}
	return "", top + rest
}

// JoinName is the inverse of SplitName.
func JoinName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// walkRefs calls fn for r and every reference nested inside it, except
// generic parameter constraints.
func walkRefs(r *TypeRef, fn func(*TypeRef)) {
	if r == nil {
		return
	}
	fn(r)
	// Constraints are reached through the declaring GenericParam lists;
	// following them here would loop on T : IComparable<T>.
	switch r.Kind {
	case RefArray, RefPointer, RefByRef:
		walkRefs(r.Elem, fn)
	case RefGenericInst:
		walkRefs(r.Elem, fn)
		for _, a := range r.Args {
			walkRefs(a, fn)
		}
	}
}

// clone copies the reference tree. Generic parameter declarations are
// shared, not copied.
func (r *TypeRef) clone() *TypeRef {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Elem = r.Elem.clone()
	if r.Args != nil {
		cp.Args = make([]*TypeRef, len(r.Args))
		for i, x := range r.Args {
			cp.Args[i] = x.clone()
		}
	}
	return &cp
}
