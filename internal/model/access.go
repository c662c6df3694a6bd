package model

// Visibility is the declared visibility of a type.
type Visibility uint8

const (
	VisNotPublic Visibility = iota
	VisPublic
	VisNestedPublic
	VisNestedPrivate
	VisNestedFamily
	VisNestedAssembly
	VisNestedFamAndAssem
	VisNestedFamOrAssem
)

func (v Visibility) String() string {
	switch v {
	case VisNotPublic:
		return "internal"
	case VisPublic:
		return "public"
	case VisNestedPublic:
		return "nested public"
	case VisNestedPrivate:
		return "nested private"
	case VisNestedFamily:
		return "nested protected"
	case VisNestedAssembly:
		return "nested internal"
	case VisNestedFamAndAssem:
		return "nested private protected"
	case VisNestedFamOrAssem:
		return "nested protected internal"
	default:
		return "unknown"
	}
}

// IsNested reports whether the visibility only applies to nested types.
func (v Visibility) IsNested() bool { return v >= VisNestedPublic }

// HiddenNested reports visibilities that keep a nested type out of every
// consumer's reach: private, assembly and private-protected.
func (v Visibility) HiddenNested() bool {
	switch v {
	case VisNestedPrivate, VisNestedAssembly, VisNestedFamAndAssem:
		return true
	}
	return false
}

// Exposed reports whether the visibility on its own lets code in another
// assembly see the type (family counts: derived types can name it).
func (v Visibility) Exposed() bool {
	switch v {
	case VisPublic, VisNestedPublic, VisNestedFamily, VisNestedFamOrAssem:
		return true
	}
	return false
}

// ParseVisibility maps the textual form used by model files.
func ParseVisibility(s string) (Visibility, bool) {
	for v := VisNotPublic; v <= VisNestedFamOrAssem; v++ {
		if v.String() == s {
			return v, true
		}
	}
	return VisNotPublic, false
}

// Access is the declared accessibility of a member.
type Access uint8

const (
	AccessCompilerControlled Access = iota
	AccessPrivate
	AccessFamAndAssem
	AccessAssembly
	AccessFamily
	AccessFamOrAssem
	AccessPublic
)

func (a Access) String() string {
	switch a {
	case AccessCompilerControlled:
		return "compilercontrolled"
	case AccessPrivate:
		return "private"
	case AccessFamAndAssem:
		return "private protected"
	case AccessAssembly:
		return "internal"
	case AccessFamily:
		return "protected"
	case AccessFamOrAssem:
		return "protected internal"
	case AccessPublic:
		return "public"
	default:
		return "unknown"
	}
}

// Hidden reports private or assembly-only accessibility.
func (a Access) Hidden() bool { return a <= AccessAssembly }

// ParseAccess maps the textual form used by model files.
func ParseAccess(s string) (Access, bool) {
	for a := AccessCompilerControlled; a <= AccessPublic; a++ {
		if a.String() == s {
			return a, true
		}
	}
	return AccessPrivate, false
}
