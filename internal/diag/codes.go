package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// resolution
	ResInfo           Code = 1000
	ResUnresolvedType Code = 1001
	ResCycle          Code = 1002

	// intersection trade-offs
	IntInfo                   Code = 2000
	IntTypeDropped            Code = 2001
	IntTypeExcluded           Code = 2002
	IntBaseInterfaceRemoved   Code = 2003
	IntAbstractMemberRemoved  Code = 2004
	IntDelegateInvokeRemoved  Code = 2005
	IntOverrideRemoved        Code = 2006
	IntEmptyIntersection      Code = 2007
	IntConstructorSynthesized Code = 2008
	IntNoBaseConstructor      Code = 2009
	IntNestedTypeRemoved      Code = 2010
	IntAttributeRemoved       Code = 2011

	// configuration
	CfgInfo           Code = 3000
	CfgMissingInput   Code = 3001
	CfgConflictingSet Code = 3002
	CfgInvalidValue   Code = 3003

	// input/output
	IOInfo         Code = 4000
	IOLoadFailed   Code = 4001
	IOBadModel     Code = 4002
	IOCacheFailure Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown",
	ResInfo:                   "Resolution information",
	ResUnresolvedType:         "Type reference cannot be resolved",
	ResCycle:                  "Classification cycle",
	IntInfo:                   "Intersection information",
	IntTypeDropped:            "Type is missing from a variant",
	IntTypeExcluded:           "Type is excluded",
	IntBaseInterfaceRemoved:   "Base interface removed from an interface",
	IntAbstractMemberRemoved:  "Abstract member removed",
	IntDelegateInvokeRemoved:  "Delegate Invoke removed",
	IntOverrideRemoved:        "Override without a base slot removed",
	IntEmptyIntersection:      "No type survives the intersection",
	IntConstructorSynthesized: "Internal constructor synthesized",
	IntNoBaseConstructor:      "No usable base constructor",
	IntNestedTypeRemoved:      "Nested type removed",
	IntAttributeRemoved:       "Attribute removed",
	CfgInfo:                   "Configuration information",
	CfgMissingInput:           "Required input is missing",
	CfgConflictingSet:         "Identity listed in conflicting sets",
	CfgInvalidValue:           "Invalid configuration value",
	IOInfo:                    "I/O information",
	IOLoadFailed:              "Assembly description cannot be loaded",
	IOBadModel:                "Malformed assembly description",
	IOCacheFailure:            "Model cache failure",
}

// ID is the stable short form: RES1001, INT2004, ...
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
