package classify

// Reason records why an identity was blacklisted.
type Reason uint8

const (
	ReasonNone Reason = iota
	// ReasonExplicit comes from the configured blacklist.
	ReasonExplicit
	// ReasonAbsent marks main types missing from some variant.
	ReasonAbsent
	// ReasonExcluded marks identities defined by an exclusion variant.
	ReasonExcluded
	ReasonUnresolved
	ReasonHiddenNested
	ReasonNotPublic
	ReasonBase
	ReasonOrphanedDelegate
	ReasonOrphanedImplementation
	ReasonDelegateInvoke
	ReasonConstraint
	ReasonElement
)

var reasonText = [...]string{
	ReasonNone:                   "none",
	ReasonExplicit:               "listed in the blacklist",
	ReasonAbsent:                 "missing from a variant",
	ReasonExcluded:               "defined by an excluded assembly",
	ReasonUnresolved:             "cannot be resolved",
	ReasonHiddenNested:           "nested private or internal",
	ReasonNotPublic:              "not publicly visible",
	ReasonBase:                   "base type is blacklisted",
	ReasonOrphanedDelegate:       "owner of delegate is blacklisted",
	ReasonOrphanedImplementation: "implemented interface is blacklisted",
	ReasonDelegateInvoke:         "delegate Invoke is excluded",
	ReasonConstraint:             "generic constraint is blacklisted",
	ReasonElement:                "element type is blacklisted",
}

func (r Reason) String() string {
	if int(r) < len(reasonText) {
		return reasonText[r]
	}
	return "unknown"
}
