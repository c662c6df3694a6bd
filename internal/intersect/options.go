package intersect

import (
	"apisect/internal/model"
)

// SerializableAttribute is the marker cleared by the serializable policy.
const SerializableAttribute = "System.SerializableAttribute"

// Options carry every switch and list the engine consumes.
type Options struct {
	KeepInternalConstructors bool
	KeepInteropAttributes    bool
	// StripSerializable clears the serializable marker even when the
	// target profile knows about it.
	StripSerializable bool
	// RedirectInteropMarker annotates kept interop attributes that the
	// target profile lacks with InteropRedirect.
	RedirectInteropMarker bool
	InteropRedirect       string
	// Lenient degrades unresolvable references to warnings.
	Lenient bool

	// Blacklist and Whitelist seed the classifier; whitelist entries win.
	Blacklist []string
	Whitelist []string
	// MemberRemovalAllow suppresses abstract-member warnings. Entries are
	// a type identity or "Type::Member".
	MemberRemovalAllow []string
	// ExplicitTypeAllow suppresses dropped-type reports.
	ExplicitTypeAllow []string
	// InteropAttributes lists attribute identities subject to the interop
	// policy.
	InteropAttributes []string

	// Profile describes the target core library. When nil the resolver is
	// used if it implements model.Profile.
	Profile model.Profile
	// Progress receives per-stage and per-type events; may be nil.
	Progress ProgressSink
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

type fullProfile struct{}

func (fullProfile) HasType(string) bool { return true }
