package intersect

import (
	"apisect/internal/model"
	"apisect/internal/observ"
)

// Counter tallies one kind of symbol.
type Counter struct {
	Kept    int
	Removed int
}

// Stats summarizes a run.
type Stats struct {
	Indexed     int
	Survived    int
	Dropped     int
	Excluded    int
	Interfaces  Counter
	Methods     Counter
	Fields      Counter
	Properties  Counter
	Events      Counter
	Nested      Counter
	Synthesized int
	Stubbed     int
	Blacklisted int
	Whitelisted int
}

// DroppedType explains why a main type is not in the output.
type DroppedType struct {
	Identity string
	// Missing is the first variant lacking the type, or -1.
	Missing int
	// Reason is a human-readable cause.
	Reason string
}

// Result is what the engine hands to the emitter.
type Result struct {
	// Types are the surviving top-level types in ordinal identity order.
	Types    []*model.TypeSymbol
	Excluded []string
	Dropped  []DroppedType
	Stats    Stats
	Timings  observ.Report
	// Throws is the exception type stub bodies throw.
	Throws string
}
