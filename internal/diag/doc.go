// Package diag defines the diagnostic model shared by every intersection
// stage.
//
// Diagnostics are how compatibility trade-offs reach the user: a removed
// abstract member, a base interface dropped from an interface, a type that
// is missing from one variant. None of these abort a run. Only SevError
// diagnostics (unresolvable references in strict mode, bad input) do, and
// the driver decides that by inspecting the Bag.
//
// # Data model
//
//   - Severity – Info, Warning, Error.
//   - Code – numeric id with a stable string form (RES, INT, CFG, IO ranges).
//   - Subject – the symbol identity the finding is about plus the variant
//     index it was observed in (NoVariant when it applies to all).
//   - Notes – optional extra subjects, e.g. the ancestor an override
//     search stopped at.
//
// Producers talk to a Reporter; BagReporter collects into a capped Bag that
// the driver sorts before rendering with internal/diagfmt.
package diag
