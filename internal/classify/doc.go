// Package classify decides which types and members can appear on the
// public surface of the intersected assembly.
//
// The Classifier owns the blacklist and the whitelist. Every identity it is
// asked about lands in exactly one of them and stays there. Rules run in a
// fixed order: cheap visibility and ancestry checks first, then the naming
// heuristics for interop delegates and implementations, then the delegate
// Invoke check. The member predicates in members.go are built on top of it
// and are used both by the classifier (delegate Invoke) and by the
// intersection passes.
package classify
