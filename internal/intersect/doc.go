// Package intersect computes the API surface shared by a main assembly and
// its reference variants.
//
// Run drives the whole computation:
//
//  1. index the main types and find them in every variant;
//  2. drop identities defined by exclusion assemblies;
//  3. reduce each type, base types first: attributes, interfaces, methods,
//     fields, then properties and events, comparing the variants with the
//     structural relations of package sigmatch;
//  4. reconcile nested type lists once all outer types are final;
//  5. plan stub bodies for the survivors (package stubs).
//
// The main variant is authoritative: its order and nesting are kept, the
// other variants only vote on what stays. Removals that change a contract
// (abstract members, base interfaces of interfaces, delegate Invoke) are
// warnings; everything else is info or trace output.
package intersect
