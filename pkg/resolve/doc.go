// Package resolve eliminates intermediate nodes from an AND/OR requirement
// graph.
//
// # Overview
//
// Every target accumulates a set of alternative routes, each an AND over
// dependency node IDs. Together the routes of a target form a boolean formula
// in disjunctive normal form. [Resolver.AddRoute] records one more
// alternative; [Resolver.Finalize] freezes a node so that any later route
// naming it as a dependency is rewritten in terms of the node's own
// alternatives:
//
//	B = (C ∧ D) ∨ E
//	AddRoute(A, X, B)  →  A: (X ∧ C ∧ D) ∨ (X ∧ E)
//
// This is variable elimination by substitute-and-flatten. Nodes that are
// never finalized stay as raw dependency IDs; they are the primitive terms of
// the reduced formula (items, and tracker nodes in tracker mode).
//
// # Subsumption
//
// A route whose dependencies are a superset of an existing route on the same
// target adds nothing and is not recorded; existing routes made redundant by
// a new, smaller route are dropped. This keeps formulas small and lets
// callers run worklist algorithms to a fixpoint: [Resolver.AddRoute] returns
// only routes that are genuinely new.
//
// # Expansion
//
// [Resolver.Expand] returns the fully substituted alternatives of a node,
// including substitutions for nodes finalized after a route was recorded.
// Cycles are handled as a least fixpoint: a route that depends on a node
// currently being expanded cannot contribute.
//
// # Errors
//
// Finalizing a node twice, or adding a route to a finalized target, is a
// construction bug and returns [ErrAlreadyFinalized] or
// [ErrRouteAfterFinalize]. Callers are expected to abort integration.
//
// With [Resolver.MaxAlternatives] set, any product larger than the cap
// returns [ErrTooManyAlternatives], whether it happens in AddRoute or in a
// later Expand.
package resolve
