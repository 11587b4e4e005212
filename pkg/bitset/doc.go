// Package bitset provides an immutable set of small non-negative integers.
//
// # Overview
//
// A [Set] stores dense item or location indices. It is backed by a word array
// from [github.com/bits-and-blooms/bitset], so it grows to hundreds or
// thousands of members without being limited to a single machine word.
//
// # Value Semantics
//
// Every operation that looks like it mutates a set ([With], [Without],
// [Union]) returns a new value and leaves its inputs untouched. Placement code
// relies on this to probe "what if this item were not held" against a saved
// baseline without copying it explicitly:
//
//	has := bitset.From(0, 1, 2)
//	probe := has.Without(1) // has still contains 1
//
// The zero value is the empty set and is ready to use.
//
// # Iteration
//
// [Bits] returns an [iter.Seq] over members in ascending order:
//
//	for i := range bitset.Bits(s) {
//	    fmt.Println(i)
//	}
package bitset
