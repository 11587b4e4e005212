package bitset

import (
	"iter"
	"strconv"
	"strings"

	bits "github.com/bits-and-blooms/bitset"
)

// Set is an immutable set of non-negative integers.
// The zero value is the empty set.
type Set struct {
	b *bits.BitSet
}

// Of returns the empty set.
func Of() Set { return Set{} }

// From returns a set containing the given indices.
// Negative indices panic, as they indicate a caller bug.
func From(indices ...int) Set {
	if len(indices) == 0 {
		return Set{}
	}
	b := bits.New(0)
	for _, i := range indices {
		b.Set(toUint(i))
	}
	return Set{b: b}
}

// With returns a copy of s that also contains i.
func With(s Set, i int) Set {
	b := s.cloneBits()
	b.Set(toUint(i))
	return Set{b: b}
}

// Without returns a copy of s that does not contain i.
func Without(s Set, i int) Set {
	if !Has(s, i) {
		return s
	}
	b := s.cloneBits()
	b.Clear(toUint(i))
	return Set{b: b}
}

// Has reports whether i is a member of s.
func Has(s Set, i int) bool {
	if s.b == nil || i < 0 {
		return false
	}
	return s.b.Test(uint(i))
}

// ContainsAll reports whether every member of sub is also in super.
func ContainsAll(super, sub Set) bool {
	if sub.b == nil || sub.b.None() {
		return true
	}
	if super.b == nil {
		return false
	}
	return super.b.IsSuperSet(sub.b)
}

// Clone returns a set equal to s that shares no storage with it.
func Clone(s Set) Set {
	if s.b == nil {
		return Set{}
	}
	return Set{b: s.b.Clone()}
}

// Union returns a new set holding the members of every argument.
func Union(sets ...Set) Set {
	var out *bits.BitSet
	for _, s := range sets {
		if s.b == nil {
			continue
		}
		if out == nil {
			out = s.b.Clone()
			continue
		}
		out.InPlaceUnion(s.b)
	}
	return Set{b: out}
}

// Equal reports whether a and b have the same members.
// Sets of different backing lengths compare equal when their members match.
func Equal(a, b Set) bool {
	return ContainsAll(a, b) && ContainsAll(b, a)
}

// Bits returns an iterator over the members of s in ascending order.
func Bits(s Set) iter.Seq[int] {
	return func(yield func(int) bool) {
		if s.b == nil {
			return
		}
		for i, ok := s.b.NextSet(0); ok; i, ok = s.b.NextSet(i + 1) {
			if !yield(int(i)) {
				return
			}
		}
	}
}

// Len returns the number of members in s.
func Len(s Set) int {
	if s.b == nil {
		return 0
	}
	return int(s.b.Count())
}

// Slice returns the members of s in ascending order.
func Slice(s Set) []int {
	out := make([]int, 0, Len(s))
	for i := range Bits(s) {
		out = append(out, i)
	}
	return out
}

// Label returns a canonical string for s, suitable as a map key.
// Equal sets always produce the same label.
func Label(s Set) string {
	var sb strings.Builder
	first := true
	for i := range Bits(s) {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}

// Method forms, for call sites that read better left to right.

func (s Set) With(i int) Set            { return With(s, i) }
func (s Set) Without(i int) Set         { return Without(s, i) }
func (s Set) Has(i int) bool            { return Has(s, i) }
func (s Set) ContainsAll(sub Set) bool  { return ContainsAll(s, sub) }
func (s Set) Union(other Set) Set       { return Union(s, other) }
func (s Set) Equal(other Set) bool      { return Equal(s, other) }
func (s Set) Bits() iter.Seq[int]       { return Bits(s) }
func (s Set) Len() int                  { return Len(s) }
func (s Set) IsEmpty() bool             { return Len(s) == 0 }
func (s Set) Slice() []int              { return Slice(s) }
func (s Set) Label() string             { return Label(s) }
func (s Set) String() string            { return "{" + Label(s) + "}" }

func (s Set) cloneBits() *bits.BitSet {
	if s.b == nil {
		return bits.New(0)
	}
	return s.b.Clone()
}

func toUint(i int) uint {
	if i < 0 {
		panic("bitset: negative index " + strconv.Itoa(i))
	}
	return uint(i)
}
