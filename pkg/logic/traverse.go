package logic

import (
	"github.com/matzehuels/itemshuffle/pkg/bitset"
)

// Traverse returns the set of location indices reachable while holding has.
//
// Every location starts queued. A location is marked reachable when any of
// its routes is contained in has; if filling places an item there, the item
// is added to has and every location that mentions it is queued again. The
// loop terminates because has only grows and each location is marked once.
// filling may be nil.
func (l *LocationList) Traverse(has bitset.Set, filling Filling) bitset.Set {
	n := len(l.locations)
	reached := make([]bool, n)
	queue := make([]int, n)
	for i := range queue {
		queue[i] = i
	}

	for len(queue) > 0 {
		loc := queue[0]
		queue = queue[1:]
		if reached[loc] || !l.CanReach(loc, has) {
			continue
		}
		reached[loc] = true

		if loc >= len(filling) || filling[loc] == Empty {
			continue
		}
		item := filling[loc]
		if has.Has(item) {
			continue
		}
		has = has.With(item)
		for next := range l.unlocks[item].Bits() {
			if !reached[next] {
				queue = append(queue, next)
			}
		}
	}

	out := make([]int, 0, n)
	for loc, ok := range reached {
		if ok {
			out = append(out, loc)
		}
	}
	return bitset.From(out...)
}

// CanReach reports whether any route of location loc is satisfied by has.
func (l *LocationList) CanReach(loc int, has bitset.Set) bool {
	for _, route := range l.routes[loc] {
		if has.ContainsAll(route) {
			return true
		}
	}
	return false
}

// Report is the result of [LocationList.Audit].
type Report struct {
	// NoRoutes lists locations with zero surviving alternatives.
	NoRoutes []int `json:"no_routes,omitempty"`
	// Unreachable lists locations that cannot be reached even when every
	// item is held. It includes NoRoutes.
	Unreachable []int `json:"unreachable,omitempty"`
	// WinReachable reports whether the win location is reachable with
	// every item held.
	WinReachable bool `json:"win_reachable"`
}

// OK reports whether every location is reachable in the relaxed setting.
func (r Report) OK() bool { return len(r.Unreachable) == 0 && r.WinReachable }

// Audit checks the structure for locations that no placement can ever
// reach. Such locations would otherwise only show up as repeated placement
// failures.
func (l *LocationList) Audit() Report {
	var r Report
	for loc, alts := range l.routes {
		if len(alts) == 0 {
			r.NoRoutes = append(r.NoRoutes, loc)
		}
	}
	reachable := l.Traverse(l.AllItems(), nil)
	for loc := range l.locations {
		if !reachable.Has(loc) {
			r.Unreachable = append(r.Unreachable, loc)
		}
	}
	r.WinReachable = l.win != NoLocation && reachable.Has(l.win)
	return r
}
