package fill

import (
	"github.com/matzehuels/itemshuffle/pkg/bitset"
	"github.com/matzehuels/itemshuffle/pkg/logic"
)

// Filling maps every location index to an item index or [Empty].
type Filling = logic.Filling

// Empty marks an unfilled location.
const Empty = logic.Empty

// Fits reports whether item may be placed at location loc. Both are
// indices into the same [logic.LocationList].
type Fits func(loc, item int) bool

// AssumedFill seats every pool item of ll. It returns false if some item
// has no legal location; the partial filling is discarded.
//
// A nil fits accepts every pair. A nil strategy uses [DefaultStrategy].
// ll is only read, so concurrent calls on the same list are safe as long
// as each has its own rng.
func AssumedFill(ll *logic.LocationList, rng Random, fits Fits, strategy Strategy) (Filling, bool) {
	if fits == nil {
		fits = func(int, int) bool { return true }
	}
	if strategy == nil {
		strategy = DefaultStrategy{}
	}

	var pool []Weighted
	for _, idx := range ll.PoolItems() {
		pool = append(pool, Weighted{Index: idx, Weight: ll.Item(idx).Weight})
	}
	order := strategy.ShuffleItems(pool, rng)

	has := ll.AllItems()
	filling := logic.NewFilling(ll.NumLocations())
	win := ll.Win()

	for _, item := range order {
		if !has.Has(item) {
			continue
		}
		has = has.Without(item)

		candidates := openLocations(ll.Traverse(has, filling), filling)
		placed := false
		for _, loc := range strategy.ShuffleSlots(item, candidates, rng) {
			if loc == win || !fits(loc, item) {
				continue
			}
			filling[loc] = item
			placed = true
			break
		}
		if !placed {
			return nil, false
		}
	}
	return filling, true
}

func openLocations(reachable bitset.Set, filling Filling) []int {
	out := make([]int, 0, reachable.Len())
	for loc := range reachable.Bits() {
		if filling[loc] == Empty {
			out = append(out, loc)
		}
	}
	return out
}
