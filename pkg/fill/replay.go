package fill

import (
	"github.com/matzehuels/itemshuffle/pkg/bitset"
	"github.com/matzehuels/itemshuffle/pkg/logic"
)

// Playthrough is the result of [Replay].
type Playthrough struct {
	// Spheres groups location indices by the round in which they become
	// reachable. Sphere 0 needs no pool items.
	Spheres [][]int `json:"spheres"`
	// Unreached lists filled locations that are never reached.
	Unreached []int `json:"unreached,omitempty"`
	// Complete reports whether the win location and every filled location
	// are reached.
	Complete bool `json:"complete"`
}

// Replay collects the items of filling round by round, starting with only
// the non-pool items of ll held. Each round reaches every location the
// current inventory allows and then picks up everything found there.
func Replay(ll *logic.LocationList, filling Filling) Playthrough {
	has := bitset.Of()
	for i := range ll.NumItems() {
		if !ll.Item(i).Placeable {
			has = has.With(i)
		}
	}

	var p Playthrough
	seen := bitset.Of()
	for {
		var sphere []int
		for loc := range ll.Traverse(has, nil).Bits() {
			if !seen.Has(loc) {
				sphere = append(sphere, loc)
				seen = seen.With(loc)
			}
		}
		if len(sphere) == 0 {
			break
		}
		p.Spheres = append(p.Spheres, sphere)
		for _, loc := range sphere {
			if loc < len(filling) && filling[loc] != Empty {
				has = has.With(filling[loc])
			}
		}
	}

	for loc, item := range filling {
		if item != Empty && !seen.Has(loc) {
			p.Unreached = append(p.Unreached, loc)
		}
	}
	win := ll.Win()
	p.Complete = len(p.Unreached) == 0 && (win == logic.NoLocation || seen.Has(win))
	return p
}
