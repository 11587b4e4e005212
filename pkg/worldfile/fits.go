package worldfile

import (
	"github.com/matzehuels/itemshuffle/pkg/fill"
	"github.com/matzehuels/itemshuffle/pkg/logic"
	"github.com/matzehuels/itemshuffle/pkg/world"
)

// Fits returns the placement rules implied by slot flags:
//
//   - a fixed slot only takes its vanilla item, and that item only goes
//     into a fixed slot that names it;
//   - mimic items only go into chest slots flagged mimic;
//   - boss-drop slots never take mimic items.
//
// ll must have been integrated from g.
func Fits(g *world.Graph, ll *logic.LocationList) fill.Fits {
	slots := make([]*world.Slot, ll.NumLocations())
	pinned := make(map[world.ID]bool)
	for loc := range slots {
		n, _ := g.Node(ll.Location(loc))
		s := n.(*world.Slot)
		slots[loc] = s
		if s.Fixed && s.Vanilla != world.None {
			pinned[s.Vanilla] = true
		}
	}
	items := make([]*world.ItemGet, ll.NumItems())
	for idx := range items {
		if n, ok := g.Node(ll.Item(idx).UID); ok {
			items[idx], _ = n.(*world.ItemGet)
		}
	}

	return func(loc, item int) bool {
		s, it := slots[loc], items[item]
		if it == nil {
			return false
		}
		if s.Fixed || pinned[it.ID()] {
			return s.Fixed && s.Vanilla == it.ID()
		}
		if it.Inventory == world.InventoryMimic {
			return s.Chest && s.Mimic && !s.BossDrop
		}
		return true
	}
}
