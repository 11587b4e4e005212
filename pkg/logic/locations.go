package logic

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/matzehuels/itemshuffle/pkg/bitset"
	"github.com/matzehuels/itemshuffle/pkg/world"
)

// Empty marks an unfilled location in a [Filling].
const Empty = -1

// NoLocation is the win index of a list without a win slot.
const NoLocation = -1

// ErrDuplicateWin is returned by [LocationList.SetWin] when a different
// location is already the win location.
var ErrDuplicateWin = errors.New("win location already set")

// Filling assigns an item index (or [Empty]) to every location index.
type Filling []int

// NewFilling returns an all-empty filling for n locations.
func NewFilling(n int) Filling {
	f := make(Filling, n)
	for i := range f {
		f[i] = Empty
	}
	return f
}

// ItemInfo describes one item index.
type ItemInfo struct {
	UID world.ID `json:"uid"`
	// Weight is the number of copies of the item in the shuffle order.
	Weight int `json:"weight"`
	// Placeable is false for primitive terms that are not pool items,
	// such as tracker nodes.
	Placeable bool `json:"placeable"`
}

// LocationList is the reduced Location↔Item dependency structure.
type LocationList struct {
	locations []world.ID
	locIndex  map[world.ID]int
	items     []ItemInfo
	itemIndex map[world.ID]int
	routes    [][]bitset.Set
	labels    []map[string]bool
	unlocks   []bitset.Set
	win       int
}

// NewLocationList returns an empty structure.
func NewLocationList() *LocationList {
	return &LocationList{
		locIndex:  make(map[world.ID]int),
		itemIndex: make(map[world.ID]int),
		win:       NoLocation,
	}
}

// AddLocation returns the index of slot uid, assigning the next free index
// on first sight.
func (l *LocationList) AddLocation(uid world.ID) int {
	if idx, ok := l.locIndex[uid]; ok {
		return idx
	}
	idx := len(l.locations)
	l.locIndex[uid] = idx
	l.locations = append(l.locations, uid)
	l.routes = append(l.routes, nil)
	l.labels = append(l.labels, make(map[string]bool))
	return idx
}

// AddItem returns the index of item uid, assigning the next free index on
// first sight. Weight and placeability are updated on every call.
func (l *LocationList) AddItem(uid world.ID, weight int, placeable bool) int {
	idx := l.ensureItem(uid)
	l.items[idx].Weight = weight
	l.items[idx].Placeable = placeable
	return idx
}

func (l *LocationList) ensureItem(uid world.ID) int {
	if idx, ok := l.itemIndex[uid]; ok {
		return idx
	}
	idx := len(l.items)
	l.itemIndex[uid] = idx
	l.items = append(l.items, ItemInfo{UID: uid, Weight: 1})
	l.unlocks = append(l.unlocks, bitset.Of())
	return idx
}

// AddRoute records that slot uid is reachable when every item in deps is
// held. Unknown slots and items are indexed on first sight. Duplicate routes
// are ignored.
func (l *LocationList) AddRoute(uid world.ID, deps []world.ID) {
	loc := l.AddLocation(uid)
	route := bitset.Of()
	for _, d := range deps {
		route = route.With(l.ensureItem(d))
	}
	label := route.Label()
	if l.labels[loc][label] {
		return
	}
	l.labels[loc][label] = true
	l.routes[loc] = append(l.routes[loc], route)
	for item := range route.Bits() {
		l.unlocks[item] = l.unlocks[item].With(loc)
	}
}

// SetWin marks slot uid as the win location.
func (l *LocationList) SetWin(uid world.ID) error {
	idx := l.AddLocation(uid)
	if l.win != NoLocation && l.win != idx {
		return fmt.Errorf("%w: #%d and #%d", ErrDuplicateWin, int(l.locations[l.win]), int(uid))
	}
	l.win = idx
	return nil
}

// Win returns the win location index, or [NoLocation].
func (l *LocationList) Win() int { return l.win }

// NumLocations returns the size of the location index space.
func (l *LocationList) NumLocations() int { return len(l.locations) }

// NumItems returns the size of the item index space.
func (l *LocationList) NumItems() int { return len(l.items) }

// Location returns the slot ID of location index idx.
func (l *LocationList) Location(idx int) world.ID { return l.locations[idx] }

// LocationIndex returns the index of slot uid.
func (l *LocationList) LocationIndex(uid world.ID) (int, bool) {
	idx, ok := l.locIndex[uid]
	return idx, ok
}

// Item returns the description of item index idx.
func (l *LocationList) Item(idx int) ItemInfo { return l.items[idx] }

// ItemIndex returns the index of item uid.
func (l *LocationList) ItemIndex(uid world.ID) (int, bool) {
	idx, ok := l.itemIndex[uid]
	return idx, ok
}

// Routes returns the alternatives of location idx.
// The slice is shared; callers must not modify it.
func (l *LocationList) Routes(idx int) []bitset.Set { return l.routes[idx] }

// Unlocks returns the locations whose routes mention item idx.
func (l *LocationList) Unlocks(idx int) bitset.Set { return l.unlocks[idx] }

// AllItems returns every item index, placeable or not. This is the
// "everything held" set.
func (l *LocationList) AllItems() bitset.Set {
	s := bitset.Of()
	for i := range l.items {
		s = s.With(i)
	}
	return s
}

// PoolItems returns the indices of placeable items in index order.
func (l *LocationList) PoolItems() []int {
	var out []int
	for i, it := range l.items {
		if it.Placeable {
			out = append(out, i)
		}
	}
	return out
}

// =============================================================================
// Serialization
// =============================================================================

// Snapshot is the serialized form of a [LocationList]. The unlock index is
// derived data and is rebuilt on load.
type Snapshot struct {
	Locations []world.ID `json:"locations"`
	Items     []ItemInfo `json:"items"`
	Routes    [][][]int  `json:"routes"`
	Win       int        `json:"win"`
}

// Snapshot returns a deep copy of the structure in serializable form.
func (l *LocationList) Snapshot() Snapshot {
	s := Snapshot{
		Locations: append([]world.ID(nil), l.locations...),
		Items:     append([]ItemInfo(nil), l.items...),
		Routes:    make([][][]int, len(l.routes)),
		Win:       l.win,
	}
	for i, alts := range l.routes {
		s.Routes[i] = make([][]int, len(alts))
		for j, r := range alts {
			s.Routes[i][j] = r.Slice()
		}
	}
	return s
}

// FromSnapshot rebuilds a structure. Indices are preserved exactly.
func FromSnapshot(s Snapshot) (*LocationList, error) {
	if len(s.Routes) != len(s.Locations) {
		return nil, fmt.Errorf("snapshot has %d route lists for %d locations", len(s.Routes), len(s.Locations))
	}
	l := NewLocationList()
	for _, uid := range s.Locations {
		l.AddLocation(uid)
	}
	for _, it := range s.Items {
		l.AddItem(it.UID, it.Weight, it.Placeable)
	}
	for loc, alts := range s.Routes {
		for _, alt := range alts {
			deps := make([]world.ID, len(alt))
			for i, item := range alt {
				if item < 0 || item >= len(l.items) {
					return nil, fmt.Errorf("location %d: item index %d out of range", loc, item)
				}
				deps[i] = l.items[item].UID
			}
			l.AddRoute(s.Locations[loc], deps)
		}
	}
	if s.Win != NoLocation {
		if s.Win < 0 || s.Win >= len(s.Locations) {
			return nil, fmt.Errorf("win index %d out of range", s.Win)
		}
		l.win = s.Win
	}
	return l, nil
}

// MarshalJSON implements [json.Marshaler].
func (l *LocationList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Snapshot())
}

// UnmarshalJSON implements [json.Unmarshaler].
func (l *LocationList) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	rebuilt, err := FromSnapshot(s)
	if err != nil {
		return err
	}
	*l = *rebuilt
	return nil
}
