package world

import "fmt"

// ID identifies a registered node. IDs are assigned by [Graph.Add] in
// registration order starting at 0 and never change.
type ID int

// None marks an absent node reference.
const None ID = -1

// Kind enumerates the closed set of node kinds.
type Kind int

const (
	KindSlot Kind = iota
	KindItemGet
	KindOption
	KindTrigger
	KindCondition
	KindBoss
	KindConnection
	KindLocation
	KindArea
	KindTracker
)

var kindNames = [...]string{
	KindSlot:       "slot",
	KindItemGet:    "item",
	KindOption:     "option",
	KindTrigger:    "trigger",
	KindCondition:  "condition",
	KindBoss:       "boss",
	KindConnection: "connection",
	KindLocation:   "location",
	KindArea:       "area",
	KindTracker:    "tracker",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Mode selects which edge variant a node reports.
type Mode int

const (
	// ModeNormal is used when shuffling.
	ModeNormal Mode = iota
	// ModeTracker keeps tracker-only alternatives for live game tracking.
	ModeTracker
)

// Edge is one AND-clause: Target is reachable once every node in Deps is.
type Edge struct {
	Target ID
	Deps   []ID
}

// EdgeOf builds an edge on target requiring all of deps.
func EdgeOf(target ID, deps ...ID) Edge {
	return Edge{Target: target, Deps: deps}
}

// Always is the requirement list with a single empty alternative.
// Nodes with this requirement are reachable unconditionally.
func Always() [][]ID { return [][]ID{{}} }

// Node is implemented only by the node types of this package.
type Node interface {
	ID() ID
	Name() string
	Kind() Kind
	// Edges returns the node's current requirement as a list of AND-clauses.
	Edges(mode Mode) []Edge

	bind(id ID) bool
}

type base struct {
	id    ID
	bound bool
	label string
}

func newBase(label string) base { return base{id: None, label: label} }

func (b *base) ID() ID       { return b.id }
func (b *base) Name() string { return b.label }

func (b *base) bind(id ID) bool {
	if b.bound {
		return false
	}
	b.id, b.bound = id, true
	return true
}

func requirementEdges(target ID, reqs [][]ID, extra ...ID) []Edge {
	edges := make([]Edge, 0, len(reqs))
	for _, alt := range reqs {
		deps := make([]ID, 0, len(alt)+len(extra))
		deps = append(deps, extra...)
		deps = append(deps, alt...)
		edges = append(edges, Edge{Target: target, Deps: deps})
	}
	return edges
}

// =============================================================================
// Placement vocabulary
// =============================================================================

// Inventory classifies an item for placement rules.
type Inventory int

const (
	InventoryNormal Inventory = iota
	InventoryKey
	InventoryConsumable
	InventoryMimic
)

// Slot is a placement location for exactly one item.
type Slot struct {
	base

	// Location is where the slot physically sits.
	Location ID
	// Requires lists extra alternatives on top of reaching Location.
	// Nil means reaching Location is enough.
	Requires [][]ID
	// Vanilla is the item originally found here, or None.
	Vanilla ID

	Fixed    bool // never shuffled, keeps Vanilla
	Chest    bool
	BossDrop bool
	Mimic    bool // may hold a mimic
	Win      bool // the terminal goal; never receives a pool item

	item     ID
	assigned bool
}

// NewSlot returns a slot at loc.
func NewSlot(label string, loc ID) *Slot {
	return &Slot{base: newBase(label), Location: loc, Vanilla: None, item: None}
}

// Kind returns [KindSlot].
func (s *Slot) Kind() Kind { return KindSlot }

// Edges requires the slot's location plus any extra alternative.
func (s *Slot) Edges(Mode) []Edge {
	if s.Location == None {
		return requirementEdges(s.id, s.Requires)
	}
	if s.Requires == nil {
		return []Edge{EdgeOf(s.id, s.Location)}
	}
	return requirementEdges(s.id, s.Requires, s.Location)
}

// Assign records the item placed into the slot.
func (s *Slot) Assign(item ID) { s.item, s.assigned = item, true }

// Item returns the assigned item, if any.
func (s *Slot) Item() (ID, bool) { return s.item, s.assigned }

// ItemGet is an obtainable item.
type ItemGet struct {
	base

	// Weight is the number of copies of this item in the shuffle order.
	Weight    int
	Inventory Inventory
}

// NewItemGet returns an item with the given shuffle weight.
func NewItemGet(label string, weight int) *ItemGet {
	return &ItemGet{base: newBase(label), Weight: weight}
}

// Kind returns [KindItemGet].
func (i *ItemGet) Kind() Kind { return KindItemGet }

// Edges is empty: items are primitive terms.
func (i *ItemGet) Edges(Mode) []Edge { return nil }

// =============================================================================
// Eliminated nodes
// =============================================================================

// Option is a world toggle. An enabled option is unconditionally reachable.
type Option struct {
	base
	Enabled bool
}

// NewOption returns an option that is on when enabled is true.
func NewOption(label string, enabled bool) *Option {
	return &Option{base: newBase(label), Enabled: enabled}
}

// Kind returns [KindOption].
func (o *Option) Kind() Kind { return KindOption }

// Edges is one unconditional edge when enabled, none otherwise.
func (o *Option) Edges(Mode) []Edge {
	if !o.Enabled {
		return nil
	}
	return []Edge{EdgeOf(o.id)}
}

// Trigger is a one-shot event.
type Trigger struct {
	base
	Requires [][]ID
}

// NewTrigger returns a trigger fired by any of the requires alternatives.
func NewTrigger(label string, requires [][]ID) *Trigger {
	return &Trigger{base: newBase(label), Requires: requires}
}

// Kind returns [KindTrigger].
func (t *Trigger) Kind() Kind { return KindTrigger }

// Edges has one edge per requirement alternative.
func (t *Trigger) Edges(Mode) []Edge { return requirementEdges(t.id, t.Requires) }

// Condition is a branching precondition.
type Condition struct {
	base
	Requires [][]ID
	// TrackerRequires replaces Requires in tracker mode when non-nil.
	TrackerRequires [][]ID
}

// NewCondition returns a condition met by any of the requires alternatives.
func NewCondition(label string, requires [][]ID) *Condition {
	return &Condition{base: newBase(label), Requires: requires}
}

// Kind returns [KindCondition].
func (c *Condition) Kind() Kind { return KindCondition }

// Edges uses TrackerRequires in tracker mode when it is set.
func (c *Condition) Edges(mode Mode) []Edge {
	if mode == ModeTracker && c.TrackerRequires != nil {
		return requirementEdges(c.id, c.TrackerRequires)
	}
	return requirementEdges(c.id, c.Requires)
}

// Boss gates progress out of the location it guards.
type Boss struct {
	base
	// Location is the place the boss is fought in, or None.
	Location ID
	Requires [][]ID
}

// NewBoss returns a boss beaten with any of the requires alternatives.
func NewBoss(label string, requires [][]ID) *Boss {
	return &Boss{base: newBase(label), Location: None, Requires: requires}
}

// Kind returns [KindBoss].
func (b *Boss) Kind() Kind { return KindBoss }

// Edges adds the boss's location to every alternative when it has one.
func (b *Boss) Edges(Mode) []Edge {
	if b.Location == None {
		return requirementEdges(b.id, b.Requires)
	}
	return requirementEdges(b.id, b.Requires, b.Location)
}

// Connection is a map edge from one location to another.
type Connection struct {
	base
	From, To      ID
	Deps          []ID
	Bidirectional bool
}

// NewConnection returns a one-way connection usable once deps are held.
func NewConnection(label string, from, to ID, deps ...ID) *Connection {
	return &Connection{base: newBase(label), From: from, To: to, Deps: deps}
}

// Kind returns [KindConnection].
func (c *Connection) Kind() Kind { return KindConnection }

// Edges reports when the connection itself is usable from its source.
func (c *Connection) Edges(Mode) []Edge {
	deps := append([]ID{c.From}, c.Deps...)
	return []Edge{{Target: c.id, Deps: deps}}
}

// Location is a physical place. Its reachability is derived from
// connections, never from edges.
type Location struct {
	base
	Start bool
	// Boss is the boss guarding exits from this location, or None.
	Boss ID
}

// NewLocation returns a location. Start locations are reachable from the outset.
func NewLocation(label string, start bool) *Location {
	return &Location{base: newBase(label), Start: start, Boss: None}
}

// Kind returns [KindLocation].
func (l *Location) Kind() Kind { return KindLocation }

// Edges is empty: location routes come from the map walk.
func (l *Location) Edges(Mode) []Edge { return nil }

// Area groups locations; it is reachable when any member is.
type Area struct {
	base
	Locations []ID
}

// NewArea returns an area over the given locations.
func NewArea(label string, locations ...ID) *Area {
	return &Area{base: newBase(label), Locations: locations}
}

// Kind returns [KindArea].
func (a *Area) Kind() Kind { return KindArea }

// Edges has one edge per member location.
func (a *Area) Edges(Mode) []Edge {
	edges := make([]Edge, 0, len(a.Locations))
	for _, loc := range a.Locations {
		edges = append(edges, EdgeOf(a.id, loc))
	}
	return edges
}

// TrackerNode is eliminated when shuffling and kept as a primitive term in
// tracker mode.
type TrackerNode struct {
	base
	Requires        [][]ID
	TrackerRequires [][]ID
}

// NewTrackerNode returns a tracker node with its shuffle-mode requirements.
func NewTrackerNode(label string, requires [][]ID) *TrackerNode {
	return &TrackerNode{base: newBase(label), Requires: requires}
}

// Kind returns [KindTracker].
func (t *TrackerNode) Kind() Kind { return KindTracker }

// Edges uses TrackerRequires in tracker mode when it is set.
func (t *TrackerNode) Edges(mode Mode) []Edge {
	if mode == ModeTracker && t.TrackerRequires != nil {
		return requirementEdges(t.id, t.TrackerRequires)
	}
	return requirementEdges(t.id, t.Requires)
}
