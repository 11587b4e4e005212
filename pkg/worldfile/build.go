package worldfile

import (
	"fmt"

	"github.com/matzehuels/itemshuffle/pkg/world"
)

// World is a built world file.
type World struct {
	Graph *world.Graph
	// Granted is nil unless the file names a granted item.
	Granted *world.ItemGet

	ids map[string]world.ID
}

// ID returns the node registered under name.
func (w *World) ID(name string) (world.ID, bool) {
	id, ok := w.ids[name]
	return id, ok
}

// Load reads, parses and builds the world file at path.
func Load(path string) (*World, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

var inventories = map[string]world.Inventory{
	"":           world.InventoryNormal,
	"normal":     world.InventoryNormal,
	"key":        world.InventoryKey,
	"consumable": world.InventoryConsumable,
	"mimic":      world.InventoryMimic,
}

type builder struct {
	w *World
}

func (b *builder) register(n world.Node) error {
	name := n.Name()
	if name == "" {
		return fmt.Errorf("%s without a name", n.Kind())
	}
	if _, dup := b.w.ids[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	id, err := b.w.Graph.Add(n)
	if err != nil {
		return err
	}
	b.w.ids[name] = id
	return nil
}

func (b *builder) ref(name string) (world.ID, error) {
	id, ok := b.w.ids[name]
	if !ok {
		return world.None, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return id, nil
}

// optionalRef resolves name, or returns None for an empty name.
func (b *builder) optionalRef(name string) (world.ID, error) {
	if name == "" {
		return world.None, nil
	}
	return b.ref(name)
}

func (b *builder) refs(names []string) ([]world.ID, error) {
	out := make([]world.ID, 0, len(names))
	for _, name := range names {
		id, err := b.ref(name)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// requirement resolves r. A nil r yields def.
func (b *builder) requirement(r Requirement, def [][]world.ID) ([][]world.ID, error) {
	if r == nil {
		return def, nil
	}
	out := make([][]world.ID, 0, len(r))
	for _, alt := range r {
		ids, err := b.refs(alt)
		if err != nil {
			return nil, err
		}
		out = append(out, ids)
	}
	return out, nil
}

// Build registers every node of f in a fresh graph and resolves references
// by name. Nodes are registered by table, in the order items, options,
// triggers, conditions, trackers, bosses, locations, connections, areas,
// slots; within a table in file order. The resulting graph is validated.
func (f *File) Build() (*World, error) {
	b := &builder{w: &World{Graph: world.New(), ids: make(map[string]world.ID)}}

	// Pass 1: register every node so that references may point forward.
	items := make([]*world.ItemGet, len(f.Items))
	for i, d := range f.Items {
		inv, ok := inventories[d.Inventory]
		if !ok {
			return nil, fmt.Errorf("item %q: %w: %q", d.Name, ErrUnknownInventory, d.Inventory)
		}
		weight := d.Weight
		if weight == 0 {
			weight = 1
		}
		items[i] = world.NewItemGet(d.Name, weight)
		items[i].Inventory = inv
	}
	options := make([]*world.Option, len(f.Options))
	for i, d := range f.Options {
		options[i] = world.NewOption(d.Name, d.Enabled)
	}
	triggers := make([]*world.Trigger, len(f.Triggers))
	for i, d := range f.Triggers {
		triggers[i] = world.NewTrigger(d.Name, nil)
	}
	conditions := make([]*world.Condition, len(f.Conditions))
	for i, d := range f.Conditions {
		conditions[i] = world.NewCondition(d.Name, nil)
	}
	trackers := make([]*world.TrackerNode, len(f.Trackers))
	for i, d := range f.Trackers {
		trackers[i] = world.NewTrackerNode(d.Name, nil)
	}
	bosses := make([]*world.Boss, len(f.Bosses))
	for i, d := range f.Bosses {
		bosses[i] = world.NewBoss(d.Name, nil)
	}
	locations := make([]*world.Location, len(f.Locations))
	for i, d := range f.Locations {
		locations[i] = world.NewLocation(d.Name, d.Start)
	}
	connections := make([]*world.Connection, len(f.Connections))
	for i, d := range f.Connections {
		name := d.Name
		if name == "" {
			name = d.From + "->" + d.To
		}
		connections[i] = world.NewConnection(name, world.None, world.None)
		connections[i].Bidirectional = d.Bidirectional
	}
	areas := make([]*world.Area, len(f.Areas))
	for i, d := range f.Areas {
		areas[i] = world.NewArea(d.Name)
	}
	slots := make([]*world.Slot, len(f.Slots))
	for i, d := range f.Slots {
		s := world.NewSlot(d.Name, world.None)
		s.Fixed, s.Chest, s.BossDrop, s.Mimic, s.Win = d.Fixed, d.Chest, d.BossDrop, d.Mimic, d.Win
		slots[i] = s
	}

	var all []world.Node
	for _, it := range items {
		all = append(all, it)
	}
	for _, n := range options {
		all = append(all, n)
	}
	for _, n := range triggers {
		all = append(all, n)
	}
	for _, n := range conditions {
		all = append(all, n)
	}
	for _, n := range trackers {
		all = append(all, n)
	}
	for _, n := range bosses {
		all = append(all, n)
	}
	for _, n := range locations {
		all = append(all, n)
	}
	for _, n := range connections {
		all = append(all, n)
	}
	for _, n := range areas {
		all = append(all, n)
	}
	for _, n := range slots {
		all = append(all, n)
	}
	for _, n := range all {
		if err := b.register(n); err != nil {
			return nil, err
		}
	}

	// Pass 2: resolve references.
	var err error
	wrap := func(n world.Node, err error) error {
		return fmt.Errorf("%s %q: %w", n.Kind(), n.Name(), err)
	}
	for i, d := range f.Triggers {
		if triggers[i].Requires, err = b.requirement(d.Requires, world.Always()); err != nil {
			return nil, wrap(triggers[i], err)
		}
	}
	for i, d := range f.Conditions {
		c := conditions[i]
		if c.Requires, err = b.requirement(d.Requires, world.Always()); err != nil {
			return nil, wrap(c, err)
		}
		if c.TrackerRequires, err = b.requirement(d.TrackerRequires, nil); err != nil {
			return nil, wrap(c, err)
		}
	}
	for i, d := range f.Trackers {
		t := trackers[i]
		if t.Requires, err = b.requirement(d.Requires, world.Always()); err != nil {
			return nil, wrap(t, err)
		}
		if t.TrackerRequires, err = b.requirement(d.TrackerRequires, nil); err != nil {
			return nil, wrap(t, err)
		}
	}
	for i, d := range f.Bosses {
		bs := bosses[i]
		if bs.Location, err = b.optionalRef(d.Location); err != nil {
			return nil, wrap(bs, err)
		}
		if bs.Requires, err = b.requirement(d.Requires, world.Always()); err != nil {
			return nil, wrap(bs, err)
		}
	}
	for i, d := range f.Locations {
		if locations[i].Boss, err = b.optionalRef(d.Boss); err != nil {
			return nil, wrap(locations[i], err)
		}
	}
	for i, d := range f.Connections {
		c := connections[i]
		if c.From, err = b.ref(d.From); err != nil {
			return nil, wrap(c, err)
		}
		if c.To, err = b.ref(d.To); err != nil {
			return nil, wrap(c, err)
		}
		if c.Deps, err = b.refs(d.Requires); err != nil {
			return nil, wrap(c, err)
		}
	}
	for i, d := range f.Areas {
		if areas[i].Locations, err = b.refs(d.Locations); err != nil {
			return nil, wrap(areas[i], err)
		}
	}
	for i, d := range f.Slots {
		s := slots[i]
		if s.Location, err = b.optionalRef(d.Location); err != nil {
			return nil, wrap(s, err)
		}
		if s.Requires, err = b.requirement(d.Requires, nil); err != nil {
			return nil, wrap(s, err)
		}
		if s.Vanilla, err = b.optionalRef(d.Vanilla); err != nil {
			return nil, wrap(s, err)
		}
	}

	if f.Granted != "" {
		id, err := b.ref(f.Granted)
		if err != nil {
			return nil, fmt.Errorf("granted: %w", err)
		}
		n, _ := b.w.Graph.Node(id)
		it, ok := n.(*world.ItemGet)
		if !ok {
			return nil, fmt.Errorf("granted: %w: %q is a %s", world.ErrWrongKind, f.Granted, n.Kind())
		}
		b.w.Granted = it
	}

	if err := b.w.Graph.Validate(); err != nil {
		return nil, err
	}
	return b.w, nil
}
