package integrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/itemshuffle/pkg/bitset"
	"github.com/matzehuels/itemshuffle/pkg/logic"
	"github.com/matzehuels/itemshuffle/pkg/resolve"
	"github.com/matzehuels/itemshuffle/pkg/world"
)

var (
	// ErrUnknownKind is returned for a node whose concrete type is not one
	// of the world node types.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrWinSlot is returned when the graph does not have exactly one win slot.
	ErrWinSlot = errors.New("graph must have exactly one win slot")

	// ErrGrantedNotInGraph is returned when [Options.Granted] is not a node
	// of the graph being integrated.
	ErrGrantedNotInGraph = errors.New("granted item is not registered in this graph")

	// ErrUnresolved is returned when a slot alternative still names a node
	// that is neither an item nor a retained tracker node.
	ErrUnresolved = errors.New("slot alternative references an eliminated node")
)

// Options configures a reduction.
type Options struct {
	// Tracker keeps tracker nodes as primitive terms and uses the tracker
	// variant of node requirements.
	Tracker bool

	// Granted is an item that is held from the start. It is given an
	// unconditional route before any other category is eliminated and stays
	// in the placement pool. Nil disables the grant.
	Granted *world.ItemGet

	// MaxAlternatives bounds a single substitution. Zero means unbounded.
	MaxAlternatives int

	// Logger receives per-phase debug output. Nil uses log.Default().
	Logger *log.Logger
}

// Integrate reduces g to a location list. The graph is only read.
func Integrate(ctx context.Context, g *world.Graph, opts Options) (*logic.LocationList, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	p, err := partition(g)
	if err != nil {
		return nil, err
	}

	in := &integrator{
		g:    g,
		r:    resolve.New(),
		mode: world.ModeNormal,
		log:  opts.Logger,
	}
	if in.log == nil {
		in.log = log.Default()
	}
	if opts.Tracker {
		in.mode = world.ModeTracker
	}
	in.r.MaxAlternatives = opts.MaxAlternatives
	start := time.Now()

	// Phase 1: start locations.
	starts := 0
	for _, loc := range p.locations {
		if !loc.Start {
			continue
		}
		if _, err := in.r.AddRoute(loc.ID()); err != nil {
			return nil, err
		}
		starts++
	}
	in.log.Debug("seeded start locations", "count", starts)

	// Phase 2: granted item.
	if it := opts.Granted; it != nil {
		if n, ok := g.Node(it.ID()); !ok || n != world.Node(it) {
			return nil, fmt.Errorf("%w: %q", ErrGrantedNotInGraph, it.Name())
		}
		if _, err := in.r.AddRoute(it.ID()); err != nil {
			return nil, err
		}
		if err := in.r.Finalize(it.ID()); err != nil {
			return nil, err
		}
		in.log.Debug("granted item", "item", it.Name())
	}

	// Phase 3: leaf-like categories.
	if err := in.eliminate(ctx, "options", p.options); err != nil {
		return nil, err
	}
	if !opts.Tracker {
		if err := in.eliminate(ctx, "trackers", p.trackers); err != nil {
			return nil, err
		}
	}
	if err := in.eliminate(ctx, "triggers", p.triggers); err != nil {
		return nil, err
	}

	// Phase 4: map.
	if err := in.walkMap(ctx, p); err != nil {
		return nil, err
	}

	// Phase 5: conditions.
	if err := in.eliminate(ctx, "conditions", p.conditions); err != nil {
		return nil, err
	}

	// Phase 6: everything else.
	rest := 0
	for _, n := range g.Nodes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch n.Kind() {
		case world.KindItemGet, world.KindTracker:
			continue
		}
		if in.r.IsFinalized(n.ID()) {
			continue
		}
		if n.Kind() != world.KindLocation {
			if err := in.feed(n); err != nil {
				return nil, err
			}
		}
		if err := in.r.Finalize(n.ID()); err != nil {
			return nil, err
		}
		rest++
	}
	in.log.Debug("eliminated remaining nodes", "count", rest)

	// Phase 7: read back.
	ll, err := in.build(ctx, p)
	if err != nil {
		return nil, err
	}
	stats := in.r.Stats()
	in.log.Debug("integrated graph",
		"locations", ll.NumLocations(),
		"items", ll.NumItems(),
		"routes", stats.Routes,
		"duration", time.Since(start))
	return ll, nil
}

// =============================================================================
// Partition
// =============================================================================

type parts struct {
	slots       []*world.Slot
	items       []*world.ItemGet
	options     []world.Node
	triggers    []world.Node
	conditions  []world.Node
	trackers    []world.Node
	bosses      []*world.Boss
	connections []*world.Connection
	locations   []*world.Location
	areas       []*world.Area
}

func partition(g *world.Graph) (*parts, error) {
	p := &parts{}
	for _, n := range g.Nodes() {
		switch n := n.(type) {
		case *world.Slot:
			p.slots = append(p.slots, n)
		case *world.ItemGet:
			p.items = append(p.items, n)
		case *world.Option:
			p.options = append(p.options, n)
		case *world.Trigger:
			p.triggers = append(p.triggers, n)
		case *world.Condition:
			p.conditions = append(p.conditions, n)
		case *world.TrackerNode:
			p.trackers = append(p.trackers, n)
		case *world.Boss:
			p.bosses = append(p.bosses, n)
		case *world.Connection:
			p.connections = append(p.connections, n)
		case *world.Location:
			p.locations = append(p.locations, n)
		case *world.Area:
			p.areas = append(p.areas, n)
		default:
			return nil, fmt.Errorf("%w: %T %q", ErrUnknownKind, n, n.Name())
		}
	}
	return p, nil
}

// =============================================================================
// Elimination
// =============================================================================

type integrator struct {
	g    *world.Graph
	r    *resolve.Resolver
	mode world.Mode
	log  *log.Logger
}

func (in *integrator) feed(n world.Node) error {
	for _, e := range n.Edges(in.mode) {
		if _, err := in.r.AddEdge(e); err != nil {
			return fmt.Errorf("%s %q: %w", n.Kind(), n.Name(), err)
		}
	}
	return nil
}

func (in *integrator) eliminate(ctx context.Context, phase string, nodes []world.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, n := range nodes {
		if err := in.feed(n); err != nil {
			return err
		}
		if err := in.r.Finalize(n.ID()); err != nil {
			return err
		}
	}
	in.log.Debug("eliminated "+phase, "count", len(nodes))
	return nil
}

type arc struct {
	to   world.ID
	deps []world.ID
}

// walkMap derives location routes from start locations outward.
func (in *integrator) walkMap(ctx context.Context, p *parts) error {
	arcs := make(map[world.ID][]arc)
	for _, c := range p.connections {
		arcs[c.From] = append(arcs[c.From], arc{to: c.To, deps: c.Deps})
		if c.Bidirectional {
			arcs[c.To] = append(arcs[c.To], arc{to: c.From, deps: c.Deps})
		}
	}
	guards := make(map[world.ID][][]world.ID)
	for _, loc := range p.locations {
		if loc.Boss == world.None {
			continue
		}
		n, _ := in.g.Node(loc.Boss)
		guards[loc.ID()] = n.(*world.Boss).Requires
	}

	var queue []resolve.Route
	for _, loc := range p.locations {
		if loc.Start {
			queue = append(queue, in.r.Routes(loc.ID())...)
		}
	}

	steps := 0
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		route := queue[0]
		queue = queue[1:]
		steps++

		held := ids(route.Deps)
		alts := [][]world.ID{nil}
		if req, ok := guards[route.Target]; ok {
			alts = req
		}
		for _, a := range arcs[route.Target] {
			for _, guard := range alts {
				path := make([]world.ID, 0, 1+len(held)+len(a.deps)+len(guard))
				path = append(path, a.to)
				path = append(path, held...)
				path = append(path, a.deps...)
				path = append(path, guard...)
				added, err := in.r.AddRoute(path...)
				if err != nil {
					return fmt.Errorf("location %q: %w", in.g.Name(a.to), err)
				}
				queue = append(queue, added...)
			}
		}
	}
	in.log.Debug("walked map", "locations", len(p.locations), "connections", len(p.connections), "steps", steps)
	return nil
}

// build reads every slot's expanded alternatives into a fresh location list.
func (in *integrator) build(ctx context.Context, p *parts) (*logic.LocationList, error) {
	ll := logic.NewLocationList()
	var wins []*world.Slot
	for _, s := range p.slots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		alts, err := in.r.Expand(s.ID())
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", s.Name(), err)
		}
		ll.AddLocation(s.ID())
		for _, alt := range alts {
			deps := ids(alt)
			for _, d := range deps {
				if k := in.kind(d); k != world.KindItemGet && k != world.KindTracker {
					return nil, fmt.Errorf("%w: slot %q needs %s %q", ErrUnresolved, s.Name(), k, in.g.Name(d))
				}
			}
			ll.AddRoute(s.ID(), deps)
		}
		if s.Win {
			wins = append(wins, s)
		}
	}
	if len(wins) != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrWinSlot, len(wins))
	}
	if err := ll.SetWin(wins[0].ID()); err != nil {
		return nil, err
	}
	for _, it := range p.items {
		ll.AddItem(it.ID(), it.Weight, true)
	}
	return ll, nil
}

func (in *integrator) kind(id world.ID) world.Kind {
	n, _ := in.g.Node(id)
	return n.Kind()
}

func ids(s bitset.Set) []world.ID {
	out := make([]world.ID, 0, s.Len())
	for i := range s.Bits() {
		out = append(out, world.ID(i))
	}
	return out
}
