package resolve

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/itemshuffle/pkg/bitset"
	"github.com/matzehuels/itemshuffle/pkg/world"
)

var (
	// ErrEmptyRoute is returned by [Resolver.AddRoute] for a path without a target.
	ErrEmptyRoute = errors.New("route has no target")

	// ErrAlreadyFinalized is returned by [Resolver.Finalize] for a node that
	// is already frozen.
	ErrAlreadyFinalized = errors.New("node already finalized")

	// ErrRouteAfterFinalize is returned by [Resolver.AddRoute] when the
	// target has been finalized.
	ErrRouteAfterFinalize = errors.New("route added to finalized node")

	// ErrTooManyAlternatives is returned when substitution produces more
	// alternatives than [Resolver.MaxAlternatives].
	ErrTooManyAlternatives = errors.New("too many alternatives")
)

// Route is one recorded AND-clause for a target.
type Route struct {
	// Label is a canonical identifier; equal routes have equal labels.
	Label  string
	Target world.ID
	// Deps holds dependency node IDs.
	Deps bitset.Set
}

func newRoute(target world.ID, deps bitset.Set) Route {
	return Route{
		Label:  strconv.Itoa(int(target)) + ":" + deps.Label(),
		Target: target,
		Deps:   deps,
	}
}

// Stats summarizes resolver state for diagnostics.
type Stats struct {
	Targets   int
	Routes    int
	Finalized int
}

// Resolver accumulates alternative routes per target and eliminates
// finalized nodes. The zero value is not usable; use [New].
type Resolver struct {
	// MaxAlternatives bounds the number of alternatives a single
	// substitution may produce. Zero means unbounded.
	MaxAlternatives int

	routes    map[world.ID][]Route
	finalized map[world.ID]bool
	memo      map[world.ID][]bitset.Set
}

// New creates an empty resolver.
func New() *Resolver {
	return &Resolver{
		routes:    make(map[world.ID][]Route),
		finalized: make(map[world.ID]bool),
		memo:      make(map[world.ID][]bitset.Set),
	}
}

// AddRoute records path[1:] as one sufficient AND-clause for path[0].
// Dependencies that are already finalized are replaced by their
// alternatives, so one call may record several routes. Only routes that
// are new (not subsumed by an existing route) are returned.
func (r *Resolver) AddRoute(path ...world.ID) ([]Route, error) {
	if len(path) == 0 {
		return nil, ErrEmptyRoute
	}
	target := path[0]
	if r.finalized[target] {
		return nil, fmt.Errorf("%w: #%d", ErrRouteAfterFinalize, int(target))
	}

	combos := []bitset.Set{bitset.Of()}
	for _, dep := range path[1:] {
		if dep == target {
			return nil, nil
		}
		alts, err := r.Expand(dep)
		if err != nil {
			return nil, fmt.Errorf("route to #%d: %w", int(target), err)
		}
		next, err := r.product(combos, alts)
		if err != nil {
			return nil, fmt.Errorf("route to #%d: %w", int(target), err)
		}
		combos = next
		if len(combos) == 0 {
			return nil, nil
		}
	}

	var added []Route
	for _, deps := range combos {
		if deps.Has(int(target)) {
			continue
		}
		if route, ok := r.record(target, deps); ok {
			added = append(added, route)
		}
	}
	return added, nil
}

// AddEdge is a convenience wrapper for [Resolver.AddRoute] on a world edge.
func (r *Resolver) AddEdge(e world.Edge) ([]Route, error) {
	path := make([]world.ID, 0, len(e.Deps)+1)
	path = append(path, e.Target)
	path = append(path, e.Deps...)
	return r.AddRoute(path...)
}

// record stores deps as a route on target unless an existing route is a
// subset of it. Existing routes that are supersets of deps are removed.
func (r *Resolver) record(target world.ID, deps bitset.Set) (Route, bool) {
	existing := r.routes[target]
	kept := existing[:0:0]
	for _, old := range existing {
		if deps.ContainsAll(old.Deps) {
			return Route{}, false
		}
		if !old.Deps.ContainsAll(deps) {
			kept = append(kept, old)
		}
	}
	route := newRoute(target, deps)
	r.routes[target] = append(kept, route)
	return route, true
}

// Finalize freezes id. Its current routes become its permanent alternatives
// and every later route that depends on id is expanded through them.
func (r *Resolver) Finalize(id world.ID) error {
	if r.finalized[id] {
		return fmt.Errorf("%w: #%d", ErrAlreadyFinalized, int(id))
	}
	r.finalized[id] = true
	// Cached expansions may hold id as a raw term.
	clear(r.memo)
	return nil
}

// IsFinalized reports whether id has been frozen.
func (r *Resolver) IsFinalized(id world.ID) bool { return r.finalized[id] }

// Routes returns the routes recorded for target, without further expansion.
func (r *Resolver) Routes(target world.ID) []Route {
	return append([]Route(nil), r.routes[target]...)
}

// Stats returns counts for diagnostics.
func (r *Resolver) Stats() Stats {
	s := Stats{Targets: len(r.routes), Finalized: len(r.finalized)}
	for _, routes := range r.routes {
		s.Routes += len(routes)
	}
	return s
}

// Expand returns the alternatives of id with every finalized node
// substituted. An unfinalized node expands to itself. A finalized node with
// no routes expands to no alternatives (it can never be reached).
// Every substitution is bounded by MaxAlternatives.
func (r *Resolver) Expand(id world.ID) ([]bitset.Set, error) {
	e := expansion{r: r, depth: make(map[world.ID]int)}
	alts, _, err := e.expand(id)
	if err != nil {
		return nil, fmt.Errorf("expand #%d: %w", int(id), err)
	}
	return alts, nil
}

type expansion struct {
	r     *Resolver
	depth map[world.ID]int
}

// expand returns the alternatives of id and the shallowest stack depth of a
// node whose expansion was cut short because it was already in progress.
// Results are memoized only when no cut reaches above id.
func (e *expansion) expand(id world.ID) ([]bitset.Set, int, error) {
	if !e.r.finalized[id] {
		return []bitset.Set{bitset.From(int(id))}, math.MaxInt, nil
	}
	if alts, ok := e.r.memo[id]; ok {
		return alts, math.MaxInt, nil
	}
	if d, onStack := e.depth[id]; onStack {
		return nil, d, nil
	}

	own := len(e.depth)
	e.depth[id] = own
	defer delete(e.depth, id)

	cut := math.MaxInt
	var out []bitset.Set
	for _, route := range e.r.routes[id] {
		combos := []bitset.Set{bitset.Of()}
		for dep := range route.Deps.Bits() {
			sub, c, err := e.expand(world.ID(dep))
			if err != nil {
				return nil, 0, err
			}
			cut = min(cut, c)
			next, err := e.r.product(combos, sub)
			if err != nil {
				return nil, 0, err
			}
			combos = next
			if len(combos) == 0 {
				break
			}
		}
		for _, c := range combos {
			if !c.Has(int(id)) {
				out = append(out, c)
			}
		}
	}
	out = minimize(out)
	if cut >= own {
		e.r.memo[id] = out
		cut = math.MaxInt
	}
	return out, cut, nil
}

func (r *Resolver) product(left, right []bitset.Set) ([]bitset.Set, error) {
	if r.MaxAlternatives > 0 && len(left)*len(right) > r.MaxAlternatives {
		return nil, fmt.Errorf("%w: %d × %d exceeds %d", ErrTooManyAlternatives, len(left), len(right), r.MaxAlternatives)
	}
	return crossProduct(left, right), nil
}

// crossProduct returns the pairwise unions of left and right, minimized.
func crossProduct(left, right []bitset.Set) []bitset.Set {
	if len(left) == 0 || len(right) == 0 {
		return nil
	}
	out := make([]bitset.Set, 0, len(left)*len(right))
	for _, l := range left {
		for _, rt := range right {
			out = append(out, l.Union(rt))
		}
	}
	return minimize(out)
}

// minimize drops duplicates and any set that is a superset of another,
// preserving the order of the survivors.
func minimize(sets []bitset.Set) []bitset.Set {
	if len(sets) < 2 {
		return sets
	}
	out := make([]bitset.Set, 0, len(sets))
	for i, s := range sets {
		redundant := false
		for j, other := range sets {
			if i == j || !s.ContainsAll(other) {
				continue
			}
			// Equal sets: keep the first occurrence only.
			if other.ContainsAll(s) && j > i {
				continue
			}
			redundant = true
			break
		}
		if !redundant {
			out = append(out, s)
		}
	}
	return out
}
