// Package shuffle runs the complete world → reduction → placement pipeline.
//
// It is shared by the CLI and the HTTP server so both agree on defaults,
// caching and error codes.
//
// # Stages
//
//  1. Reduce: parse the world file, integrate it into a location list
//     (cached by world hash) and audit it.
//  2. Place: run up to MaxAttempts assumed-fill attempts, Parallelism at a
//     time. Attempt i uses seed Seed+i, and the lowest-numbered successful
//     attempt wins, so the result depends only on the seed.
//  3. Apply: write the chosen items into the world's slots.
//
// # Usage
//
//	runner := shuffle.NewRunner(cache, nil, logger)
//	result, err := runner.Run(ctx, shuffle.Options{Source: data, Seed: 7})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Assignment["hall_chest"])
package shuffle

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/itemshuffle/pkg/errors"
	"github.com/matzehuels/itemshuffle/pkg/fill"
	"github.com/matzehuels/itemshuffle/pkg/logic"
	"github.com/matzehuels/itemshuffle/pkg/world"
	"github.com/matzehuels/itemshuffle/pkg/worldfile"
)

const (
	// DefaultMaxAttempts is the number of placement attempts before a run
	// gives up.
	DefaultMaxAttempts = 100

	// LimitMaxAttempts caps MaxAttempts for untrusted callers.
	LimitMaxAttempts = 10000

	// DefaultParallelism is the number of attempts run concurrently.
	DefaultParallelism = 4

	// LimitParallelism caps Parallelism.
	LimitParallelism = 64
)

// Options configures a run.
type Options struct {
	// Source is the TOML world file.
	Source []byte `json:"-"`

	Seed        uint64 `json:"seed"`
	MaxAttempts int    `json:"max_attempts,omitempty"`
	Parallelism int    `json:"parallelism,omitempty"`
	Tracker     bool   `json:"tracker,omitempty"`

	// MaxAlternatives bounds a single substitution during integration.
	MaxAlternatives int `json:"max_alternatives,omitempty"`

	// Refresh bypasses cached results. Fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Strategy overrides the placement order. Runs with a custom strategy
	// are not cached.
	Strategy fill.Strategy `json:"-"`
	Logger   *log.Logger   `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateWorldSource(o.Source); err != nil {
		return err
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if err := errors.ValidateAttempts("max_attempts", o.MaxAttempts, LimitMaxAttempts); err != nil {
		return err
	}
	if o.Parallelism == 0 {
		o.Parallelism = DefaultParallelism
	}
	if err := errors.ValidateAttempts("parallelism", o.Parallelism, LimitParallelism); err != nil {
		return err
	}
	if o.MaxAlternatives < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_alternatives cannot be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Audit is [logic.Report] with node names instead of indices.
type Audit struct {
	NoRoutes     []string `json:"no_routes,omitempty"`
	Unreachable  []string `json:"unreachable,omitempty"`
	WinReachable bool     `json:"win_reachable"`
}

// OK reports whether every slot can be reached with every item held.
func (a Audit) OK() bool { return len(a.Unreachable) == 0 && a.WinReachable }

func namedAudit(g *world.Graph, ll *logic.LocationList, rep logic.Report) Audit {
	names := func(locs []int) []string {
		var out []string
		for _, loc := range locs {
			out = append(out, g.Name(ll.Location(loc)))
		}
		return out
	}
	return Audit{
		NoRoutes:     names(rep.NoRoutes),
		Unreachable:  names(rep.Unreachable),
		WinReachable: rep.WinReachable,
	}
}

// Reduction is the result of [Runner.Reduce].
type Reduction struct {
	WorldHash string        `json:"world_hash"`
	Locations int           `json:"locations"`
	Items     int           `json:"items"`
	Audit     Audit         `json:"audit"`
	Duration  time.Duration `json:"duration"`
	CacheHit  bool          `json:"cache_hit"`

	World *worldfile.World    `json:"-"`
	List  *logic.LocationList `json:"-"`
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string `json:"run_id"`
	WorldHash string `json:"world_hash"`
	Seed      uint64 `json:"seed"`

	// Attempts is the number of the successful attempt, counting from one.
	Attempts int `json:"attempts"`

	// Assignment maps slot names to item names. Slots left empty are absent.
	Assignment map[string]string `json:"assignment"`

	// Spheres lists slot names by the round in which a player following
	// the placement reaches them.
	Spheres [][]string `json:"spheres"`

	Audit     Audit     `json:"audit"`
	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`

	// World has the placement applied to its slots.
	World *worldfile.World    `json:"-"`
	List  *logic.LocationList `json:"-"`
}

// Stats contains run statistics.
type Stats struct {
	Locations     int           `json:"locations"`
	Items         int           `json:"items"`
	IntegrateTime time.Duration `json:"integrate_time"`
	PlaceTime     time.Duration `json:"place_time"`
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	ReductionHit bool `json:"reduction_hit"`
	PlacementHit bool `json:"placement_hit"`
}

// Apply writes the items of filling into the slots of g. Empty locations
// are left untouched.
func Apply(g *world.Graph, ll *logic.LocationList, filling fill.Filling) error {
	for loc, item := range filling {
		if item == fill.Empty {
			continue
		}
		uid := ll.Location(loc)
		n, _ := g.Node(uid)
		s, ok := n.(*world.Slot)
		if !ok {
			return fmt.Errorf("location %d (#%d): %w", loc, int(uid), world.ErrWrongKind)
		}
		s.Assign(ll.Item(item).UID)
	}
	return nil
}

func assignment(g *world.Graph, ll *logic.LocationList, filling fill.Filling) map[string]string {
	out := make(map[string]string)
	for loc, item := range filling {
		if item != fill.Empty {
			out[g.Name(ll.Location(loc))] = g.Name(ll.Item(item).UID)
		}
	}
	return out
}

func spheres(g *world.Graph, ll *logic.LocationList, p fill.Playthrough) [][]string {
	out := make([][]string, len(p.Spheres))
	for i, sphere := range p.Spheres {
		for _, loc := range sphere {
			out[i] = append(out[i], g.Name(ll.Location(loc)))
		}
	}
	return out
}
