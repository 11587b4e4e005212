package shuffle

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/itemshuffle/pkg/cache"
	"github.com/matzehuels/itemshuffle/pkg/errors"
	"github.com/matzehuels/itemshuffle/pkg/fill"
	"github.com/matzehuels/itemshuffle/pkg/integrate"
	"github.com/matzehuels/itemshuffle/pkg/logic"
	"github.com/matzehuels/itemshuffle/pkg/observability"
	"github.com/matzehuels/itemshuffle/pkg/world"
	"github.com/matzehuels/itemshuffle/pkg/worldfile"
)

// Runner executes runs with caching.
//
// A Runner holds no per-run state; it is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Reduce parses and integrates the world in opts.Source.
func (r *Runner) Reduce(ctx context.Context, opts Options) (*Reduction, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	f, err := worldfile.Parse(opts.Source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorld, err, "parse world")
	}
	w, err := f.Build()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorld, err, "build world")
	}

	red := &Reduction{WorldHash: cache.Hash(opts.Source), World: w}
	start := time.Now()
	key := r.Keyer.ReductionKey(red.WorldHash, reductionKeyOpts(w, opts))

	if !opts.Refresh {
		if ll, ok := r.cachedReduction(ctx, key); ok {
			red.List, red.CacheHit = ll, true
		}
	}
	if red.List == nil {
		hooks := observability.Shuffle()
		hooks.OnIntegrateStart(ctx, w.Graph.Len())
		ll, err := integrate.Integrate(ctx, w.Graph, integrate.Options{
			Tracker:         opts.Tracker,
			Granted:         w.Granted,
			MaxAlternatives: opts.MaxAlternatives,
			Logger:          r.Logger,
		})
		if err != nil {
			hooks.OnIntegrateComplete(ctx, 0, 0, time.Since(start), err)
			if ctx.Err() != nil {
				return nil, errors.Wrap(errors.ErrCodeTimeout, err, "integrate")
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "integrate")
		}
		hooks.OnIntegrateComplete(ctx, ll.NumLocations(), ll.NumItems(), time.Since(start), nil)
		red.List = ll
		r.store(ctx, "reduction", key, ll, cache.TTLReduction)
	}

	red.Duration = time.Since(start)
	red.Locations = red.List.NumLocations()
	red.Items = red.List.NumItems()
	red.Audit = namedAudit(w.Graph, red.List, red.List.Audit())

	r.Logger.Info("reduced world",
		"locations", red.Locations,
		"items", red.Items,
		"cached", red.CacheHit,
		"duration", red.Duration)
	for _, name := range red.Audit.Unreachable {
		r.Logger.Warn("slot can never be reached", "slot", name)
	}
	return red, nil
}

// Run reduces the world and places every item.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	red, err := r.Reduce(ctx, opts)
	if err != nil {
		return nil, err
	}
	if !red.Audit.WinReachable {
		return nil, errors.New(errors.ErrCodeUnreachable, "win slot cannot be reached even with every item")
	}

	w, ll := red.World, red.List
	key := r.Keyer.PlacementKey(red.WorldHash, cache.PlacementKeyOpts{
		Seed:        opts.Seed,
		MaxAttempts: opts.MaxAttempts,
		Tracker:     opts.Tracker,
	})
	cacheable := opts.Strategy == nil

	if cacheable && !opts.Refresh {
		if res, ok := r.cachedPlacement(ctx, key, w); ok {
			res.World, res.List = w, ll
			res.CacheInfo = CacheInfo{ReductionHit: red.CacheHit, PlacementHit: true}
			return res, nil
		}
	}

	start := time.Now()
	filling, attempts, err := r.place(ctx, ll, worldfile.Fits(w.Graph, ll), opts)
	observability.Shuffle().OnPlacementComplete(ctx, attempts, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	p := fill.Replay(ll, filling)
	if !p.Complete {
		return nil, errors.New(errors.ErrCodeInternal, "attempt %d produced an incompletable placement", attempts)
	}
	if err := Apply(w.Graph, ll, filling); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "apply placement")
	}

	res := &Result{
		RunID:      uuid.NewString(),
		WorldHash:  red.WorldHash,
		Seed:       opts.Seed,
		Attempts:   attempts,
		Assignment: assignment(w.Graph, ll, filling),
		Spheres:    spheres(w.Graph, ll, p),
		Audit:      red.Audit,
		Stats: Stats{
			Locations:     red.Locations,
			Items:         red.Items,
			IntegrateTime: red.Duration,
			PlaceTime:     time.Since(start),
		},
		CacheInfo: CacheInfo{ReductionHit: red.CacheHit},
		World:     w,
		List:      ll,
	}
	r.Logger.Info("placed items",
		"seed", opts.Seed,
		"attempts", attempts,
		"spheres", len(res.Spheres),
		"duration", res.Stats.PlaceTime)

	if cacheable {
		r.store(ctx, "placement", key, res, cache.TTLPlacement)
	}
	return res, nil
}

// place runs attempts concurrently. Attempts above the best success so far
// are skipped; every attempt below it runs, so the winner is the lowest
// successful attempt regardless of scheduling.
func (r *Runner) place(ctx context.Context, ll *logic.LocationList, fits fill.Fits, opts Options) (fill.Filling, int, error) {
	results := make([]fill.Filling, opts.MaxAttempts)
	var best atomic.Int64
	best.Store(int64(opts.MaxAttempts))

	hooks := observability.Shuffle()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i := range opts.MaxAttempts {
		if int64(i) > best.Load() || gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if int64(i) > best.Load() {
				return nil
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			filling, ok := fill.AssumedFill(ll, fill.NewRandom(opts.Seed+uint64(i)), fits, opts.Strategy)
			hooks.OnAttempt(gctx, i, ok, time.Since(start))
			if !ok {
				r.Logger.Debug("placement attempt failed", "attempt", i+1)
				return nil
			}
			results[i] = filling
			for {
				cur := best.Load()
				if int64(i) >= cur || best.CompareAndSwap(cur, int64(i)) {
					return nil
				}
			}
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	// Attempts below a success may have been skipped once ctx was done.
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeTimeout, err, "placement interrupted")
	}
	if b := int(best.Load()); b < opts.MaxAttempts {
		return results[b], b + 1, nil
	}
	return nil, opts.MaxAttempts, errors.New(errors.ErrCodePlacementFailed,
		"no completable placement after %d attempts", opts.MaxAttempts)
}

func reductionKeyOpts(w *worldfile.World, opts Options) cache.ReductionKeyOpts {
	k := cache.ReductionKeyOpts{Tracker: opts.Tracker, MaxAlternatives: opts.MaxAlternatives}
	if w.Granted != nil {
		k.Granted = w.Granted.Name()
	}
	return k
}

func (r *Runner) cachedReduction(ctx context.Context, key string) (*logic.LocationList, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "reduction")
		return nil, false
	}
	ll := logic.NewLocationList()
	if err := json.Unmarshal(data, ll); err != nil {
		r.Logger.Debug("discarding cached reduction", "err", err)
		observability.Cache().OnCacheMiss(ctx, "reduction")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "reduction")
	return ll, true
}

// cachedPlacement loads a stored result and applies it to w. Entries that
// no longer match the world are treated as misses.
func (r *Runner) cachedPlacement(ctx context.Context, key string, w *worldfile.World) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "placement")
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil || !applyNames(w, res.Assignment) {
		r.Logger.Debug("discarding cached placement", "err", err)
		observability.Cache().OnCacheMiss(ctx, "placement")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "placement")
	return &res, true
}

func applyNames(w *worldfile.World, assignment map[string]string) bool {
	slots := make(map[*world.Slot]world.ID, len(assignment))
	for slotName, itemName := range assignment {
		sid, ok1 := w.ID(slotName)
		iid, ok2 := w.ID(itemName)
		if !ok1 || !ok2 {
			return false
		}
		n, _ := w.Graph.Node(sid)
		s, ok := n.(*world.Slot)
		if !ok {
			return false
		}
		slots[s] = iid
	}
	for s, item := range slots {
		s.Assign(item)
	}
	return true
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Debug("cannot encode cache entry", "type", keyType, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
