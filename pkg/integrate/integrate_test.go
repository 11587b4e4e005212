package integrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/itemshuffle/pkg/logic"
	"github.com/matzehuels/itemshuffle/pkg/resolve"
	"github.com/matzehuels/itemshuffle/pkg/world"
)

var quiet = log.New(io.Discard)

// builder registers nodes and remembers them by name.
type builder struct {
	g   *world.Graph
	ids map[string]world.ID
}

func newBuilder() *builder {
	return &builder{g: world.New(), ids: make(map[string]world.ID)}
}

func (b *builder) add(n world.Node) world.ID {
	id := b.g.MustAdd(n)
	b.ids[n.Name()] = id
	return id
}

func (b *builder) id(name string) world.ID {
	id, ok := b.ids[name]
	if !ok {
		panic("unknown node " + name)
	}
	return id
}

func (b *builder) req(alts ...string) [][]world.ID {
	out := make([][]world.ID, len(alts))
	for i, alt := range alts {
		out[i] = []world.ID{}
		if alt == "" {
			continue
		}
		for _, name := range strings.Split(alt, "+") {
			out[i] = append(out[i], b.id(name))
		}
	}
	return out
}

func (b *builder) slot(name, loc string) *world.Slot {
	s := world.NewSlot(name, b.id(loc))
	b.add(s)
	return s
}

func (b *builder) integrate(t *testing.T, opts Options) *logic.LocationList {
	t.Helper()
	opts.Logger = quiet
	ll, err := Integrate(context.Background(), b.g, opts)
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	return ll
}

// routes returns the alternatives of slot name as sorted "a+b" strings.
func (b *builder) routes(t *testing.T, ll *logic.LocationList, name string) []string {
	t.Helper()
	loc, ok := ll.LocationIndex(b.id(name))
	if !ok {
		t.Fatalf("slot %q has no location index", name)
	}
	var out []string
	for _, r := range ll.Routes(loc) {
		var names []string
		for item := range r.Bits() {
			names = append(names, b.g.Name(ll.Item(item).UID))
		}
		sort.Strings(names)
		out = append(out, strings.Join(names, "+"))
	}
	sort.Strings(out)
	return out
}

// scenarioA is L0(start) -> L1 [slot s1] -(i1)-> L2 [win].
func scenarioA() *builder {
	b := newBuilder()
	b.add(world.NewItemGet("i1", 1))
	b.add(world.NewLocation("l0", true))
	b.add(world.NewLocation("l1", false))
	b.add(world.NewLocation("l2", false))
	b.add(world.NewConnection("l0-l1", b.id("l0"), b.id("l1")))
	b.add(world.NewConnection("l1-l2", b.id("l1"), b.id("l2"), b.id("i1")))
	b.slot("s1", "l1")
	b.slot("goal", "l2").Win = true
	return b
}

func TestScenarioAStructure(t *testing.T) {
	b := scenarioA()
	ll := b.integrate(t, Options{})

	if ll.NumLocations() != 2 || ll.NumItems() != 1 {
		t.Fatalf("got %d locations, %d items", ll.NumLocations(), ll.NumItems())
	}
	if got := b.routes(t, ll, "s1"); !slices.Equal(got, []string{""}) {
		t.Errorf("s1 routes = %q, want one empty route", got)
	}
	if got := b.routes(t, ll, "goal"); !slices.Equal(got, []string{"i1"}) {
		t.Errorf("goal routes = %q, want [i1]", got)
	}
	if win, _ := ll.LocationIndex(b.id("goal")); ll.Win() != win {
		t.Errorf("Win = %d, want %d", ll.Win(), win)
	}
	if it := ll.Item(0); !it.Placeable || it.UID != b.id("i1") {
		t.Errorf("Item(0) = %+v", it)
	}
}

func TestDeterministic(t *testing.T) {
	b := scenarioA()
	first := b.integrate(t, Options{})
	second := b.integrate(t, Options{})
	if diff := cmp.Diff(first.Snapshot(), second.Snapshot()); diff != "" {
		t.Errorf("integration not deterministic (-first +second):\n%s", diff)
	}
	for i := range first.NumItems() {
		if !first.Unlocks(i).Equal(second.Unlocks(i)) {
			t.Errorf("Unlocks(%d) differ: %v vs %v", i, first.Unlocks(i), second.Unlocks(i))
		}
	}
}

func TestEliminationChain(t *testing.T) {
	b := newBuilder()
	for _, name := range []string{"i1", "i2", "i3", "i4", "i5"} {
		b.add(world.NewItemGet(name, 1))
	}
	b.add(world.NewLocation("l0", true))
	b.add(world.NewLocation("l1", false))
	b.add(world.NewLocation("l2", false))
	b.add(world.NewConnection("to-l1", b.id("l0"), b.id("l1"), b.id("i4")))
	b.add(world.NewConnection("to-l2", b.id("l0"), b.id("l2"), b.id("i5")))
	b.add(world.NewArea("area", b.id("l1"), b.id("l2")))
	// The trigger names the condition before it is eliminated.
	b.add(world.NewCondition("cond", nil))
	b.add(world.NewTrigger("trig", b.req("cond+i3")))
	n, _ := b.g.Node(b.id("cond"))
	n.(*world.Condition).Requires = b.req("i1", "i2")

	s := b.slot("chest", "l0")
	s.Requires = b.req("area+trig")
	b.slot("goal", "l0").Win = true

	ll := b.integrate(t, Options{})
	want := []string{"i1+i3+i4", "i1+i3+i5", "i2+i3+i4", "i2+i3+i5"}
	if got := b.routes(t, ll, "chest"); !slices.Equal(got, want) {
		t.Errorf("chest routes = %q, want %q", got, want)
	}
}

func TestOptions(t *testing.T) {
	b := newBuilder()
	b.add(world.NewItemGet("i1", 1))
	b.add(world.NewOption("on", true))
	b.add(world.NewOption("off", false))
	b.add(world.NewLocation("l0", true))
	b.slot("free", "l0").Requires = b.req("on")
	b.slot("never", "l0").Requires = b.req("off+i1")
	b.slot("either", "l0").Requires = b.req("off", "i1")
	b.slot("goal", "l0").Win = true

	ll := b.integrate(t, Options{})
	tests := []struct {
		slot string
		want []string
	}{
		{"free", []string{""}},
		{"never", nil},
		{"either", []string{"i1"}},
	}
	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			if got := b.routes(t, ll, tt.slot); !slices.Equal(got, tt.want) {
				t.Errorf("routes = %q, want %q", got, tt.want)
			}
		})
	}

	never, _ := ll.LocationIndex(b.id("never"))
	if r := ll.Audit(); !slices.Equal(r.NoRoutes, []int{never}) {
		t.Errorf("Audit.NoRoutes = %v, want [%d]", r.NoRoutes, never)
	}
}

func TestBossAndBidirectional(t *testing.T) {
	b := newBuilder()
	for _, name := range []string{"key", "sword", "rope"} {
		b.add(world.NewItemGet(name, 1))
	}
	b.add(world.NewBoss("guardian", nil))
	b.add(world.NewLocation("hall", true))
	b.add(world.NewLocation("lair", false))
	b.add(world.NewLocation("vault", false))
	b.add(world.NewLocation("pit", false))
	n, _ := b.g.Node(b.id("guardian"))
	n.(*world.Boss).Requires = b.req("sword")
	n, _ = b.g.Node(b.id("lair"))
	n.(*world.Location).Boss = b.id("guardian")

	b.add(world.NewConnection("hall-lair", b.id("hall"), b.id("lair")))
	b.add(world.NewConnection("lair-vault", b.id("lair"), b.id("vault"), b.id("key")))
	// Only usable backwards: from hall into pit.
	c := world.NewConnection("pit-hall", b.id("pit"), b.id("hall"), b.id("rope"))
	c.Bidirectional = true
	b.add(c)

	b.slot("lair-chest", "lair")
	b.slot("vault-chest", "vault")
	b.slot("pit-chest", "pit")
	b.slot("goal", "hall").Win = true

	ll := b.integrate(t, Options{})
	tests := []struct {
		slot string
		want []string
	}{
		{"lair-chest", []string{""}},
		{"vault-chest", []string{"key+sword"}},
		{"pit-chest", []string{"rope"}},
	}
	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			if got := b.routes(t, ll, tt.slot); !slices.Equal(got, tt.want) {
				t.Errorf("routes = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrackerMode(t *testing.T) {
	build := func() *builder {
		b := newBuilder()
		b.add(world.NewItemGet("lamp", 1))
		b.add(world.NewItemGet("map", 1))
		tr := world.NewTrackerNode("dark-room", nil)
		b.add(tr)
		tr.Requires = b.req("lamp")
		tr.TrackerRequires = b.req("lamp", "map")
		b.add(world.NewLocation("l0", true))
		b.slot("chest", "l0").Requires = b.req("dark-room")
		b.slot("goal", "l0").Win = true
		return b
	}

	t.Run("Normal", func(t *testing.T) {
		b := build()
		ll := b.integrate(t, Options{})
		if got := b.routes(t, ll, "chest"); !slices.Equal(got, []string{"lamp"}) {
			t.Errorf("routes = %q, want [lamp]", got)
		}
	})

	t.Run("Tracker", func(t *testing.T) {
		b := build()
		ll := b.integrate(t, Options{Tracker: true})
		if got := b.routes(t, ll, "chest"); !slices.Equal(got, []string{"dark-room"}) {
			t.Errorf("routes = %q, want [dark-room]", got)
		}
		idx, ok := ll.ItemIndex(b.id("dark-room"))
		if !ok {
			t.Fatal("tracker node not indexed")
		}
		if ll.Item(idx).Placeable {
			t.Error("tracker node must not be placeable")
		}
		if got := len(ll.PoolItems()); got != 2 {
			t.Errorf("PoolItems = %d, want 2", got)
		}
	})
}

func TestGrantedItem(t *testing.T) {
	b := newBuilder()
	boots := world.NewItemGet("boots", 1)
	b.add(boots)
	b.add(world.NewItemGet("gem", 1))
	b.add(world.NewLocation("l0", true))
	b.slot("ledge", "l0").Requires = b.req("boots+gem")
	b.slot("goal", "l0").Win = true

	ll := b.integrate(t, Options{Granted: boots})
	if got := b.routes(t, ll, "ledge"); !slices.Equal(got, []string{"gem"}) {
		t.Errorf("routes = %q, want [gem]", got)
	}
	idx, ok := ll.ItemIndex(b.id("boots"))
	if !ok || !ll.Item(idx).Placeable {
		t.Error("granted item should stay in the pool")
	}

	other := world.NewItemGet("stray", 1)
	world.New().MustAdd(other)
	if _, err := Integrate(context.Background(), b.g, Options{Granted: other, Logger: quiet}); !errors.Is(err, ErrGrantedNotInGraph) {
		t.Errorf("foreign granted item error = %v, want ErrGrantedNotInGraph", err)
	}
}

func TestLocationCycle(t *testing.T) {
	b := newBuilder()
	b.add(world.NewItemGet("a", 1))
	b.add(world.NewItemGet("c", 1))
	b.add(world.NewLocation("start", true))
	b.add(world.NewLocation("x", false))
	b.add(world.NewLocation("y", false))
	b.add(world.NewConnection("start-x", b.id("start"), b.id("x"), b.id("a")))
	b.add(world.NewConnection("x-y", b.id("x"), b.id("y")))
	b.add(world.NewConnection("y-x", b.id("y"), b.id("x")))
	b.add(world.NewConnection("start-y", b.id("start"), b.id("y"), b.id("c")))
	b.slot("in-x", "x")
	b.slot("goal", "start").Win = true

	ll := b.integrate(t, Options{})
	if got := b.routes(t, ll, "in-x"); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("routes = %q, want [a c]", got)
	}
}

func TestErrors(t *testing.T) {
	t.Run("NoWin", func(t *testing.T) {
		b := newBuilder()
		b.add(world.NewLocation("l0", true))
		b.slot("s", "l0")
		_, err := Integrate(context.Background(), b.g, Options{Logger: quiet})
		if !errors.Is(err, ErrWinSlot) {
			t.Errorf("error = %v, want ErrWinSlot", err)
		}
	})

	t.Run("TwoWins", func(t *testing.T) {
		b := newBuilder()
		b.add(world.NewLocation("l0", true))
		b.slot("a", "l0").Win = true
		b.slot("b", "l0").Win = true
		_, err := Integrate(context.Background(), b.g, Options{Logger: quiet})
		if !errors.Is(err, ErrWinSlot) {
			t.Errorf("error = %v, want ErrWinSlot", err)
		}
	})

	t.Run("Dangling", func(t *testing.T) {
		b := newBuilder()
		b.add(world.NewLocation("l0", true))
		b.slot("s", "l0").Requires = [][]world.ID{{99}}
		_, err := Integrate(context.Background(), b.g, Options{Logger: quiet})
		if !errors.Is(err, world.ErrUnknownNode) {
			t.Errorf("error = %v, want ErrUnknownNode", err)
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		b := scenarioA()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Integrate(ctx, b.g, Options{Logger: quiet})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

// gatedWorld is l0(start) -> l1 through n conditions, each opened by one of
// two items. The goal in l1 has 2^n routes.
func gatedWorld(n int) *builder {
	b := newBuilder()
	b.add(world.NewLocation("l0", true))
	b.add(world.NewLocation("l1", false))
	var conds []world.ID
	for i := range n {
		x, y := fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i)
		b.add(world.NewItemGet(x, 1))
		b.add(world.NewItemGet(y, 1))
		conds = append(conds, b.add(world.NewCondition(fmt.Sprintf("c%d", i), b.req(x, y))))
	}
	b.add(world.NewConnection("gate", b.id("l0"), b.id("l1"), conds...))
	b.slot("start-chest", "l0")
	b.slot("goal", "l1").Win = true
	return b
}

func TestMaxAlternativesAfterMapWalk(t *testing.T) {
	// The gate's conditions are still raw terms when l1 gets its route.
	b := gatedWorld(3)
	if got := b.routes(t, b.integrate(t, Options{}), "goal"); len(got) != 8 {
		t.Fatalf("goal routes = %q, want 8", got)
	}

	_, err := Integrate(context.Background(), b.g, Options{MaxAlternatives: 4, Logger: quiet})
	if !errors.Is(err, resolve.ErrTooManyAlternatives) {
		t.Errorf("error = %v, want ErrTooManyAlternatives", err)
	}
}

// cancelOn cancels a context once a log line containing msg is written.
type cancelOn struct {
	msg    []byte
	cancel context.CancelFunc
}

func (w *cancelOn) Write(p []byte) (int, error) {
	if bytes.Contains(p, w.msg) {
		w.cancel()
	}
	return len(p), nil
}

func TestCanceledLatePhases(t *testing.T) {
	// Each case cancels right after the named phase logs, so only the
	// checks in later phases can notice.
	for _, after := range []string{"eliminated conditions", "eliminated remaining nodes"} {
		t.Run(after, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			logger := log.NewWithOptions(&cancelOn{msg: []byte(after), cancel: cancel}, log.Options{Level: log.DebugLevel})

			_, err := Integrate(ctx, gatedWorld(4).g, Options{Logger: logger})
			if !errors.Is(err, context.Canceled) {
				t.Errorf("error = %v, want context.Canceled", err)
			}
		})
	}
}
