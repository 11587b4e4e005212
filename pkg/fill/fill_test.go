package fill

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/itemshuffle/pkg/logic"
	"github.com/matzehuels/itemshuffle/pkg/world"
)

const (
	itemI1 world.ID = 1
	itemI2 world.ID = 2
	slotL1 world.ID = 10
	slotL2 world.ID = 11
)

// scenarioA: L1 is free and L2, the win location, needs I1.
func scenarioA(t *testing.T) *logic.LocationList {
	t.Helper()
	ll := logic.NewLocationList()
	ll.AddRoute(slotL1, nil)
	ll.AddRoute(slotL2, []world.ID{itemI1})
	if err := ll.SetWin(slotL2); err != nil {
		t.Fatal(err)
	}
	ll.AddItem(itemI1, 1, true)
	return ll
}

func TestScenarioA(t *testing.T) {
	ll := scenarioA(t)
	l1, _ := ll.LocationIndex(slotL1)
	i1, _ := ll.ItemIndex(itemI1)

	for seed := range uint64(200) {
		filling, ok := AssumedFill(ll, NewRandom(seed), nil, nil)
		if !ok {
			t.Fatalf("seed %d: placement failed", seed)
		}
		if filling[l1] != i1 {
			t.Fatalf("seed %d: filling = %v, want I1 in L1", seed, filling)
		}
		if p := Replay(ll, filling); !p.Complete {
			t.Fatalf("seed %d: layout not completable: %+v", seed, p)
		}
	}
}

func TestScenarioB(t *testing.T) {
	ll := scenarioA(t)
	ll.AddItem(itemI2, 1, true)
	i2, _ := ll.ItemIndex(itemI2)
	fits := func(_, item int) bool { return item != i2 }

	for seed := range uint64(50) {
		filling, ok := AssumedFill(ll, NewRandom(seed), fits, nil)
		if ok || filling != nil {
			t.Fatalf("seed %d: got %v, %v; want failure", seed, filling, ok)
		}
	}
}

// recorder remembers the order in which items are seated.
type recorder struct {
	DefaultStrategy
	seated []int
}

func (r *recorder) ShuffleSlots(item int, candidates []int, rng Random) []int {
	r.seated = append(r.seated, item)
	return r.DefaultStrategy.ShuffleSlots(item, candidates, rng)
}

func TestScenarioDWeightedOrder(t *testing.T) {
	const heavy, light, filler world.ID = 1, 2, 3
	ll := logic.NewLocationList()
	for uid := range world.ID(4) {
		ll.AddRoute(slotL1+uid, nil)
	}
	if err := ll.SetWin(slotL1 + 3); err != nil {
		t.Fatal(err)
	}
	ll.AddItem(heavy, 5, true)
	ll.AddItem(light, 1, true)
	ll.AddItem(filler, 1, true)
	hi, _ := ll.ItemIndex(heavy)
	li, _ := ll.ItemIndex(light)

	const trials = 1000
	heavyFirst, lightFirst, heavyBeforeLight := 0, 0, 0
	for seed := range uint64(trials) {
		rec := &recorder{}
		if _, ok := AssumedFill(ll, NewRandom(seed), nil, rec); !ok {
			t.Fatalf("seed %d: placement failed", seed)
		}
		switch rec.seated[0] {
		case hi:
			heavyFirst++
		case li:
			lightFirst++
		}
		if slices.Index(rec.seated, hi) < slices.Index(rec.seated, li) {
			heavyBeforeLight++
		}
	}

	// Expected rates are 5/7, 1/7 and 5/6.
	if heavyFirst <= 3*lightFirst {
		t.Errorf("heavy first %d times, light first %d times", heavyFirst, lightFirst)
	}
	if heavyBeforeLight < 700 {
		t.Errorf("heavy seated before light in %d/%d trials", heavyBeforeLight, trials)
	}
}

func TestDeterministicPerSeed(t *testing.T) {
	ll := randomList(42, false)
	a, okA := AssumedFill(ll, NewRandom(7), nil, nil)
	b, okB := AssumedFill(ll, NewRandom(7), nil, nil)
	if okA != okB {
		t.Fatalf("ok differs: %v vs %v", okA, okB)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("fillings differ (-first +second):\n%s", diff)
	}
}

func TestDefaultStrategy(t *testing.T) {
	rng := NewRandom(1)
	order := DefaultStrategy{}.ShuffleItems([]Weighted{{Index: 0, Weight: 3}, {Index: 1, Weight: 1}, {Index: 2, Weight: 0}}, rng)
	counts := map[int]int{}
	for _, idx := range order {
		counts[idx]++
	}
	if want := map[int]int{0: 3, 1: 1, 2: 1}; !cmp.Equal(counts, want) {
		t.Errorf("counts = %v, want %v", counts, want)
	}

	candidates := []int{4, 5, 6, 7}
	out := DefaultStrategy{}.ShuffleSlots(0, candidates, rng)
	if !slices.Equal(candidates, []int{4, 5, 6, 7}) {
		t.Errorf("candidates modified: %v", candidates)
	}
	slices.Sort(out)
	if !slices.Equal(out, candidates) {
		t.Errorf("ShuffleSlots is not a permutation: %v", out)
	}
}

func TestReplay(t *testing.T) {
	ll := scenarioA(t)
	l1, _ := ll.LocationIndex(slotL1)
	l2, _ := ll.LocationIndex(slotL2)
	i1, _ := ll.ItemIndex(itemI1)

	t.Run("Completable", func(t *testing.T) {
		filling := logic.NewFilling(2)
		filling[l1] = i1
		p := Replay(ll, filling)
		if !p.Complete {
			t.Fatalf("Replay = %+v, want complete", p)
		}
		want := [][]int{{l1}, {l2}}
		if diff := cmp.Diff(want, p.Spheres); diff != "" {
			t.Errorf("spheres mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("LockedBehindItself", func(t *testing.T) {
		filling := logic.NewFilling(2)
		filling[l2] = i1
		p := Replay(ll, filling)
		if p.Complete {
			t.Fatal("item locked behind itself should not be complete")
		}
		if !slices.Equal(p.Unreached, []int{l2}) {
			t.Errorf("Unreached = %v, want [%d]", p.Unreached, l2)
		}
	})
}

// randomList builds a small random structure. Item indices equal item uids.
// A tight list has exactly one non-win location per item.
func randomList(seed uint64, tight bool) *logic.LocationList {
	r := rand.New(rand.NewPCG(seed, 1))
	nItems := 1 + r.IntN(6)
	nLocs := nItems + 1
	if !tight {
		nLocs += r.IntN(4)
	}

	ll := logic.NewLocationList()
	for i := range nItems {
		ll.AddItem(world.ID(i), 1+r.IntN(3), true)
	}
	for loc := range nLocs {
		uid := world.ID(100 + loc)
		ll.AddLocation(uid)
		for range 1 + r.IntN(2) {
			var deps []world.ID
			for i := range nItems {
				if r.IntN(4) == 0 {
					deps = append(deps, world.ID(i))
				}
			}
			ll.AddRoute(uid, deps)
		}
	}
	_ = ll.SetWin(world.ID(100 + nLocs - 1))
	return ll
}

func TestAssumedFillIsCompletable(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("successful fillings replay to the relaxed win state", prop.ForAll(
		func(worldSeed, fillSeed int64) bool {
			ll := randomList(uint64(worldSeed), false)
			filling, ok := AssumedFill(ll, NewRandom(uint64(fillSeed)), nil, nil)
			if !ok {
				return true
			}
			placed := make(map[int]int)
			for _, item := range filling {
				if item != Empty {
					placed[item]++
				}
			}
			for _, item := range ll.PoolItems() {
				if placed[item] != 1 {
					return false
				}
			}
			if filling[ll.Win()] != Empty {
				return false
			}
			p := Replay(ll, filling)
			return len(p.Unreached) == 0 && p.Complete == ll.Audit().WinReachable
		},
		gen.Int64(), gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestAssumedFillTightPool(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	filled := 0
	properties.Property("a pool as large as the non-win locations fills all of them", prop.ForAll(
		func(worldSeed, fillSeed int64) bool {
			ll := randomList(uint64(worldSeed), true)
			filling, ok := AssumedFill(ll, NewRandom(uint64(fillSeed)), nil, nil)
			if !ok {
				return true
			}
			filled++
			for loc, item := range filling {
				if (loc == ll.Win()) != (item == Empty) {
					return false
				}
			}
			return Replay(ll, filling).Complete == ll.Audit().WinReachable
		},
		gen.Int64(), gen.Int64(),
	))

	properties.TestingRun(t)
	if filled == 0 {
		t.Error("no tight world was ever filled")
	}
}
