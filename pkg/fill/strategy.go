package fill

import "slices"

// Weighted is a pool item as seen by a [Strategy].
type Weighted struct {
	Index  int
	Weight int
}

// Strategy decides the order in which items are seated and the order in
// which candidate locations are tried.
type Strategy interface {
	// ShuffleItems returns the processing order. An item index may appear
	// more than once; only its first occurrence is seated.
	ShuffleItems(pool []Weighted, rng Random) []int
	// ShuffleSlots returns candidates in the order they should be tried
	// for item. It must not modify candidates.
	ShuffleSlots(item int, candidates []int, rng Random) []int
}

// DefaultStrategy repeats every item once per unit of weight and shuffles
// the result, so heavier items tend to be seated earlier, while the
// layout is still most constrained. Candidate locations are tried in
// uniformly random order.
type DefaultStrategy struct{}

func (DefaultStrategy) ShuffleItems(pool []Weighted, rng Random) []int {
	var order []int
	for _, it := range pool {
		for range max(it.Weight, 1) {
			order = append(order, it.Index)
		}
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

func (DefaultStrategy) ShuffleSlots(_ int, candidates []int, rng Random) []int {
	out := slices.Clone(candidates)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
