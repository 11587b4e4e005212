package cache

// ReductionKeyOpts are the integration options that change a reduction.
type ReductionKeyOpts struct {
	Tracker bool   `json:"tracker"`
	Granted string `json:"granted,omitempty"`
	// MaxAlternatives is zero for an uncapped integration.
	MaxAlternatives int `json:"max_alternatives,omitempty"`
}

// PlacementKeyOpts are the run options that change a placement result.
type PlacementKeyOpts struct {
	Seed        uint64 `json:"seed"`
	MaxAttempts int    `json:"max_attempts"`
	Tracker     bool   `json:"tracker"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ReductionKey identifies the location list integrated from a world.
	ReductionKey(worldHash string, opts ReductionKeyOpts) string
	// PlacementKey identifies the result of a placement run on a world.
	PlacementKey(worldHash string, opts PlacementKeyOpts) string
}

// DefaultKeyer produces "kind:hash" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ReductionKey(worldHash string, opts ReductionKeyOpts) string {
	return hashKey("reduction", worldHash, opts)
}

func (DefaultKeyer) PlacementKey(worldHash string, opts PlacementKeyOpts) string {
	return hashKey("placement", worldHash, opts)
}
