package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. Use it to keep
// several deployments or tenants apart in one shared Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "itemshuffle:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] if inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ReductionKey(worldHash string, opts ReductionKeyOpts) string {
	return k.prefix + k.inner.ReductionKey(worldHash, opts)
}

func (k *ScopedKeyer) PlacementKey(worldHash string, opts PlacementKeyOpts) string {
	return k.prefix + k.inner.PlacementKey(worldHash, opts)
}
