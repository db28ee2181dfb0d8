package cache

// ScopedKeyer prefixes every key of an inner keyer, giving each namespace
// (a deck, a tenant of the API) its own key space.
//
//	deckKeyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "deck:q3-review:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

func (k *ScopedKeyer) TimelineKey(inputHash string) string {
	return k.prefix + k.inner.TimelineKey(inputHash)
}

func (k *ScopedKeyer) FrameKey(layoutHash, timelineHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(layoutHash, timelineHash, opts)
}
