package cache

// ScopedKeyer wraps a Keyer with a prefix. The HTTP server uses it to keep
// artifacts of different deployments apart when they share one Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) FeedKey(kind, location string) string {
	return k.prefix + k.inner.FeedKey(kind, location)
}

func (k *ScopedKeyer) ArtifactKey(feedHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(feedHash, opts)
}
