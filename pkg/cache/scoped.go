package cache

// ScopedKeyer wraps a Keyer with a prefix. It keeps separate namespaces in
// a shared backend, for example one per user on a shared Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "user:alice:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HistoryKey generates a prefixed key for commit history caching.
func (k *ScopedKeyer) HistoryKey(repo string, opts HistoryKeyOpts) string {
	return k.prefix + k.inner.HistoryKey(repo, opts)
}
