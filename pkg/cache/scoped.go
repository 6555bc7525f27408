package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one backend without seeing each other's entries.
//
// Example usage:
//
//	stagingKeyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// PartsKey generates a prefixed key for sequence parts.
func (k *ScopedKeyer) PartsKey(seqHash string, opts PartsKeyOpts) string {
	return k.prefix + k.inner.PartsKey(seqHash, opts)
}

// TextKey generates a prefixed key for text parts.
func (k *ScopedKeyer) TextKey(textHash string, opts TextKeyOpts) string {
	return k.prefix + k.inner.TextKey(textHash, opts)
}

// GraphKey generates a prefixed key for rendered graphs.
func (k *ScopedKeyer) GraphKey(seqHash string, format string, opts PartsKeyOpts) string {
	return k.prefix + k.inner.GraphKey(seqHash, format, opts)
}
