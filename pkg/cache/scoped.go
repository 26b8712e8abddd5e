package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or
// environments can share one backend without colliding.
//
// Example usage:
//
//	// Keys of the staging server
//	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// DatasetKey generates a prefixed dataset key.
func (k *ScopedKeyer) DatasetKey(source, version string) string {
	return k.prefix + k.inner.DatasetKey(source, version)
}

// ModelKey generates a prefixed model key.
func (k *ScopedKeyer) ModelKey(dataHash string, opts ModelKeyOpts) string {
	return k.prefix + k.inner.ModelKey(dataHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(modelHash, opts)
}
