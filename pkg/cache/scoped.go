package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants can share
// one backend without seeing each other's entries.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "team:ops:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key of inner.
// A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey implements [Keyer].
func (k *ScopedKeyer) ReportKey(blueprintHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(blueprintHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(reportHash, opts)
}
