package contact

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"locuscore/pkg/domain"
)

var _ domain.ContactProvider = (*CachedProvider)(nil)

// CachedProvider memoizes successful strength lookups in an LRU cache keyed
// on the orientation-independent (pair, contact map) tuple. Failures are
// never cached: a missing contact map stays loud on every lookup.
type CachedProvider struct {
	inner domain.ContactProvider
	cache *lru.Cache[string, float64]
}

// DefaultCacheSize bounds the memoized lookup count when no explicit size is given.
const DefaultCacheSize = 4096

// NewCached wraps a provider with an LRU of the given size (DefaultCacheSize
// when size <= 0).
func NewCached(inner domain.ContactProvider, size int) (*CachedProvider, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, float64](size)
	if err != nil {
		return nil, err
	}
	return &CachedProvider{inner: inner, cache: cache}, nil
}

// Strength implements domain.ContactProvider.
func (p *CachedProvider) Strength(ctx context.Context, a, b domain.Interval, contactMapID string) (float64, error) {
	key := pairKey(a, b, contactMapID)
	if strength, ok := p.cache.Get(key); ok {
		return strength, nil
	}
	strength, err := p.inner.Strength(ctx, a, b, contactMapID)
	if err != nil {
		return 0, err
	}
	p.cache.Add(key, strength)
	return strength, nil
}
