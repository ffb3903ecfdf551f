package keysource

import (
	"context"
	"sync"
)

// Fetcher retrieves a fresh Key for a label, e.g. from a key management
// server. MemoSource wraps a Fetcher with a concurrency-safe cache so
// repeated GetKey calls for the same label across handler goroutines don't
// each round-trip to the backing store.
type Fetcher func(ctx context.Context, label string) (Key, error)

// MemoSource is the reference KeySource: it memoizes keys per label behind
// a sync.RWMutex, matching the "safe for concurrent GetKey calls" resource
// rule in the concurrency model.
type MemoSource struct {
	fetch Fetcher

	mu    sync.RWMutex
	cache map[string]Key
}

// NewMemoSource wraps fetch in a memoizing KeySource.
func NewMemoSource(fetch Fetcher) *MemoSource {
	return &MemoSource{fetch: fetch, cache: make(map[string]Key)}
}

// GetKey returns the cached key for label, fetching and caching it on
// first request. Concurrent calls for distinct labels proceed in parallel;
// concurrent calls for the same uncached label may both fetch, with the
// cache settling on whichever write lands last — fetch is expected to be
// idempotent for a given label.
func (m *MemoSource) GetKey(ctx context.Context, label string) (Key, error) {
	m.mu.RLock()
	key, ok := m.cache[label]
	m.mu.RUnlock()
	if ok {
		return key, nil
	}

	key, err := m.fetch(ctx, label)
	if err != nil {
		return Key{}, err
	}

	m.mu.Lock()
	m.cache[label] = key
	m.mu.Unlock()
	return key, nil
}
