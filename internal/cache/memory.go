package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryEntries bounds the in-memory cache size.
const DefaultMemoryEntries = 1024

// memoryEntry carries a stored value and an optional per-entry deadline. A
// zero deadline means the store-level ttl alone governs expiry.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Store backed by an expirable LRU. It is the
// fallback when no Redis backend is configured and the default for tests.
type Memory struct {
	lru *expirable.LRU[string, memoryEntry]
	ttl time.Duration
}

// NewMemory creates an in-memory store. A non-positive size uses
// DefaultMemoryEntries. The ttl is the ceiling for every entry; a Put with a
// shorter ttl expires on its own deadline instead.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	return &Memory{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, ttl),
		ttl: ttl,
	}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, fingerprint string, page int, stage Stage) ([]byte, error) {
	key := Key(fingerprint, page, stage)
	e, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		m.lru.Remove(key)
		return nil, ErrMiss
	}
	// Copy so callers cannot mutate the cached entry in place.
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Put implements Store. A ttl shorter than the store-level ttl is honored
// with a per-entry deadline checked on Get; the store-level ttl still caps
// longer requests via the underlying LRU.
func (m *Memory) Put(_ context.Context, fingerprint string, page int, stage Stage, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	e := memoryEntry{value: stored}
	if ttl > 0 && (m.ttl <= 0 || ttl < m.ttl) {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.lru.Add(Key(fingerprint, page, stage), e)
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.lru.Purge()
	return nil
}
