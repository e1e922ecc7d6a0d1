package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// Degrading wraps a Store and turns backend failures into cache misses.
// After the first backend error it stops issuing calls entirely, so a dead
// Redis never slows the pipeline down; the pipeline simply recomputes.
type Degrading struct {
	inner    Store
	disabled atomic.Bool
}

// NewDegrading wraps the given store.
func NewDegrading(inner Store) *Degrading {
	return &Degrading{inner: inner}
}

// Disabled reports whether the backend has been written off.
func (d *Degrading) Disabled() bool { return d.disabled.Load() }

// Get implements Store. Backend errors are logged once and demoted to ErrMiss.
func (d *Degrading) Get(ctx context.Context, fingerprint string, page int, stage Stage) ([]byte, error) {
	if d.disabled.Load() {
		return nil, ErrMiss
	}
	v, err := d.inner.Get(ctx, fingerprint, page, stage)
	if err != nil && !errors.Is(err, ErrMiss) {
		d.disable(err)
		return nil, ErrMiss
	}
	return v, err
}

// Put implements Store. Backend errors are swallowed after logging.
func (d *Degrading) Put(ctx context.Context, fingerprint string, page int, stage Stage, value []byte, ttl time.Duration) error {
	if d.disabled.Load() {
		return nil
	}
	if err := d.inner.Put(ctx, fingerprint, page, stage, value, ttl); err != nil {
		d.disable(err)
	}
	return nil
}

// Close implements Store.
func (d *Degrading) Close() error { return d.inner.Close() }

func (d *Degrading) disable(err error) {
	if d.disabled.CompareAndSwap(false, true) {
		slog.Warn("cache backend unavailable, degrading to recompute", "error", err)
	}
}
