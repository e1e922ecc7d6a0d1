// Package cache provides the fingerprint-keyed store for intermediate
// pipeline results. Entries are written whole and expire after a TTL; a hit
// must be byte-equivalent to recomputing the stage from the source document.
package cache

import (
	"context"
	"errors"
	"time"
)

// Stage identifies which pipeline intermediate an entry belongs to.
type Stage string

const (
	// StageVectorText caches the direct text-layer extraction of a page.
	StageVectorText Stage = "vector"
	// StageOCRText caches the OCR output of a page.
	StageOCRText Stage = "ocr"
)

// ErrMiss is returned by Get when no valid entry exists for the key.
var ErrMiss = errors.New("cache miss")

// Store is the cache collaborator contract. Implementations must keep writes
// atomic per key: concurrent writers may race, but a reader never observes a
// partially written entry.
type Store interface {
	// Get returns the cached value for (fingerprint, page, stage) or ErrMiss.
	Get(ctx context.Context, fingerprint string, page int, stage Stage) ([]byte, error)

	// Put stores the value whole under (fingerprint, page, stage) with the
	// given time-to-live. Overwriting an existing entry with an equivalent
	// value is harmless.
	Put(ctx context.Context, fingerprint string, page int, stage Stage, value []byte, ttl time.Duration) error

	// Close releases backend resources.
	Close() error
}
