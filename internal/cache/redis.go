package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/invoscan/invoscan/internal/invoice"
)

// keyPrefix namespaces pipeline entries within a shared Redis instance.
const keyPrefix = "invoscan:"

// Redis is a Store backed by a Redis server. Values are written whole with
// SET ... EX, which gives per-key atomicity for free.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the given address (host:port) and verifies the
// connection with a ping. Returns ErrCacheUnavailable-wrapped errors so
// callers can fall back to the in-memory store.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", invoice.ErrCacheUnavailable, addr, err)
	}
	return &Redis{client: client}, nil
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, fingerprint string, page int, stage Stage) ([]byte, error) {
	v, err := r.client.Get(ctx, keyPrefix+Key(fingerprint, page, stage)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("%w: %w", invoice.ErrCacheUnavailable, err)
	}
	return v, nil
}

// Put implements Store.
func (r *Redis) Put(ctx context.Context, fingerprint string, page int, stage Stage, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, keyPrefix+Key(fingerprint, page, stage), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", invoice.ErrCacheUnavailable, err)
	}
	return nil
}

// Close implements Store.
func (r *Redis) Close() error { return r.client.Close() }
