package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when no live record exists for the id.
var ErrNotFound = errors.New("session not found")

// ErrUnavailable wraps any Redis transport fault. Callers must surface it
// as an infrastructure failure, never as "unauthenticated".
var ErrUnavailable = errors.New("session store unavailable")

// Store is a Redis-backed key-value store mapping principal id to a
// serialized [Record] with expiry. It holds no validation logic; per-key
// atomicity comes from Redis itself and last-writer-wins is acceptable
// because correctness depends only on record existence.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a [Store] backed by the given Redis client. prefix sets
// the key namespace and defaults to "user".
func NewStore(rdb redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "user"
	}
	return &Store{redis: rdb, prefix: prefix}
}

func (s *Store) key(id string) string {
	return s.prefix + ":" + id
}

// Put upserts the record and resets its TTL.
//
//	Performance: 1 Redis SET.
func (s *Store) Put(ctx context.Context, rec *Record, ttl time.Duration) error {
	if rec == nil || rec.ID == "" {
		return errors.New("record must carry a principal id")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(rec.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Get returns the live record for id, [ErrNotFound] when absent or expired,
// or [ErrUnavailable] on a transport fault. A blob that no longer decodes
// is treated as absent; the next login overwrites it.
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, ErrNotFound
	}
	if rec.ID == "" {
		rec.ID = id
	}

	return &rec, nil
}

// Delete removes the record and reports how many keys were removed (0 or 1)
// so callers can tell "deleted" from "nothing to delete". Deleting an
// absent record is not an error.
//
//	Performance: 1 Redis DEL.
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	removed, err := s.redis.Del(ctx, s.key(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return removed, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}
