package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/terra-engine/internal/logging"
)

// defaultKey is the single Redis key every RedisStore reads and writes;
// Save and Load take no key argument — a snapshot hand-off has exactly
// one live slot per engine instance, unlike the teacher's multi-key RedisCache.
const defaultKey = "terra:snapshot:latest"

// RedisStore hands a Snapshot to another process without a shared
// filesystem. Adapted from the teacher's cache.RedisCache: same client
// construction and connectivity check, stripped of Write-Behind, cold
// storage, and invalidation pub/sub, none of which apply to a single
// explicitly-triggered key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr and verifies connectivity with a
// bounded ping, mirroring cache.NewRedisCache's startup check.
func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("snapshot: connect to redis %s: %w", addr, err)
	}

	logging.LogInfo("snapshot: redis store connected to %s", addr)
	return &RedisStore{client: client}, nil
}

// Save writes snap to Redis with no expiry, so it survives until the
// next explicit save overwrites it.
func (r *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}
	if err := r.client.Set(ctx, defaultKey, data, 0).Err(); err != nil {
		return fmt.Errorf("snapshot: redis set: %w", err)
	}
	return nil
}

// Load reads the most recently saved snapshot.
func (r *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := r.client.Get(ctx, defaultKey).Bytes()
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: redis get: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return snap, nil
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
