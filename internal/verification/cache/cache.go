// Package cache keeps recent definitive verdicts so repeat lookups of the
// same IMEI skip the regulator site.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/ports"
	"ptacheck/pkg/platform/sentinel"
)

const keyPrefix = "ptacheck:verdict:"

// ErrNotDefinitive is returned when caching an Error verdict.
var ErrNotDefinitive = errors.New("only definitive verdicts are cached")

var (
	_ ports.VerdictCache = (*MemoryCache)(nil)
	_ ports.VerdictCache = (*RedisCache)(nil)
)

// MemoryCache is a process-local TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	verdict  models.Verdict
	storedAt time.Time
}

// NewMemoryCache creates an in-memory cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, id imei.IMEI) (models.Verdict, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id.String()]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return models.Verdict{}, sentinel.ErrNotFound
	}
	return e.verdict, nil
}

func (c *MemoryCache) Put(_ context.Context, v models.Verdict) error {
	if !v.Status.IsDefinitive() {
		return ErrNotDefinitive
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[v.IMEI.String()] = memoryEntry{verdict: v, storedAt: c.now()}
	return nil
}

// RedisCache shares cached verdicts across instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache constructs a Redis-backed verdict cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, id imei.IMEI) (models.Verdict, error) {
	raw, err := c.client.Get(ctx, keyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Verdict{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Verdict{}, fmt.Errorf("get cached verdict: %w", err)
	}

	var rec models.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Verdict{}, fmt.Errorf("decode cached verdict: %w", err)
	}
	v, err := rec.Verdict()
	if err != nil {
		return models.Verdict{}, fmt.Errorf("decode cached verdict: %w", err)
	}
	return v, nil
}

// Put stores v with the cache TTL. Snapshots are dropped to keep entries small.
func (c *RedisCache) Put(ctx context.Context, v models.Verdict) error {
	if !v.Status.IsDefinitive() {
		return ErrNotDefinitive
	}
	if v.Details != nil {
		d := *v.Details
		d.Snapshot = ""
		v.Details = &d
	}
	rec, err := models.RecordFromVerdict(v)
	if err != nil {
		return fmt.Errorf("encode cached verdict: %w", err)
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cached verdict: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+rec.IMEI, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached verdict: %w", err)
	}
	return nil
}
