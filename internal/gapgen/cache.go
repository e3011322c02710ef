package gapgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/coursementor/internal/mentor"
)

// Cache stores generated question sets by fingerprint.
type Cache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (qs []mentor.GapQuizQuestion, ok bool, err error)
	Set(ctx context.Context, key string, qs []mentor.GapQuizQuestion, ttl time.Duration) error
}

// Fingerprint identifies a generation request by everything that shapes
// its output.
func Fingerprint(req Request, targets []Target) string {
	payload, _ := json.Marshal(struct {
		Course     string   `json:"course"`
		Difficulty string   `json:"difficulty"`
		Count      int      `json:"count"`
		Targets    []Target `json:"targets"`
	}{req.CourseSlug, req.Difficulty, req.Count, targets})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// RedisCache keeps question sets in Redis as JSON.
type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisCache wraps an existing client. Keys are "<prefix><fingerprint>".
func NewRedisCache(rdb redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "mentor:gapgen:"
	}
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]mentor.GapQuizQuestion, bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var qs []mentor.GapQuizQuestion
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, false, fmt.Errorf("decode cached questions: %w", err)
	}
	return qs, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, qs []mentor.GapQuizQuestion, ttl time.Duration) error {
	raw, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	if err := c.rdb.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// MemoryCache is an in-process Cache for single-instance deployments.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	questions []mentor.GapQuizQuestion
	expires   time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]mentor.GapQuizQuestion, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return slices.Clone(e.questions), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, qs []mentor.GapQuizQuestion, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := memoryEntry{questions: slices.Clone(qs)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}
