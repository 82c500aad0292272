// Package catalog serves the public catalogue listing, with an optional
// Redis read-through cache in front of the store. The cache is a
// presentation optimization only: with no Redis configured every call falls
// through to the store.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"mecarent/internal/events"
	"mecarent/internal/models"
)

// Lister is the store-side source of catalogue data.
type Lister interface {
	ListMachines(filter models.MachineFilter) []models.Machine
}

// Cache answers catalogue queries, optionally via Redis.
type Cache struct {
	lister Lister
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New creates a pass-through catalogue without caching.
func New(lister Lister, logger zerolog.Logger) *Cache {
	return &Cache{
		lister: lister,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// UseRedisCache configures optional Redis caching for catalogue listings.
func (c *Cache) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.rdb = redisClient
	c.ttl = ttl
}

// Attach invalidates the cache whenever an event changes machine
// availability.
func (c *Cache) Attach(bus *events.Bus) {
	invalidate := func(events.Event) { c.Invalidate(context.Background()) }
	bus.Subscribe(events.RentalPaid, invalidate)
	bus.Subscribe(events.RentalCancelled, invalidate)
	bus.Subscribe(events.MachineFreed, invalidate)
}

// ListAvailable returns the available machines matching the filter.
func (c *Cache) ListAvailable(ctx context.Context, filter models.MachineFilter) []models.Machine {
	filter.OnlyAvailable = true

	key := c.cacheKey(ctx, filter)
	var cached []models.Machine
	if c.readCache(ctx, key, &cached) {
		return cached
	}

	machines := c.lister.ListMachines(filter)
	c.writeCache(ctx, key, machines)
	return machines
}

// Invalidate drops all cached listings by bumping the version key; stale
// entries expire on their own TTL.
func (c *Cache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, "catalog:ver").Err(); err != nil {
		c.logger.Debug().Err(err).Msg("catalog invalidation failed")
	}
}

// cacheKey includes the current version so invalidation is a single INCR.
func (c *Cache) cacheKey(ctx context.Context, filter models.MachineFilter) string {
	var ver int64
	if c.rdb != nil {
		ver, _ = c.rdb.Get(ctx, "catalog:ver").Int64()
	}
	return fmt.Sprintf("catalog:v%d:%s:%s", ver, filter.Type, strings.ToLower(filter.Query))
}

func (c *Cache) readCache(ctx context.Context, key string, out *[]models.Machine) bool {
	if c.rdb == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("drop corrupt cache entry")
		return false
	}
	return true
}

func (c *Cache) writeCache(ctx context.Context, key string, machines []models.Machine) {
	if c.rdb == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(machines)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, data, c.ttl).Err()
}
