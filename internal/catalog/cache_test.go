package catalog

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"mecarent/internal/events"
	"mecarent/internal/models"
)

type countingLister struct {
	machines []models.Machine
	calls    int
}

func (l *countingLister) ListMachines(filter models.MachineFilter) []models.Machine {
	l.calls++
	var out []models.Machine
	for _, m := range l.machines {
		if filter.Matches(&m) {
			out = append(out, m)
		}
	}
	return out
}

func newCacheFixture(t *testing.T) (*Cache, *countingLister, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	lister := &countingLister{machines: []models.Machine{
		{ID: "m-1", Name: "Motopompe diesel", Type: "motopompe", Available: true},
		{ID: "m-2", Name: "Moulin à céréales", Type: "moulin", Available: true},
		{ID: "m-3", Name: "Semoir manuel", Type: "semoir", Available: false},
	}}
	cache := New(lister, zerolog.New(io.Discard))
	cache.UseRedisCache(rdb, time.Minute)
	return cache, lister, mr
}

func TestListAvailableCaches(t *testing.T) {
	ctx := context.Background()
	cache, lister, _ := newCacheFixture(t)

	first := cache.ListAvailable(ctx, models.MachineFilter{})
	assert.Len(t, first, 2, "unavailable machines are filtered out")
	assert.Equal(t, 1, lister.calls)

	second := cache.ListAvailable(ctx, models.MachineFilter{})
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lister.calls, "second call served from cache")

	// A different filter is a different cache entry.
	cache.ListAvailable(ctx, models.MachineFilter{Type: "moulin"})
	assert.Equal(t, 2, lister.calls)
}

func TestInvalidateForcesRefresh(t *testing.T) {
	ctx := context.Background()
	cache, lister, _ := newCacheFixture(t)

	cache.ListAvailable(ctx, models.MachineFilter{})
	cache.Invalidate(ctx)
	cache.ListAvailable(ctx, models.MachineFilter{})
	assert.Equal(t, 2, lister.calls)
}

func TestAttachInvalidatesOnEvents(t *testing.T) {
	ctx := context.Background()
	cache, lister, _ := newCacheFixture(t)
	bus := events.NewBus()
	cache.Attach(bus)

	cache.ListAvailable(ctx, models.MachineFilter{})
	bus.Publish(events.Event{Type: events.RentalPaid, MachineID: "m-1"})
	cache.ListAvailable(ctx, models.MachineFilter{})
	assert.Equal(t, 2, lister.calls, "rental.paid invalidates the listing")

	bus.Publish(events.Event{Type: events.MachineFreed, MachineID: "m-1"})
	cache.ListAvailable(ctx, models.MachineFilter{})
	assert.Equal(t, 3, lister.calls)
}

func TestWithoutRedisFallsThrough(t *testing.T) {
	ctx := context.Background()
	lister := &countingLister{machines: []models.Machine{
		{ID: "m-1", Name: "Motopompe", Available: true},
	}}
	cache := New(lister, zerolog.New(io.Discard))

	cache.ListAvailable(ctx, models.MachineFilter{})
	cache.ListAvailable(ctx, models.MachineFilter{})
	assert.Equal(t, 2, lister.calls, "no caching without redis")
}

func TestCacheSurvivesRedisOutage(t *testing.T) {
	ctx := context.Background()
	cache, lister, mr := newCacheFixture(t)

	mr.Close()
	got := cache.ListAvailable(ctx, models.MachineFilter{})
	assert.Len(t, got, 2, "redis outage degrades to the store")
	assert.Equal(t, 1, lister.calls)
}
