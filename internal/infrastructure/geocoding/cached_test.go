package geocoding

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/roadproximity/proximity/internal/core/domain"
)

type stubResolver struct {
	result domain.RoadLookupResult
	calls  int
}

func (s *stubResolver) ResolveRoad(context.Context, domain.GeoPoint) domain.RoadLookupResult {
	s.calls++
	return s.result
}

type stubCache struct {
	entries map[domain.GeoPoint]string
	getErr  error
	setErr  error
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[domain.GeoPoint]string{}}
}

func (c *stubCache) Get(_ context.Context, p domain.GeoPoint) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.entries[p]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, p domain.GeoPoint, name string) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[p] = name
	return nil
}

func TestCachedResolver_MissThenHit(t *testing.T) {
	next := &stubResolver{result: domain.RoadFound("Raisen Road")}
	cache := newStubCache()
	r := NewCachedResolver(next, cache, zerolog.Nop())

	first := r.ResolveRoad(context.Background(), bhopal)
	second := r.ResolveRoad(context.Background(), bhopal)

	assert.Equal(t, domain.RoadFound("Raisen Road"), first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls, "second lookup should be served from cache")
}

func TestCachedResolver_DoesNotCacheFailures(t *testing.T) {
	next := &stubResolver{result: domain.RoadLookupFailed("timeout")}
	cache := newStubCache()
	r := NewCachedResolver(next, cache, zerolog.Nop())

	r.ResolveRoad(context.Background(), bhopal)
	r.ResolveRoad(context.Background(), bhopal)

	assert.Equal(t, 2, next.calls)
	assert.Zero(t, cache.sets)
}

func TestCachedResolver_CacheErrorsAreIgnored(t *testing.T) {
	next := &stubResolver{result: domain.RoadFound("Main St")}
	cache := newStubCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	r := NewCachedResolver(next, cache, zerolog.Nop())

	res := r.ResolveRoad(context.Background(), bhopal)
	assert.Equal(t, domain.RoadFound("Main St"), res)
	assert.Equal(t, 1, next.calls)
}
