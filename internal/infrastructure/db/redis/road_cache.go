package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roadproximity/proximity/internal/core/domain"
)

const defaultRoadTTL = 24 * time.Hour

// RoadCache caches reverse-geocoded road names.
// Key format: geocode:road:<lat>:<lon> with coordinates rounded to 5
// decimals (about one meter).
type RoadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoadCache creates a RoadCache; ttl <= 0 uses defaultRoadTTL.
func NewRoadCache(client *redis.Client, ttl time.Duration) *RoadCache {
	if ttl <= 0 {
		ttl = defaultRoadTTL
	}
	return &RoadCache{client: client, ttl: ttl}
}

// Get reports the cached road name for p, if any.
func (c *RoadCache) Get(ctx context.Context, p domain.GeoPoint) (string, bool, error) {
	name, err := c.client.Get(ctx, c.key(p)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("road cache get: %w", err)
	}
	return name, true, nil
}

// Set records roadName for p (expires after the configured TTL).
func (c *RoadCache) Set(ctx context.Context, p domain.GeoPoint, roadName string) error {
	return c.client.Set(ctx, c.key(p), roadName, c.ttl).Err()
}

func (c *RoadCache) key(p domain.GeoPoint) string {
	return fmt.Sprintf("geocode:road:%.5f:%.5f", p.Latitude, p.Longitude)
}
