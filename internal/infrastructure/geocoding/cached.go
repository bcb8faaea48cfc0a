package geocoding

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/api/metrics"
	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// RoadCache stores resolved road names by location.
type RoadCache interface {
	Get(ctx context.Context, p domain.GeoPoint) (string, bool, error)
	Set(ctx context.Context, p domain.GeoPoint, roadName string) error
}

// CachedResolver consults a RoadCache before delegating to another resolver.
// Only Found results are cached. Cache failures are logged and ignored.
type CachedResolver struct {
	next  ports.RoadResolver
	cache RoadCache
	log   zerolog.Logger
}

var _ ports.RoadResolver = (*CachedResolver)(nil)

func NewCachedResolver(next ports.RoadResolver, cache RoadCache, log zerolog.Logger) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, log: log}
}

func (c *CachedResolver) ResolveRoad(ctx context.Context, point domain.GeoPoint) domain.RoadLookupResult {
	name, hit, err := c.cache.Get(ctx, point)
	if err != nil {
		c.log.Warn().Err(err).Str("point", point.String()).Msg("geocode cache read failed")
	} else if hit {
		metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
		return domain.RoadFound(name)
	}
	metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()

	res := c.next.ResolveRoad(ctx, point)
	if res.Found() {
		if err := c.cache.Set(ctx, point, res.RoadName); err != nil {
			c.log.Warn().Err(err).Str("point", point.String()).Msg("geocode cache write failed")
		}
	}
	return res
}
