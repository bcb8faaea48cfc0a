package ports

import (
	"context"

	"github.com/roadproximity/proximity/internal/core/domain"
)

// RoadResolver turns coordinates into a road name. Implementations never
// return transport or parse failures as Go errors; they are folded into
// a domain.RoadLookupResult of status LookupError.
type RoadResolver interface {
	ResolveRoad(ctx context.Context, point domain.GeoPoint) domain.RoadLookupResult
}

// PointQuery carries what a PointSource may key on. Road-keyed catalogs use
// RoadName, origin-keyed backends use Origin.
type PointQuery struct {
	RoadName string
	Origin   domain.GeoPoint
}

// PointSource returns candidate reference points for a resolved road.
// An empty slice means "no points", never an error.
type PointSource interface {
	Name() string
	PointsForRoad(ctx context.Context, q PointQuery) ([]domain.ReferencePoint, error)
}

// DistanceClient calls the remote distance calculation service.
type DistanceClient interface {
	ComputeDistance(ctx context.Context, q domain.DistanceQuery) (domain.DistanceResult, error)
}

// ProximityService is the proximity pipeline: resolve road, fetch points,
// filter by radius.
type ProximityService interface {
	FindNearbyPoints(ctx context.Context, origin domain.GeoPoint, radiusMeters float64) (domain.NearbyResult, error)
}
