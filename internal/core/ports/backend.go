package ports

import (
	"context"

	"github.com/roadproximity/proximity/internal/core/domain"
)

// RoadPointStore persists road points for the location backend.
type RoadPointStore interface {
	Store(ctx context.Context, p domain.StoredRoadPoint) error
	All(ctx context.Context) ([]domain.StoredRoadPoint, error)
}

// NearbyPointsResult is the answer to a checkNearby action.
type NearbyPointsResult struct {
	Points []domain.StoredRoadPoint
	Count  int
}

// LocationBackend implements the actions served on the location endpoint.
type LocationBackend interface {
	CalculateDistance(ctx context.Context, q domain.DistanceQuery) (domain.DistanceResult, error)
	CheckNearby(ctx context.Context, origin domain.GeoPoint) (*NearbyPointsResult, error)
	StoreRoadPoint(ctx context.Context, p domain.StoredRoadPoint) error
}
