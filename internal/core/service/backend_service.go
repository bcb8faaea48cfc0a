package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/geomath"
	"github.com/roadproximity/proximity/internal/core/ports"
)

const unitKilometers = "km"

// BackendService implements the location backend actions over a point store.
// With a nil store only CalculateDistance is served; the store-backed actions
// return ErrStoreUnavailable.
type BackendService struct {
	store    ports.RoadPointStore
	radiusKm float64
	logger   zerolog.Logger
}

var _ ports.LocationBackend = (*BackendService)(nil)

func NewBackendService(store ports.RoadPointStore, radiusKm float64, logger zerolog.Logger) *BackendService {
	return &BackendService{store: store, radiusKm: radiusKm, logger: logger}
}

// CalculateDistance returns the great-circle distance between the two query
// points in kilometers, rounded to two decimals.
func (s *BackendService) CalculateDistance(_ context.Context, q domain.DistanceQuery) (domain.DistanceResult, error) {
	km, err := geomath.DistanceKilometers(
		domain.GeoPoint{Latitude: q.Lat1, Longitude: q.Lon1},
		domain.GeoPoint{Latitude: q.Lat2, Longitude: q.Lon2},
	)
	if err != nil {
		return domain.DistanceResult{}, err
	}
	return domain.DistanceResult{Value: fmt.Sprintf("%.2f", km), Unit: unitKilometers}, nil
}

// CheckNearby returns the stored points within the configured radius of
// origin. Distance on each returned point is meters from origin.
func (s *BackendService) CheckNearby(ctx context.Context, origin domain.GeoPoint) (*ports.NearbyPointsResult, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	stored, err := s.store.All(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load stored points")
		return nil, fmt.Errorf("check nearby: %w", err)
	}
	if len(stored) == 0 {
		return nil, domain.ErrNoStoredPoints
	}

	radiusMeters := s.radiusKm * 1000
	nearby := make([]domain.StoredRoadPoint, 0, len(stored))
	for _, p := range stored {
		d, err := geomath.DistanceMeters(origin, domain.GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude})
		if err != nil {
			// A corrupt entry must not hide the rest of the list.
			continue
		}
		if d <= radiusMeters {
			p.Distance = d
			nearby = append(nearby, p)
		}
	}

	s.logger.Debug().Str("origin", origin.String()).Int("stored", len(stored)).Int("nearby", len(nearby)).Msg("nearby check completed")
	return &ports.NearbyPointsResult{Points: nearby, Count: len(nearby)}, nil
}

// StoreRoadPoint validates and appends p to the store.
func (s *BackendService) StoreRoadPoint(ctx context.Context, p domain.StoredRoadPoint) error {
	p.RoadName = strings.TrimSpace(p.RoadName)
	if p.RoadName == "" {
		return fmt.Errorf("%w: roadName", domain.ErrMissingParameters)
	}
	if _, err := domain.NewGeoPoint(p.Latitude, p.Longitude); err != nil {
		return err
	}
	if s.store == nil {
		return domain.ErrStoreUnavailable
	}

	if err := s.store.Store(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("road", p.RoadName).Msg("failed to store road point")
		return fmt.Errorf("store road point: %w", err)
	}
	s.logger.Info().Str("road", p.RoadName).Float64("lat", p.Latitude).Float64("lon", p.Longitude).Msg("road point stored")
	return nil
}
