// Package geomath holds the pure geometry used by the proximity pipeline:
// great-circle distance and radius filtering. Nothing here performs I/O.
package geomath

import (
	"fmt"
	"math"
	"sort"

	"github.com/roadproximity/proximity/internal/core/domain"
)

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between a and b.
func DistanceMeters(a, b domain.GeoPoint) (float64, error) {
	if math.IsNaN(a.Latitude) || math.IsNaN(a.Longitude) || math.IsNaN(b.Latitude) || math.IsNaN(b.Longitude) {
		return 0, fmt.Errorf("distance: %w: latitude or longitude is not a number", domain.ErrInvalidArgument)
	}

	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c, nil
}

// DistanceKilometers is DistanceMeters scaled to kilometers.
func DistanceKilometers(a, b domain.GeoPoint) (float64, error) {
	m, err := DistanceMeters(a, b)
	if err != nil {
		return 0, err
	}
	return m / 1000, nil
}

// FilterByRadius computes the distance from origin to every candidate, records
// it in DistanceToQuery and keeps the candidates within radiusMeters.
// Output order follows input order; use SortByDistance for nearest-first.
// An empty candidate list yields an empty result.
func FilterByRadius(origin domain.GeoPoint, candidates []domain.ReferencePoint, radiusMeters float64) ([]domain.ReferencePoint, error) {
	if math.IsNaN(radiusMeters) || radiusMeters < 0 {
		return nil, fmt.Errorf("filter: %w: radius %v", domain.ErrInvalidArgument, radiusMeters)
	}
	if math.IsNaN(origin.Latitude) || math.IsNaN(origin.Longitude) {
		return nil, fmt.Errorf("filter: %w: origin is not a number", domain.ErrInvalidArgument)
	}

	nearby := make([]domain.ReferencePoint, 0, len(candidates))
	for i := range candidates {
		d, err := DistanceMeters(origin, candidates[i].Location)
		if err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
		candidates[i].DistanceToQuery = d
		if d <= radiusMeters {
			nearby = append(nearby, candidates[i])
		}
	}
	return nearby, nil
}

// SortByDistance orders points nearest-first, keeping the input order for ties.
func SortByDistance(points []domain.ReferencePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].DistanceToQuery < points[j].DistanceToQuery
	})
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
