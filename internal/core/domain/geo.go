package domain

import (
	"fmt"
	"math"
)

// GeoPoint is an immutable latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// NewGeoPoint returns a validated GeoPoint.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	p := GeoPoint{Latitude: lat, Longitude: lon}
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// Validate reports ErrInvalidArgument when a coordinate is NaN or out of range.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return fmt.Errorf("%w: coordinate is not a number", ErrInvalidArgument)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f outside [-90, 90]", ErrInvalidArgument, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f outside [-180, 180]", ErrInvalidArgument, p.Longitude)
	}
	return nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}

// ReferencePoint is a known point along a road.
// DistanceToQuery is in meters and is only meaningful for the origin of the
// filter pass that set it.
type ReferencePoint struct {
	RoadName        string   `json:"roadName"`
	Location        GeoPoint `json:"location"`
	DistanceToQuery float64  `json:"distanceToQuery"`
}

// LocationFix is one sampled device position.
type LocationFix struct {
	Coordinates     GeoPoint `json:"coordinates"`
	Speed           *float64 `json:"speed,omitempty"` // m/s, optional
	TimestampMillis int64    `json:"timestamp"`
}

// NearbyResult is the outcome of a successful pipeline run.
type NearbyResult struct {
	RoadName string           `json:"roadName"`
	Points   []ReferencePoint `json:"points"`
}
