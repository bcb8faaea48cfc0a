package handler

import "github.com/roadproximity/proximity/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Location backend ---

// locationActionRequest is the union of every action's parameters. Pointers
// distinguish a missing value from zero.
type locationActionRequest struct {
	Action     string   `json:"action"`
	Latitude1  *float64 `json:"latitude1"`
	Longitude1 *float64 `json:"longitude1"`
	Latitude2  *float64 `json:"latitude2"`
	Longitude2 *float64 `json:"longitude2"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	RoadName   string   `json:"roadName"`
	Distance   *float64 `json:"distance"`
}

type calculateDistanceParams struct {
	Latitude1  *float64 `validate:"required,latitude"`
	Longitude1 *float64 `validate:"required,longitude"`
	Latitude2  *float64 `validate:"required,latitude"`
	Longitude2 *float64 `validate:"required,longitude"`
}

type checkNearbyParams struct {
	Latitude  *float64 `validate:"required,latitude"`
	Longitude *float64 `validate:"required,longitude"`
}

type storeRoadPointParams struct {
	RoadName  string   `validate:"required"`
	Latitude  *float64 `validate:"required,latitude"`
	Longitude *float64 `validate:"required,longitude"`
}

type distanceResponse struct {
	Distance string `json:"distance"`
	Unit     string `json:"unit"`
}

type nearbyPointsResponse struct {
	NearbyPoints []domain.StoredRoadPoint `json:"nearbyPoints"`
	Count        int                      `json:"count"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Session API ---

type fixRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Speed     *float64 `json:"speed"     validate:"omitempty,gte=0"`
	Timestamp int64    `json:"timestamp" validate:"gte=0"`
}

type proximityResponse struct {
	Origin       domain.GeoPoint         `json:"origin"`
	RadiusMeters float64                 `json:"radiusMeters"`
	RoadName     string                  `json:"roadName"`
	Points       []domain.ReferencePoint `json:"points"`
	Count        int                     `json:"count"`
}
