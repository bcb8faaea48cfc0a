package domain

import "fmt"

// DistanceQuery is the request sent to the remote distance service.
type DistanceQuery struct {
	Lat1 float64
	Lon1 float64
	Lat2 float64
	Lon2 float64
}

// DistanceResult is the remote distance service answer. Value stays textual
// because the service may return either a number or a formatted string.
type DistanceResult struct {
	Value string
	Unit  string
}

const DistanceUnavailable = "N/A"

// Actions understood by the location service endpoint.
const (
	ActionCalculateDistance = "calculateDistance"
	ActionCheckNearby       = "checkNearby"
	ActionStoreRoadPoint    = "storeRoadPoint"
)

// Text renders the result the way it is shown to the user.
func (r DistanceResult) Text() string {
	if r.Unit == "" {
		return fmt.Sprintf("Distance: %s", r.Value)
	}
	return fmt.Sprintf("Distance: %s %s", r.Value, r.Unit)
}

// StoredRoadPoint is the storage shape used by the location backend.
type StoredRoadPoint struct {
	RoadName  string  `json:"roadName"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance"`
}

// ToReference converts a stored point into a ReferencePoint.
func (p StoredRoadPoint) ToReference() ReferencePoint {
	return ReferencePoint{
		RoadName:        p.RoadName,
		Location:        GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude},
		DistanceToQuery: p.Distance,
	}
}
