// Package presenter holds the Presenter implementations: an in-memory view
// state served over HTTP and a line-oriented console writer.
package presenter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/twpayne/go-kml"
	"github.com/twpayne/go-polyline"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// Snapshot is the rendered session state at one instant.
type Snapshot struct {
	Location  *domain.LocationFix     `json:"location,omitempty"`
	RoadName  string                  `json:"roadName,omitempty"`
	Points    []domain.ReferencePoint `json:"points"`
	Polyline  string                  `json:"polyline,omitempty"`
	Distance  string                  `json:"distance,omitempty"`
	Message   string                  `json:"message,omitempty"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// ViewState keeps the latest render for polling clients. Notify only sets
// the message; rendered location, points and distance are left untouched.
// RenderPoints starts a new render, so it drops the previous distance.
type ViewState struct {
	mu    sync.RWMutex
	state Snapshot
	now   func() time.Time
}

var _ ports.Presenter = (*ViewState)(nil)

func NewViewState() *ViewState {
	return &ViewState{state: Snapshot{Points: []domain.ReferencePoint{}}, now: time.Now}
}

func (v *ViewState) ShowLocation(fix domain.LocationFix) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Location = &fix
	v.touch()
}

func (v *ViewState) RenderPoints(roadName string, points []domain.ReferencePoint) {
	cp := make([]domain.ReferencePoint, len(points))
	copy(cp, points)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.RoadName = roadName
	v.state.Points = cp
	v.state.Polyline = EncodePolyline(cp)
	v.state.Distance = ""
	v.state.Message = ""
	v.touch()
}

func (v *ViewState) ShowDistance(result domain.DistanceResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Distance = result.Text()
	v.touch()
}

func (v *ViewState) Notify(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Message = message
	v.touch()
}

// Snapshot returns a copy of the current state.
func (v *ViewState) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := v.state
	s.Points = make([]domain.ReferencePoint, len(v.state.Points))
	copy(s.Points, v.state.Points)
	if v.state.Location != nil {
		loc := *v.state.Location
		s.Location = &loc
	}
	return s
}

// WriteKML writes the current markers, and the device location when known,
// as a KML document.
func (v *ViewState) WriteKML(w io.Writer) error {
	s := v.Snapshot()
	return WriteKML(w, s.RoadName, s.Points, s.Location)
}

func (v *ViewState) touch() { v.state.UpdatedAt = v.now().UTC() }

// WriteKML renders points as placemarks. location may be nil.
func WriteKML(w io.Writer, roadName string, points []domain.ReferencePoint, location *domain.LocationFix) error {
	name := roadName
	if name == "" {
		name = "Nearby points"
	}

	children := []kml.Element{kml.Name(name)}
	if location != nil {
		children = append(children, placemark("Current location", location.Coordinates))
	}
	for _, p := range points {
		label := fmt.Sprintf("%s (%.1f m)", p.RoadName, p.DistanceToQuery)
		children = append(children, placemark(label, p.Location))
	}

	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}

func placemark(name string, p domain.GeoPoint) kml.Element {
	return kml.Placemark(
		kml.Name(name),
		kml.Point(kml.Coordinates(kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude})),
	)
}

// EncodePolyline encodes point locations, in order, as a Google encoded polyline.
func EncodePolyline(points []domain.ReferencePoint) string {
	if len(points) == 0 {
		return ""
	}
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Location.Latitude, p.Location.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}
