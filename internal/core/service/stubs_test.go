package service

import (
	"context"
	"errors"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Shared stubs
// ---------------------------------------------------------------------------

var (
	raisenSeed = domain.ReferencePoint{
		RoadName: "Raisen Road diff",
		Location: domain.GeoPoint{Latitude: 23.251858252142124, Longitude: 77.48453767393227},
	}
	raisenOrigin = domain.GeoPoint{Latitude: 23.25186, Longitude: 77.48454}
)

type stubResolver struct {
	result domain.RoadLookupResult
	calls  int
}

func (r *stubResolver) ResolveRoad(_ context.Context, _ domain.GeoPoint) domain.RoadLookupResult {
	r.calls++
	return r.result
}

type stubSource struct {
	points    []domain.ReferencePoint
	err       error
	lastQuery ports.PointQuery
	calls     int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) PointsForRoad(_ context.Context, q ports.PointQuery) ([]domain.ReferencePoint, error) {
	s.calls++
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.ReferencePoint, len(s.points))
	copy(out, s.points)
	return out, nil
}

type stubDistance struct {
	result    domain.DistanceResult
	err       error
	lastQuery domain.DistanceQuery
	calls     int
}

func (d *stubDistance) ComputeDistance(_ context.Context, q domain.DistanceQuery) (domain.DistanceResult, error) {
	d.calls++
	d.lastQuery = q
	return d.result, d.err
}

// recordingPresenter captures every call in order.
type recordingPresenter struct {
	locations []domain.LocationFix
	roads     []string
	points    [][]domain.ReferencePoint
	distances []domain.DistanceResult
	notices   []string
}

func (p *recordingPresenter) ShowLocation(fix domain.LocationFix) {
	p.locations = append(p.locations, fix)
}

func (p *recordingPresenter) RenderPoints(road string, points []domain.ReferencePoint) {
	p.roads = append(p.roads, road)
	p.points = append(p.points, points)
}

func (p *recordingPresenter) ShowDistance(r domain.DistanceResult) {
	p.distances = append(p.distances, r)
}

func (p *recordingPresenter) Notify(msg string) {
	p.notices = append(p.notices, msg)
}

type stubPointStore struct {
	stored  []domain.StoredRoadPoint
	loadErr error
	saveErr error
}

func (s *stubPointStore) Store(_ context.Context, p domain.StoredRoadPoint) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.stored = append(s.stored, p)
	return nil
}

func (s *stubPointStore) All(_ context.Context) ([]domain.StoredRoadPoint, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]domain.StoredRoadPoint, len(s.stored))
	copy(out, s.stored)
	return out, nil
}

var errBoom = errors.New("boom")
