package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/core/domain"
)

func newBackendSvc(store *stubPointStore) *BackendService {
	return NewBackendService(store, 2, zerolog.Nop())
}

func TestBackendService_CalculateDistance(t *testing.T) {
	svc := newBackendSvc(&stubPointStore{})

	// Kolkata to Delhi.
	got, err := svc.CalculateDistance(context.Background(), domain.DistanceQuery{
		Lat1: 22.5726, Lon1: 88.3639,
		Lat2: 28.7041, Lon2: 77.1025,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got.Value != "1317.75" || got.Unit != "km" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestBackendService_CalculateDistance_NaN(t *testing.T) {
	svc := newBackendSvc(&stubPointStore{})

	_, err := svc.CalculateDistance(context.Background(), domain.DistanceQuery{Lat1: math.NaN()})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBackendService_CheckNearby(t *testing.T) {
	store := &stubPointStore{stored: []domain.StoredRoadPoint{
		{RoadName: "Raisen Road", Latitude: 23.251858252142124, Longitude: 77.48453767393227},
		{RoadName: "Near", Latitude: 23.2563714, Longitude: 77.48669},
		{RoadName: "Park Avenue Bhopal", Latitude: 23.2599, Longitude: 77.4126},
	}}
	svc := newBackendSvc(store)

	got, err := svc.CheckNearby(context.Background(), raisenOrigin)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got.Count != 2 || len(got.Points) != 2 {
		t.Fatalf("expected 2 nearby points, got %+v", got)
	}
	if got.Points[0].RoadName != "Raisen Road" || got.Points[1].RoadName != "Near" {
		t.Errorf("expected stored order preserved, got %+v", got.Points)
	}
	if math.Abs(got.Points[1].Distance-547.6) > 1 {
		t.Errorf("expected distance in meters (~547.6), got %f", got.Points[1].Distance)
	}
}

func TestBackendService_CheckNearby_NoStoredPoints(t *testing.T) {
	svc := newBackendSvc(&stubPointStore{})

	_, err := svc.CheckNearby(context.Background(), raisenOrigin)
	if !errors.Is(err, domain.ErrNoStoredPoints) {
		t.Errorf("expected ErrNoStoredPoints, got %v", err)
	}
}

func TestBackendService_CheckNearby_StoreError(t *testing.T) {
	svc := newBackendSvc(&stubPointStore{loadErr: errBoom})

	_, err := svc.CheckNearby(context.Background(), raisenOrigin)
	if !errors.Is(err, errBoom) {
		t.Errorf("expected store error to be wrapped, got %v", err)
	}
}

func TestBackendService_StoreRoadPoint(t *testing.T) {
	store := &stubPointStore{}
	svc := newBackendSvc(store)

	err := svc.StoreRoadPoint(context.Background(), domain.StoredRoadPoint{
		RoadName: "  MG Road ", Latitude: 23.2332, Longitude: 77.4343,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(store.stored) != 1 || store.stored[0].RoadName != "MG Road" {
		t.Errorf("unexpected stored points: %+v", store.stored)
	}
}

func TestBackendService_StoreRoadPoint_Rejects(t *testing.T) {
	store := &stubPointStore{}
	svc := newBackendSvc(store)

	err := svc.StoreRoadPoint(context.Background(), domain.StoredRoadPoint{Latitude: 1, Longitude: 1})
	if !errors.Is(err, domain.ErrMissingParameters) {
		t.Errorf("expected ErrMissingParameters for empty road, got %v", err)
	}

	err = svc.StoreRoadPoint(context.Background(), domain.StoredRoadPoint{RoadName: "X", Latitude: 91})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for bad latitude, got %v", err)
	}

	if len(store.stored) != 0 {
		t.Errorf("rejected points must not be stored")
	}
}

func TestBackendService_WithoutStore(t *testing.T) {
	svc := NewBackendService(nil, 2, zerolog.Nop())

	got, err := svc.CalculateDistance(context.Background(), domain.DistanceQuery{
		Lat1: 22.5726, Lon1: 88.3639,
		Lat2: 28.7041, Lon2: 77.1025,
	})
	if err != nil || got.Value != "1317.75" {
		t.Errorf("expected distance without a store, got %+v, %v", got, err)
	}

	_, err = svc.CheckNearby(context.Background(), domain.GeoPoint{Latitude: 23.25, Longitude: 77.48})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable from CheckNearby, got %v", err)
	}

	err = svc.StoreRoadPoint(context.Background(), domain.StoredRoadPoint{RoadName: "Raisen Road", Latitude: 23.25, Longitude: 77.48})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable from StoreRoadPoint, got %v", err)
	}
}
