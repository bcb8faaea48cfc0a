package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestPipelineError_IsKindAndCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := NewPipelineError(ErrNetwork, "nearby points", cause)

	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork kind")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected underlying cause to be reachable")
	}
	if errors.Is(err, ErrRoadNotFound) {
		t.Errorf("did not expect ErrRoadNotFound")
	}
	if err.Error() != "network error: nearby points" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestPipelineError_RoadNotFoundCarriesMessage(t *testing.T) {
	var err error = NewPipelineError(ErrRoadNotFound, "timeout", nil)

	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PipelineError")
	}
	if pe.Message != "timeout" {
		t.Errorf("expected message timeout, got %q", pe.Message)
	}
	if !errors.Is(err, ErrRoadNotFound) {
		t.Errorf("expected ErrRoadNotFound")
	}
}

func TestClassifyKind(t *testing.T) {
	cases := map[error]error{
		ErrParse: ErrParse,
		fmt.Errorf("filter: %w", ErrInvalidArgument): ErrInvalidArgument,
		errors.New("boom"):                           ErrNetwork,
	}
	for in, want := range cases {
		if got := ClassifyKind(in); got != want {
			t.Errorf("ClassifyKind(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestGeoPoint_Validate(t *testing.T) {
	valid := []GeoPoint{{0, 0}, {90, 180}, {-90, -180}, {23.25186, 77.48454}}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("%v: unexpected error %v", p, err)
		}
	}

	invalid := []GeoPoint{{math.NaN(), 0}, {0, math.NaN()}, {91, 0}, {0, -181}}
	for _, p := range invalid {
		if err := p.Validate(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%v: expected ErrInvalidArgument, got %v", p, err)
		}
	}
}

func TestRoadLookupResult_Variants(t *testing.T) {
	if r := RoadFound("Main St"); !r.Found() || r.RoadName != "Main St" {
		t.Errorf("unexpected found result: %+v", r)
	}
	if r := RoadNotFound(); r.Found() || r.Status != LookupNotFound {
		t.Errorf("unexpected not-found result: %+v", r)
	}
	if r := RoadLookupFailed("timeout"); r.Status != LookupError || r.Message != "timeout" {
		t.Errorf("unexpected error result: %+v", r)
	}
}

func TestDistanceResult_Text(t *testing.T) {
	if got := (DistanceResult{Value: "1.25", Unit: "km"}).Text(); got != "Distance: 1.25 km" {
		t.Errorf("unexpected text %q", got)
	}
	if got := (DistanceResult{Value: DistanceUnavailable}).Text(); got != "Distance: N/A" {
		t.Errorf("unexpected text %q", got)
	}
}
