package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadproximity/proximity/internal/api/presenter"
	"github.com/roadproximity/proximity/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var errStoreDown = errors.New("redis: connection refused")

type stubProximity struct {
	result     domain.NearbyResult
	err        error
	lastOrigin domain.GeoPoint
	lastRadius float64
}

func (p *stubProximity) FindNearbyPoints(_ context.Context, origin domain.GeoPoint, radius float64) (domain.NearbyResult, error) {
	p.lastOrigin = origin
	p.lastRadius = radius
	return p.result, p.err
}

type stubFixes struct {
	submitted []domain.LocationFix
	err       error
}

func (s *stubFixes) Submit(fix domain.LocationFix) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, fix)
	return nil
}

type stubLatest struct {
	fix *domain.LocationFix
}

func (l stubLatest) Load() (domain.LocationFix, bool) {
	if l.fix == nil {
		return domain.LocationFix{}, false
	}
	return *l.fix, true
}

func newSessionHandler(prox *stubProximity, fixes *stubFixes, latest stubLatest) *SessionHandler {
	h := NewSessionHandler(prox, fixes, latest, presenter.NewViewState(), 1000)
	h.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return h
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSessionHandler_SubmitFix(t *testing.T) {
	fixes := &stubFixes{}
	h := newSessionHandler(&stubProximity{}, fixes, stubLatest{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/v1/fixes", strings.NewReader(`{"latitude":23.25186,"longitude":77.48454,"speed":3.5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.SubmitFix(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(fixes.submitted) != 1 {
		t.Fatalf("expected one submitted fix, got %d", len(fixes.submitted))
	}
	got := fixes.submitted[0]
	if got.Coordinates.Latitude != 23.25186 || got.Speed == nil || *got.Speed != 3.5 {
		t.Errorf("unexpected fix: %+v", got)
	}
	if got.TimestampMillis != 1_700_000_000_000 {
		t.Errorf("expected receipt timestamp, got %d", got.TimestampMillis)
	}
}

func TestSessionHandler_SubmitFix_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing longitude": `{"latitude":23.25}`,
		"latitude range":    `{"latitude":123,"longitude":77}`,
		"negative speed":    `{"latitude":23,"longitude":77,"speed":-1}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fixes := &stubFixes{}
			h := newSessionHandler(&stubProximity{}, fixes, stubLatest{})
			e := newTestEcho()

			req := httptest.NewRequest(http.MethodPost, "/v1/fixes", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			err := h.SubmitFix(e.NewContext(req, rec))
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422 HTTPError, got %v", err)
			}
			if len(fixes.submitted) != 0 {
				t.Errorf("invalid fix must not be submitted")
			}
		})
	}
}

func TestSessionHandler_Location(t *testing.T) {
	e := newTestEcho()

	h := newSessionHandler(&stubProximity{}, &stubFixes{}, stubLatest{})
	req := httptest.NewRequest(http.MethodGet, "/v1/location", nil)
	err := h.Location(e.NewContext(req, httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrNoLocation) {
		t.Fatalf("expected ErrNoLocation, got %v", err)
	}

	fix := domain.LocationFix{Coordinates: domain.GeoPoint{Latitude: 1, Longitude: 2}, TimestampMillis: 5}
	h = newSessionHandler(&stubProximity{}, &stubFixes{}, stubLatest{fix: &fix})
	rec := httptest.NewRecorder()
	if err := h.Location(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got domain.LocationFix
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.TimestampMillis != 5 || got.Coordinates.Longitude != 2 {
		t.Errorf("unexpected fix: %+v", got)
	}
}

func TestSessionHandler_Proximity(t *testing.T) {
	prox := &stubProximity{result: domain.NearbyResult{
		RoadName: "Raisen Road",
		Points: []domain.ReferencePoint{{
			RoadName:        "Raisen Road diff",
			Location:        domain.GeoPoint{Latitude: 23.251858, Longitude: 77.484537},
			DistanceToQuery: 0.3,
		}},
	}}
	h := newSessionHandler(prox, &stubFixes{}, stubLatest{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/v1/proximity?lat=23.25186&lon=77.48454", nil)
	rec := httptest.NewRecorder()
	if err := h.Proximity(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if prox.lastRadius != 1000 {
		t.Errorf("expected default radius, got %v", prox.lastRadius)
	}
	var resp proximityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.RoadName != "Raisen Road" || resp.Count != 1 || resp.Origin.Latitude != 23.25186 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSessionHandler_Proximity_BadQuery(t *testing.T) {
	h := newSessionHandler(&stubProximity{}, &stubFixes{}, stubLatest{})
	e := newTestEcho()

	for _, q := range []string{"", "?lat=1", "?lat=x&lon=2", "?lat=1&lon=2&radius=far"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/proximity"+q, nil)
		err := h.Proximity(e.NewContext(req, httptest.NewRecorder()))
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %v", q, err)
		}
	}
}

func TestSessionHandler_Proximity_PassesPipelineError(t *testing.T) {
	pipelineErr := domain.NewPipelineError(domain.ErrRoadNotFound, "timeout", nil)
	prox := &stubProximity{err: pipelineErr}
	h := newSessionHandler(prox, &stubFixes{}, stubLatest{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/v1/proximity?lat=1&lon=2&radius=50", nil)
	err := h.Proximity(e.NewContext(req, httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrRoadNotFound) {
		t.Errorf("expected pipeline error, got %v", err)
	}
	if prox.lastRadius != 50 {
		t.Errorf("expected radius 50, got %v", prox.lastRadius)
	}
}

func TestSessionHandler_SessionAndKML(t *testing.T) {
	view := presenter.NewViewState()
	view.RenderPoints("Raisen Road", []domain.ReferencePoint{{
		RoadName: "Raisen Road diff",
		Location: domain.GeoPoint{Latitude: 23.251858, Longitude: 77.484537},
	}})
	h := NewSessionHandler(&stubProximity{}, &stubFixes{}, stubLatest{}, view, 1000)
	e := newTestEcho()

	rec := httptest.NewRecorder()
	if err := h.Session(e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/session", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var snap presenter.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if snap.RoadName != "Raisen Road" || len(snap.Points) != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	rec = httptest.NewRecorder()
	if err := h.SessionKML(e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/session/points.kml", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/vnd.google-earth.kml+xml" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("<Placemark>")) {
		t.Errorf("expected a placemark in %s", rec.Body.String())
	}
}
