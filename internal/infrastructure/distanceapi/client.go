// Package distanceapi talks to the remote location service: distance
// calculation and nearby-point lookups share one endpoint and are told
// apart by the "action" field of the request body.
package distanceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20

	// noStoredPointsMessage is the backend's 404 text for an empty store.
	noStoredPointsMessage = "No stored points found"
)

// HTTPDoer is the subset of *http.Client the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the remote location service.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     HTTPDoer
	log      zerolog.Logger
}

var (
	_ ports.DistanceClient = (*Client)(nil)
	_ ports.PointSource    = (*Client)(nil)
)

// NewClient creates a Client for endpoint with the given per-call timeout.
func NewClient(endpoint string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewClientWithHTTPDoer(endpoint, timeout, &http.Client{Timeout: timeout}, log)
}

// NewClientWithHTTPDoer creates a Client that sends requests through doer.
func NewClientWithHTTPDoer(endpoint string, timeout time.Duration, doer HTTPDoer, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{endpoint: endpoint, timeout: timeout, http: doer, log: log}
}

type calculateDistanceRequest struct {
	Action     string  `json:"action"`
	Latitude1  float64 `json:"latitude1"`
	Longitude1 float64 `json:"longitude1"`
	Latitude2  float64 `json:"latitude2"`
	Longitude2 float64 `json:"longitude2"`
}

type distanceResponse struct {
	Distance json.RawMessage `json:"distance"`
	Unit     *string         `json:"unit"`
}

// ComputeDistance asks the remote service for the distance between two
// coordinates. Missing response fields default to "N/A" and "".
func (c *Client) ComputeDistance(ctx context.Context, q domain.DistanceQuery) (domain.DistanceResult, error) {
	body := calculateDistanceRequest{
		Action:     domain.ActionCalculateDistance,
		Latitude1:  q.Lat1,
		Longitude1: q.Lon1,
		Latitude2:  q.Lat2,
		Longitude2: q.Lon2,
	}

	raw, err := c.post(ctx, body)
	if err != nil {
		return domain.DistanceResult{}, fmt.Errorf("compute distance: %w", err)
	}

	var resp distanceResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.DistanceResult{}, fmt.Errorf("compute distance: %w: %v", domain.ErrParse, err)
	}

	result := domain.DistanceResult{Value: domain.DistanceUnavailable}
	if v, ok := distanceText(resp.Distance); ok {
		result.Value = v
	}
	if resp.Unit != nil {
		result.Unit = *resp.Unit
	}
	return result, nil
}

// distanceText renders the distance field whether it arrives as a JSON
// string or a number.
func distanceText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

type checkNearbyRequest struct {
	Action    string  `json:"action"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type checkNearbyResponse struct {
	NearbyPoints *[]domain.StoredRoadPoint `json:"nearbyPoints"`
}

// Name identifies this client as a point source.
func (c *Client) Name() string { return "remote" }

// PointsForRoad queries the remote service for points near q.Origin. The
// road name is not part of the remote contract. An empty backend store is
// an empty result, not a failure.
func (c *Client) PointsForRoad(ctx context.Context, q ports.PointQuery) ([]domain.ReferencePoint, error) {
	raw, err := c.post(ctx, checkNearbyRequest{
		Action:    domain.ActionCheckNearby,
		Latitude:  q.Origin.Latitude,
		Longitude: q.Origin.Longitude,
	})
	if isNoStoredPoints(err) {
		return []domain.ReferencePoint{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("nearby points: %w", err)
	}

	var resp checkNearbyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("nearby points: %w: %v", domain.ErrParse, err)
	}
	if resp.NearbyPoints == nil {
		return nil, fmt.Errorf("nearby points: %w: missing nearbyPoints", domain.ErrParse)
	}

	points := make([]domain.ReferencePoint, 0, len(*resp.NearbyPoints))
	for _, p := range *resp.NearbyPoints {
		points = append(points, p.ToReference())
	}
	return points, nil
}

type storeRoadPointRequest struct {
	Action    string  `json:"action"`
	RoadName  string  `json:"roadName"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Distance  float64 `json:"distance"`
}

// StoreRoadPoint registers a road point with the remote service.
func (c *Client) StoreRoadPoint(ctx context.Context, p domain.StoredRoadPoint) error {
	_, err := c.post(ctx, storeRoadPointRequest{
		Action:    domain.ActionStoreRoadPoint,
		RoadName:  p.RoadName,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Distance:  p.Distance,
	})
	if err != nil {
		return fmt.Errorf("store road point: %w", err)
	}
	return nil
}

// post sends body as JSON and returns the raw response body of a 2xx reply.
func (c *Client) post(ctx context.Context, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrInvalidArgument, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", c.endpoint).Msg("location service request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("location service response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, &statusError{code: resp.StatusCode, body: body})
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrNetwork, err)
	}
	return raw, nil
}

// statusError is a non-2xx reply from the location service.
type statusError struct {
	code int
	body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected response code %d", e.code)
}

// isNoStoredPoints reports whether err is the backend's 404 for an empty
// point store.
func isNoStoredPoints(err error) bool {
	var se *statusError
	if !errors.As(err, &se) || se.code != http.StatusNotFound {
		return false
	}
	var body struct {
		Error string `json:"error"`
	}
	return json.Unmarshal(se.body, &body) == nil && body.Error == noStoredPointsMessage
}
