// Package geocoding resolves coordinates to road names through a
// Nominatim-compatible reverse-geocoding endpoint.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/roadproximity/proximity/internal/api/metrics"
	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// DefaultRoadFields lists the address fields probed for a road name, in
// priority order.
var DefaultRoadFields = []string{"road", "street", "pedestrian", "path", "footway", "highway"}

// HTTPDoer is the subset of *http.Client the resolver needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config captures the settings of the reverse-geocoding client.
type Config struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
	// RatePerSec bounds outbound requests; <= 0 disables limiting.
	RatePerSec float64
	// Fields overrides DefaultRoadFields when non-empty.
	Fields []string
}

// Resolver implements ports.RoadResolver against a reverse-geocoding service.
type Resolver struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	fields    []string
	limiter   *rate.Limiter
	http      HTTPDoer
	log       zerolog.Logger
}

var _ ports.RoadResolver = (*Resolver)(nil)

// NewResolver creates a Resolver using a dedicated *http.Client.
func NewResolver(cfg Config, log zerolog.Logger) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewResolverWithHTTPDoer(cfg, &http.Client{Timeout: timeout}, log)
}

// NewResolverWithHTTPDoer creates a Resolver that sends requests through doer.
func NewResolverWithHTTPDoer(cfg Config, doer HTTPDoer, log zerolog.Logger) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	fields := cfg.Fields
	if len(fields) == 0 {
		fields = DefaultRoadFields
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	return &Resolver{
		baseURL:   cfg.URL,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		fields:    fields,
		limiter:   rate.NewLimiter(limit, 1),
		http:      doer,
		log:       log,
	}
}

// ResolveRoad performs one reverse-geocoding request. Every failure is
// reported as a LookupError result; it never panics or returns an error.
func (r *Resolver) ResolveRoad(ctx context.Context, point domain.GeoPoint) domain.RoadLookupResult {
	res := r.resolve(ctx, point)
	metrics.GeocodeLookupsTotal.WithLabelValues(res.Status.String()).Inc()

	ev := r.log.Debug()
	if res.Status == domain.LookupError {
		ev = r.log.Warn()
	}
	ev.Str("point", point.String()).
		Str("result", res.Status.String()).
		Str("road", res.RoadName).
		Str("error", res.Message).
		Msg("reverse geocode")
	return res
}

func (r *Resolver) resolve(ctx context.Context, point domain.GeoPoint) domain.RoadLookupResult {
	if err := point.Validate(); err != nil {
		return domain.RoadLookupFailed(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.limiter.Wait(ctx); err != nil {
		return domain.RoadLookupFailed(fmt.Sprintf("rate limit wait: %v", err))
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(point.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.RoadLookupFailed(fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return domain.RoadLookupFailed(fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.RoadLookupFailed(fmt.Sprintf("unexpected response code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.RoadLookupFailed(fmt.Sprintf("failed to read response: %v", err))
	}

	name, ok, err := ExtractRoadName(body, r.fields)
	if err != nil {
		return domain.RoadLookupFailed(err.Error())
	}
	if !ok {
		return domain.RoadNotFound()
	}
	return domain.RoadFound(name)
}

type reverseResponse struct {
	Address map[string]any `json:"address"`
}

// ExtractRoadName returns the first non-empty string among fields in the
// "address" object of a reverse-geocoding body. ok is false when the address
// object is absent or no field matches; err is set for malformed JSON.
func ExtractRoadName(body []byte, fields []string) (name string, ok bool, err error) {
	var payload reverseResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false, fmt.Errorf("error processing response: %w", err)
	}
	if payload.Address == nil {
		return "", false, nil
	}
	for _, f := range fields {
		if v, found := payload.Address[f].(string); found && v != "" {
			return v, true, nil
		}
	}
	return "", false, nil
}
