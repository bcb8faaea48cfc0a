package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadproximity/proximity/internal/api/presenter"
	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// FixSubmitter is the interface the handler uses to hand fixes to the session.
type FixSubmitter interface {
	Submit(fix domain.LocationFix) error
}

// LatestFix reads the most recent location fix.
type LatestFix interface {
	Load() (domain.LocationFix, bool)
}

// SessionHandler serves the tracking session and on-demand proximity queries.
type SessionHandler struct {
	proximity     ports.ProximityService
	fixes         FixSubmitter
	latest        LatestFix
	view          *presenter.ViewState
	defaultRadius float64
	now           func() time.Time
}

func NewSessionHandler(
	proximity ports.ProximityService,
	fixes FixSubmitter,
	latest LatestFix,
	view *presenter.ViewState,
	defaultRadius float64,
) *SessionHandler {
	return &SessionHandler{
		proximity:     proximity,
		fixes:         fixes,
		latest:        latest,
		view:          view,
		defaultRadius: defaultRadius,
		now:           time.Now,
	}
}

// SubmitFix handles POST /v1/fixes. It queues a location fix, returns 202.
// A missing timestamp is set to the time of receipt.
func (h *SessionHandler) SubmitFix(c echo.Context) error {
	var req fixRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	fix := domain.LocationFix{
		Coordinates:     domain.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude},
		Speed:           req.Speed,
		TimestampMillis: req.Timestamp,
	}
	if fix.TimestampMillis == 0 {
		fix.TimestampMillis = h.now().UnixMilli()
	}

	if err := h.fixes.Submit(fix); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "fix accepted"})
}

// Location handles GET /v1/location with the latest known fix.
func (h *SessionHandler) Location(c echo.Context) error {
	fix, ok := h.latest.Load()
	if !ok {
		return domain.ErrNoLocation
	}
	return c.JSON(http.StatusOK, fix)
}

// Proximity handles GET /v1/proximity?lat=&lon=&radius= and runs the pipeline
// once for the given origin without touching the session view.
func (h *SessionHandler) Proximity(c echo.Context) error {
	var lat, lon float64
	radius := h.defaultRadius
	err := echo.QueryParamsBinder(c).
		MustFloat64("lat", &lat).
		MustFloat64("lon", &lon).
		Float64("radius", &radius).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lat and lon are required numbers, radius must be a number")
	}

	origin := domain.GeoPoint{Latitude: lat, Longitude: lon}
	result, err := h.proximity.FindNearbyPoints(c.Request().Context(), origin, radius)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, proximityResponse{
		Origin:       origin,
		RadiusMeters: radius,
		RoadName:     result.RoadName,
		Points:       result.Points,
		Count:        len(result.Points),
	})
}

// Session handles GET /v1/session with the current rendered view.
func (h *SessionHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view.Snapshot())
}

// SessionKML handles GET /v1/session/points.kml.
func (h *SessionHandler) SessionKML(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.google-earth.kml+xml")
	res.WriteHeader(http.StatusOK)
	return h.view.WriteKML(res)
}
