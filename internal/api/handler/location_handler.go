package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/api/metrics"
	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// Location backend error texts. Clients match on these strings.
const (
	msgMissingAction     = "Missing action parameter"
	msgInvalidAction     = "Invalid action"
	msgMissingParameters = "Missing required parameters"
	msgMissingLatLon     = "Missing latitude or longitude"
	msgNoStoredPoints    = "No stored points found"
	msgStoreUnavailable  = "Point store not configured"
	msgInternal          = "Internal Server Error"
)

// LocationHandler serves the action-dispatched location backend endpoint.
type LocationHandler struct {
	backend ports.LocationBackend
	log     zerolog.Logger
}

func NewLocationHandler(backend ports.LocationBackend, log zerolog.Logger) *LocationHandler {
	return &LocationHandler{backend: backend, log: log}
}

// Handle serves POST /location. The "action" field selects
// calculateDistance, checkNearby or storeRoadPoint.
func (h *LocationHandler) Handle(c echo.Context) error {
	var req locationActionRequest
	if err := c.Bind(&req); err != nil {
		return h.reply(c, "unknown", http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	switch req.Action {
	case "":
		return h.reply(c, "unknown", http.StatusBadRequest, errorResponse{Error: msgMissingAction})
	case domain.ActionCalculateDistance:
		return h.calculateDistance(c, req)
	case domain.ActionCheckNearby:
		return h.checkNearby(c, req)
	case domain.ActionStoreRoadPoint:
		return h.storeRoadPoint(c, req)
	default:
		return h.reply(c, "unknown", http.StatusBadRequest, errorResponse{Error: msgInvalidAction})
	}
}

func (h *LocationHandler) calculateDistance(c echo.Context, req locationActionRequest) error {
	const action = domain.ActionCalculateDistance
	params := calculateDistanceParams{
		Latitude1: req.Latitude1, Longitude1: req.Longitude1,
		Latitude2: req.Latitude2, Longitude2: req.Longitude2,
	}
	if err := c.Validate(&params); err != nil {
		return h.invalid(c, action, err, msgMissingParameters)
	}

	result, err := h.backend.CalculateDistance(c.Request().Context(), domain.DistanceQuery{
		Lat1: *params.Latitude1, Lon1: *params.Longitude1,
		Lat2: *params.Latitude2, Lon2: *params.Longitude2,
	})
	if err != nil {
		return h.failure(c, action, err)
	}
	return h.reply(c, action, http.StatusOK, distanceResponse{Distance: result.Value, Unit: result.Unit})
}

func (h *LocationHandler) checkNearby(c echo.Context, req locationActionRequest) error {
	const action = domain.ActionCheckNearby
	params := checkNearbyParams{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := c.Validate(&params); err != nil {
		return h.invalid(c, action, err, msgMissingLatLon)
	}

	origin := domain.GeoPoint{Latitude: *params.Latitude, Longitude: *params.Longitude}
	result, err := h.backend.CheckNearby(c.Request().Context(), origin)
	if err != nil {
		return h.failure(c, action, err)
	}
	return h.reply(c, action, http.StatusOK, nearbyPointsResponse{NearbyPoints: result.Points, Count: result.Count})
}

func (h *LocationHandler) storeRoadPoint(c echo.Context, req locationActionRequest) error {
	const action = domain.ActionStoreRoadPoint
	params := storeRoadPointParams{RoadName: req.RoadName, Latitude: req.Latitude, Longitude: req.Longitude}
	if err := c.Validate(&params); err != nil {
		return h.invalid(c, action, err, msgMissingParameters)
	}

	point := domain.StoredRoadPoint{
		RoadName:  params.RoadName,
		Latitude:  *params.Latitude,
		Longitude: *params.Longitude,
	}
	if req.Distance != nil {
		point.Distance = *req.Distance
	}
	if err := h.backend.StoreRoadPoint(c.Request().Context(), point); err != nil {
		return h.failure(c, action, err)
	}
	return h.reply(c, action, http.StatusCreated, messageResponse{Message: "road point stored"})
}

// invalid answers a validation failure: missing fields get the action's
// missing-parameter text, anything else the validator's own message.
func (h *LocationHandler) invalid(c echo.Context, action string, err error, missingMsg string) error {
	var ve *validationError
	if errors.As(err, &ve) && !ve.missing() {
		return h.reply(c, action, http.StatusBadRequest, errorResponse{Error: ve.Error()})
	}
	return h.reply(c, action, http.StatusBadRequest, errorResponse{Error: missingMsg})
}

func (h *LocationHandler) failure(c echo.Context, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoStoredPoints):
		return h.reply(c, action, http.StatusNotFound, errorResponse{Error: msgNoStoredPoints})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return h.reply(c, action, http.StatusServiceUnavailable, errorResponse{Error: msgStoreUnavailable})
	case errors.Is(err, domain.ErrMissingParameters):
		return h.reply(c, action, http.StatusBadRequest, errorResponse{Error: msgMissingParameters})
	case errors.Is(err, domain.ErrInvalidArgument):
		return h.reply(c, action, http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	h.log.Error().Err(err).Str("action", action).Msg("location action failed")
	return h.reply(c, action, http.StatusInternalServerError, errorResponse{Error: msgInternal})
}

func (h *LocationHandler) reply(c echo.Context, action string, status int, body any) error {
	metrics.BackendActionsTotal.WithLabelValues(action, statusClass(status)).Inc()
	return c.JSON(status, body)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
