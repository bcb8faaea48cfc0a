package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/api/handler"
	"github.com/roadproximity/proximity/internal/api/middleware"
	"github.com/roadproximity/proximity/internal/api/presenter"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer routes to.
type Dependencies struct {
	Proximity     ports.ProximityService
	Fixes         handler.FixSubmitter
	Latest        handler.LatestFix
	View          *presenter.ViewState
	DefaultRadius float64

	// Backend serves POST /location; the route is absent when nil.
	Backend ports.LocationBackend

	// ReadinessChecks are run by /health/ready, keyed by dependency name.
	ReadinessChecks map[string]handler.DependencyCheck

	// Registerer receives the HTTP request metrics. Defaults to the
	// Prometheus default registerer.
	Registerer prometheus.Registerer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "proximity",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Location backend ---
	if deps.Backend != nil {
		locationHandler := handler.NewLocationHandler(deps.Backend, deps.Logger)
		e.POST("/location", locationHandler.Handle)
	}

	// --- Session API ---
	sessionHandler := handler.NewSessionHandler(deps.Proximity, deps.Fixes, deps.Latest, deps.View, deps.DefaultRadius)
	v1 := e.Group("/v1")
	v1.POST("/fixes", sessionHandler.SubmitFix)
	v1.GET("/location", sessionHandler.Location)
	v1.GET("/proximity", sessionHandler.Proximity)
	v1.GET("/session", sessionHandler.Session)
	v1.GET("/session/points.kml", sessionHandler.SessionKML)

	return e
}
