// Package app assembles the proximity components from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/roadproximity/proximity/internal/api"
	"github.com/roadproximity/proximity/internal/api/handler"
	"github.com/roadproximity/proximity/internal/api/presenter"
	"github.com/roadproximity/proximity/internal/core/ports"
	"github.com/roadproximity/proximity/internal/core/service"
	"github.com/roadproximity/proximity/internal/infrastructure/catalog"
	mongostore "github.com/roadproximity/proximity/internal/infrastructure/db/mongo"
	redisstore "github.com/roadproximity/proximity/internal/infrastructure/db/redis"
	"github.com/roadproximity/proximity/internal/infrastructure/distanceapi"
	"github.com/roadproximity/proximity/internal/infrastructure/geocoding"
	"github.com/roadproximity/proximity/internal/infrastructure/queue"
	"github.com/roadproximity/proximity/internal/pkg/config"
	"github.com/roadproximity/proximity/pkg/logger"
)

// App owns the long-lived components and their connections.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	Proximity *service.ProximityService
	Distance  *distanceapi.Client
	// Backend serves calculateDistance always; the stored-point actions
	// need Redis.
	Backend *service.BackendService
	Cell    *queue.LocationCell

	// Registerer receives the HTTP request metrics. Nil means the
	// Prometheus default registerer.
	Registerer prometheus.Registerer

	redis       *goredis.Client
	mongo       *gomongo.Client
	mongoDB     *gomongo.Database
	readiness   map[string]handler.DependencyCheck
	pointSource ports.PointSource
}

// New connects the configured backing services and builds the pipeline.
// Redis is connected only when REDIS_ADDR is set, MongoDB only when it
// backs the point source.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{
		cfg:       cfg,
		log:       log,
		Cell:      &queue.LocationCell{},
		readiness: make(map[string]handler.DependencyCheck),
	}

	if err := a.connect(ctx); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	a.Distance = distanceapi.NewClient(cfg.DistanceAPI.URL, cfg.DistanceAPI.Timeout, logger.Component(log, "distanceapi"))

	source, err := a.buildPointSource(ctx)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	a.pointSource = source

	a.Proximity = service.NewProximityService(a.buildResolver(), source, logger.Component(log, "pipeline"))

	var store ports.RoadPointStore
	if a.redis != nil {
		store = redisstore.NewPointStore(a.redis)
	}
	a.Backend = service.NewBackendService(store, cfg.Backend.NearbyRadiusKm, logger.Component(log, "backend"))

	log.Info().
		Str("point_source", source.Name()).
		Bool("redis", a.redis != nil).
		Bool("geocode_cache", cfg.Geocoder.CacheEnabled).
		Msg("application assembled")
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	if a.cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: a.cfg.Redis.Addr, DB: a.cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("app: %w", err)
		}
		a.redis = rdb
		a.readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	if a.cfg.Pipeline.PointSource == config.PointSourceMongo {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return fmt.Errorf("app: %w", err)
		}
		a.mongo = client
		a.mongoDB = db
		a.readiness["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}
	return nil
}

func (a *App) buildResolver() ports.RoadResolver {
	log := logger.Component(a.log, "geocoder")
	var resolver ports.RoadResolver = geocoding.NewResolver(geocoding.Config{
		URL:        a.cfg.Geocoder.URL,
		UserAgent:  a.cfg.Geocoder.UserAgent,
		Timeout:    a.cfg.Geocoder.Timeout,
		RatePerSec: a.cfg.Geocoder.RatePerSec,
	}, log)

	if a.cfg.Geocoder.CacheEnabled && a.redis != nil {
		cache := redisstore.NewRoadCache(a.redis, a.cfg.Geocoder.CacheTTL)
		resolver = geocoding.NewCachedResolver(resolver, cache, log)
	}
	return resolver
}

func (a *App) buildPointSource(ctx context.Context) (ports.PointSource, error) {
	switch a.cfg.Pipeline.PointSource {
	case config.PointSourceRemote:
		return a.Distance, nil
	case config.PointSourceMongo:
		c := mongostore.NewCatalog(a.mongoDB)
		if err := c.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("app: reference point indexes: %w", err)
		}
		n, err := c.SeedIfEmpty(ctx, a.cfg.Pipeline.Anchor())
		if err != nil {
			return nil, fmt.Errorf("app: seed reference points: %w", err)
		}
		if n > 0 {
			a.log.Info().Int("points", n).Msg("seeded empty reference point catalog with anchor")
		}
		return c, nil
	default:
		return catalog.NewStatic(a.cfg.Pipeline.Anchor()), nil
	}
}

// NewSession builds a session that renders into p.
func (a *App) NewSession(p ports.Presenter) *service.SessionService {
	var distance ports.DistanceClient
	if a.cfg.Pipeline.SecondaryDistance {
		distance = a.Distance
	}
	return service.NewSessionService(a.Proximity, distance, p, service.SessionOptions{
		RadiusMeters:      a.cfg.Pipeline.RadiusMeters,
		SecondaryDistance: a.cfg.Pipeline.SecondaryDistance,
	}, logger.Component(a.log, "session"))
}

// NewDispatcher builds the single-worker fix dispatcher for session. The
// run timeout covers every outbound call one cycle can make.
func (a *App) NewDispatcher(session ports.SessionService) *queue.FixDispatcher {
	runTimeout := a.cfg.Geocoder.Timeout + 2*a.cfg.DistanceAPI.Timeout
	return queue.NewFixDispatcher(session, a.Cell, runTimeout, logger.Component(a.log, "dispatcher"))
}

// NewRouter builds the HTTP API around dispatcher and view.
func (a *App) NewRouter(dispatcher *queue.FixDispatcher, view *presenter.ViewState) *echo.Echo {
	deps := api.Dependencies{
		Proximity:       a.Proximity,
		Fixes:           dispatcher,
		Latest:          a.Cell,
		View:            view,
		DefaultRadius:   a.cfg.Pipeline.RadiusMeters,
		Backend:         a.Backend,
		ReadinessChecks: a.readiness,
		Registerer:      a.Registerer,
		Logger:          logger.Component(a.log, "http"),
	}
	return api.NewRouter(deps)
}

// PointSourceName reports the active point source.
func (a *App) PointSourceName() string { return a.pointSource.Name() }

// Close releases the backing connections.
func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
