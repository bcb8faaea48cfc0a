package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/roadproximity/proximity/internal/core/domain"
)

// Point source backends selectable through POINT_SOURCE.
const (
	PointSourceLocal  = "local"
	PointSourceRemote = "remote"
	PointSourceMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Geocoder    GeocoderConfig
	DistanceAPI DistanceAPIConfig
	Pipeline    PipelineConfig
	Backend     BackendConfig
	Mongo       MongoConfig
	Redis       RedisConfig
}

type GeocoderConfig struct {
	URL          string        `env:"GEOCODER_URL,          default=https://nominatim.openstreetmap.org/reverse"`
	UserAgent    string        `env:"GEOCODER_USER_AGENT,   default=com.roadproximity.proximity"`
	Timeout      time.Duration `env:"GEOCODER_TIMEOUT,      default=10s"`
	RatePerSec   float64       `env:"GEOCODER_RATE,         default=1"`
	CacheEnabled bool          `env:"GEOCODE_CACHE_ENABLED, default=false"`
	CacheTTL     time.Duration `env:"GEOCODE_CACHE_TTL,     default=24h"`
}

type DistanceAPIConfig struct {
	URL     string        `env:"DISTANCE_API_URL,     default=http://localhost:8080/location"`
	Timeout time.Duration `env:"DISTANCE_API_TIMEOUT, default=30s"`
}

type PipelineConfig struct {
	PointSource       string        `env:"POINT_SOURCE,         default=local"`
	RadiusMeters      float64       `env:"SEARCH_RADIUS_METERS, default=1000"`
	AnchorName        string        `env:"ANCHOR_NAME,          default=Raisen Road diff"`
	AnchorLat         float64       `env:"ANCHOR_LAT,           default=23.251858252142124"`
	AnchorLon         float64       `env:"ANCHOR_LON,           default=77.48453767393227"`
	FixInterval       time.Duration `env:"FIX_INTERVAL,         default=1s"`
	SecondaryDistance bool          `env:"SECONDARY_DISTANCE,   default=true"`
}

type BackendConfig struct {
	NearbyRadiusKm float64 `env:"NEARBY_RADIUS_KM, default=2"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=proximity"`
}

// RedisConfig is optional: an empty REDIS_ADDR disables the stored-point
// actions and the geocode cache.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Anchor returns the configured seed reference point.
func (p PipelineConfig) Anchor() domain.ReferencePoint {
	return domain.ReferencePoint{
		RoadName: p.AnchorName,
		Location: domain.GeoPoint{Latitude: p.AnchorLat, Longitude: p.AnchorLon},
	}
}

// Validate checks the values envconfig cannot express as tags.
func (c *Config) Validate() error {
	switch c.Pipeline.PointSource {
	case PointSourceLocal, PointSourceRemote, PointSourceMongo:
	default:
		return fmt.Errorf("config: unknown POINT_SOURCE %q", c.Pipeline.PointSource)
	}
	if c.Pipeline.RadiusMeters < 0 {
		return fmt.Errorf("config: SEARCH_RADIUS_METERS must not be negative")
	}
	if err := c.Pipeline.Anchor().Location.Validate(); err != nil {
		return fmt.Errorf("config: anchor: %w", err)
	}
	if c.Geocoder.Timeout <= 0 || c.DistanceAPI.Timeout <= 0 {
		return fmt.Errorf("config: outbound timeouts must be positive")
	}
	if c.Geocoder.CacheEnabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: GEOCODE_CACHE_ENABLED requires REDIS_ADDR")
	}
	return nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
