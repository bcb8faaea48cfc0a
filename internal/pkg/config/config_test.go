package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Pipeline.PointSource != PointSourceLocal {
		t.Errorf("expected local point source, got %q", cfg.Pipeline.PointSource)
	}
	if cfg.Geocoder.Timeout != 10*time.Second {
		t.Errorf("expected 10s geocoder timeout, got %v", cfg.Geocoder.Timeout)
	}
	if cfg.DistanceAPI.Timeout != 30*time.Second {
		t.Errorf("expected 30s distance timeout, got %v", cfg.DistanceAPI.Timeout)
	}
	anchor := cfg.Pipeline.Anchor()
	if anchor.RoadName != "Raisen Road diff" || anchor.Location.Latitude != 23.251858252142124 {
		t.Errorf("unexpected anchor: %+v", anchor)
	}
	if cfg.Backend.NearbyRadiusKm != 2 {
		t.Errorf("expected 2km nearby radius, got %v", cfg.Backend.NearbyRadiusKm)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"POINT_SOURCE":          "remote",
		"SEARCH_RADIUS_METERS":  "250",
		"GEOCODER_TIMEOUT":      "15s",
		"REDIS_ADDR":            "localhost:6379",
		"GEOCODE_CACHE_ENABLED": "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pipeline.PointSource != PointSourceRemote {
		t.Errorf("expected remote, got %q", cfg.Pipeline.PointSource)
	}
	if cfg.Pipeline.RadiusMeters != 250 {
		t.Errorf("expected radius 250, got %v", cfg.Pipeline.RadiusMeters)
	}
	if cfg.Geocoder.Timeout != 15*time.Second {
		t.Errorf("expected 15s, got %v", cfg.Geocoder.Timeout)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown point source": {"POINT_SOURCE": "satellite"},
		"negative radius":      {"SEARCH_RADIUS_METERS": "-5"},
		"anchor out of range":  {"ANCHOR_LAT": "123"},
		"cache without redis":  {"GEOCODE_CACHE_ENABLED": "true"},
		"zero timeout":         {"GEOCODER_TIMEOUT": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
