// Package cmd holds the proximity command-line interface.
package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roadproximity/proximity/internal/pkg/config"
	"github.com/roadproximity/proximity/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "proximity",
	Short: "Road proximity service",
	Long: `proximity resolves the road under a location and lists the known reference
points on that road within a search radius.

Configuration is read from environment variables (see SEARCH_RADIUS_METERS,
POINT_SOURCE, GEOCODER_URL, DISTANCE_API_URL, REDIS_ADDR and MONGO_URI).`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, lookupCmd, trackCmd)
}

// setup loads configuration and initialises the process logger.
func setup(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "proximity",
	})
	return cfg, log, nil
}
