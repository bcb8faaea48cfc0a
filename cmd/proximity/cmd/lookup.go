package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roadproximity/proximity/internal/api/presenter"
	"github.com/roadproximity/proximity/internal/app"
	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/geomath"
)

var (
	lookupLat    float64
	lookupLon    float64
	lookupRadius float64
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Run the proximity pipeline once for a coordinate",
	Example: `  proximity lookup --lat 23.25186 --lon 77.48454
  proximity lookup --lat 23.25186 --lon 77.48454 --radius 250`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return lookup(cmd)
	},
}

func init() {
	lookupCmd.Flags().Float64Var(&lookupLat, "lat", 0, "latitude in decimal degrees")
	lookupCmd.Flags().Float64Var(&lookupLon, "lon", 0, "longitude in decimal degrees")
	lookupCmd.Flags().Float64VarP(&lookupRadius, "radius", "r", 0, "search radius in meters, overrides SEARCH_RADIUS_METERS")
	_ = lookupCmd.MarkFlagRequired("lat")
	_ = lookupCmd.MarkFlagRequired("lon")
}

func lookup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	radius := cfg.Pipeline.RadiusMeters
	if cmd.Flags().Changed("radius") {
		radius = lookupRadius
	}

	origin := domain.GeoPoint{Latitude: lookupLat, Longitude: lookupLon}
	result, err := a.Proximity.FindNearbyPoints(ctx, origin, radius)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", origin, err)
	}

	// Pipeline order is catalog order; print nearest first.
	geomath.SortByDistance(result.Points)
	presenter.NewConsole(cmd.OutOrStdout()).RenderPoints(result.RoadName, result.Points)
	return nil
}
