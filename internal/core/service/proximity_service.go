package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/api/metrics"
	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/geomath"
	"github.com/roadproximity/proximity/internal/core/ports"
)

const msgRoadNotFound = "no road found at this location"

// ProximityService runs the road-proximity pipeline against one point source.
type ProximityService struct {
	resolver ports.RoadResolver
	source   ports.PointSource
	logger   zerolog.Logger
}

var _ ports.ProximityService = (*ProximityService)(nil)

func NewProximityService(resolver ports.RoadResolver, source ports.PointSource, logger zerolog.Logger) *ProximityService {
	return &ProximityService{resolver: resolver, source: source, logger: logger}
}

// FindNearbyPoints resolves the road under origin, loads its reference points
// and keeps those within radiusMeters. Every failure is a *domain.PipelineError.
func (s *ProximityService) FindNearbyPoints(ctx context.Context, origin domain.GeoPoint, radiusMeters float64) (domain.NearbyResult, error) {
	start := time.Now()
	result, err := s.run(ctx, origin, radiusMeters)

	outcome := outcomeLabel(err)
	metrics.PipelineRunsTotal.WithLabelValues(s.source.Name(), outcome).Inc()
	metrics.PipelineDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Warn().Err(err).Str("origin", origin.String()).Str("source", s.source.Name()).Msg("proximity pipeline failed")
		return domain.NearbyResult{}, err
	}

	metrics.PointsReturned.Observe(float64(len(result.Points)))
	s.logger.Info().
		Str("origin", origin.String()).
		Str("road", result.RoadName).
		Int("points", len(result.Points)).
		Dur("took", time.Since(start)).
		Msg("proximity pipeline completed")
	return result, nil
}

func (s *ProximityService) run(ctx context.Context, origin domain.GeoPoint, radiusMeters float64) (domain.NearbyResult, error) {
	if err := origin.Validate(); err != nil {
		return domain.NearbyResult{}, domain.NewPipelineError(domain.ErrInvalidArgument, err.Error(), err)
	}

	lookup := s.resolver.ResolveRoad(ctx, origin)
	switch lookup.Status {
	case domain.LookupError:
		return domain.NearbyResult{}, domain.NewPipelineError(domain.ErrRoadNotFound, lookup.Message, nil)
	case domain.LookupNotFound:
		return domain.NearbyResult{}, domain.NewPipelineError(domain.ErrRoadNotFound, msgRoadNotFound, nil)
	}

	candidates, err := s.source.PointsForRoad(ctx, ports.PointQuery{RoadName: lookup.RoadName, Origin: origin})
	if err != nil {
		return domain.NearbyResult{}, domain.NewPipelineError(domain.ClassifyKind(err), err.Error(), err)
	}

	nearby, err := geomath.FilterByRadius(origin, candidates, radiusMeters)
	if err != nil {
		return domain.NearbyResult{}, domain.NewPipelineError(domain.ErrInvalidArgument, err.Error(), err)
	}

	return domain.NearbyResult{RoadName: lookup.RoadName, Points: nearby}, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var pe *domain.PipelineError
	if !errors.As(err, &pe) {
		return "network"
	}
	switch pe.Kind {
	case domain.ErrRoadNotFound:
		return "road_not_found"
	case domain.ErrInvalidArgument:
		return "invalid_argument"
	case domain.ErrParse:
		return "parse"
	default:
		return "network"
	}
}
