package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// SessionOptions tune a SessionService.
type SessionOptions struct {
	RadiusMeters float64
	// SecondaryDistance asks the remote distance service for the distance
	// between the first nearby point and the fix after each successful run.
	SecondaryDistance bool
}

// SessionService drives one location fix through the pipeline and into the
// presenter.
type SessionService struct {
	proximity ports.ProximityService
	distance  ports.DistanceClient
	presenter ports.Presenter
	opts      SessionOptions
	logger    zerolog.Logger
}

var _ ports.SessionService = (*SessionService)(nil)

// NewSessionService wires a session. distance may be nil, which disables the
// secondary distance call regardless of opts.
func NewSessionService(
	proximity ports.ProximityService,
	distance ports.DistanceClient,
	presenter ports.Presenter,
	opts SessionOptions,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		proximity: proximity,
		distance:  distance,
		presenter: presenter,
		opts:      opts,
		logger:    logger,
	}
}

// Cycle shows the fix, runs the pipeline and renders the outcome. A failed
// run produces exactly one Notify call and leaves earlier renders in place.
func (s *SessionService) Cycle(ctx context.Context, fix domain.LocationFix) error {
	s.presenter.ShowLocation(fix)

	origin := fix.Coordinates
	result, err := s.proximity.FindNearbyPoints(ctx, origin, s.opts.RadiusMeters)
	if err != nil {
		s.presenter.Notify(failureMessage(err))
		return err
	}

	s.presenter.RenderPoints(result.RoadName, result.Points)

	if !s.opts.SecondaryDistance || s.distance == nil || len(result.Points) == 0 {
		return nil
	}

	first := result.Points[0].Location
	dist, err := s.distance.ComputeDistance(ctx, domain.DistanceQuery{
		Lat1: first.Latitude,
		Lon1: first.Longitude,
		Lat2: origin.Latitude,
		Lon2: origin.Longitude,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("origin", origin.String()).Msg("distance lookup failed")
		s.presenter.Notify(failureMessage(err))
		return err
	}

	s.presenter.ShowDistance(dist)
	return nil
}

// failureMessage renders err as the short text shown to the user.
func failureMessage(err error) string {
	var pe *domain.PipelineError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case domain.ErrRoadNotFound:
			return fmt.Sprintf("Road not found: %s", pe.Message)
		case domain.ErrInvalidArgument:
			return fmt.Sprintf("Invalid location: %s", pe.Message)
		case domain.ErrParse:
			return fmt.Sprintf("Unexpected response: %s", pe.Message)
		}
		return fmt.Sprintf("Network error: %s", pe.Message)
	}
	if errors.Is(err, domain.ErrParse) {
		return fmt.Sprintf("Unexpected response: %v", err)
	}
	return fmt.Sprintf("Network error: %v", err)
}
