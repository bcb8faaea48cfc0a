package ports

import (
	"context"

	"github.com/roadproximity/proximity/internal/core/domain"
)

// Presenter is the UI collaborator a session renders into. Calls for one
// pipeline run are made sequentially from a single goroutine.
type Presenter interface {
	ShowLocation(fix domain.LocationFix)
	RenderPoints(roadName string, points []domain.ReferencePoint)
	ShowDistance(result domain.DistanceResult)
	// Notify shows a short, non-blocking message. It must not clear
	// previously rendered data.
	Notify(message string)
}

// FixSource is the location provider: a subscription of fixes plus a
// one-shot current position.
type FixSource interface {
	Subscribe(ctx context.Context) (<-chan domain.LocationFix, error)
	Current(ctx context.Context) (domain.LocationFix, error)
}

// SessionService processes one location fix end to end.
type SessionService interface {
	Cycle(ctx context.Context, fix domain.LocationFix) error
}
