package presenter

import (
	"fmt"
	"io"
	"sync"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

// Console writes each presenter call as one line of text.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

var _ ports.Presenter = (*Console)(nil)

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) ShowLocation(fix domain.LocationFix) {
	if fix.Speed != nil {
		c.printf("location %s speed %.1f m/s\n", fix.Coordinates, *fix.Speed)
		return
	}
	c.printf("location %s\n", fix.Coordinates)
}

func (c *Console) RenderPoints(roadName string, points []domain.ReferencePoint) {
	c.printf("road %q: %d point(s) nearby\n", roadName, len(points))
	for _, p := range points {
		c.printf("  %s %s %.1f m\n", p.RoadName, p.Location, p.DistanceToQuery)
	}
}

func (c *Console) ShowDistance(result domain.DistanceResult) {
	c.printf("%s\n", result.Text())
}

func (c *Console) Notify(message string) {
	c.printf("! %s\n", message)
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, format, args...)
}
