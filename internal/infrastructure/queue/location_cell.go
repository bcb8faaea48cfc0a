package queue

import (
	"sync/atomic"

	"github.com/roadproximity/proximity/internal/core/domain"
)

// LocationCell holds the most recent location fix. One writer, many readers.
type LocationCell struct {
	latest atomic.Pointer[domain.LocationFix]
}

// Store replaces the current fix.
func (c *LocationCell) Store(fix domain.LocationFix) {
	c.latest.Store(&fix)
}

// Load returns the current fix and whether one has been stored.
func (c *LocationCell) Load() (domain.LocationFix, bool) {
	p := c.latest.Load()
	if p == nil {
		return domain.LocationFix{}, false
	}
	return *p, true
}
