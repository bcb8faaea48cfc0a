package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/api/metrics"
	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

const defaultRunTimeout = 45 * time.Second

// FixDispatcher feeds location fixes to a SessionService from a single
// worker. At most one run is in flight; fixes that arrive meanwhile are
// coalesced so only the newest one runs next.
type FixDispatcher struct {
	service    ports.SessionService
	cell       *LocationCell
	next       atomic.Pointer[domain.LocationFix]
	wake       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
	runTimeout time.Duration
	log        zerolog.Logger
}

// NewFixDispatcher creates a dispatcher that records every submitted fix in
// cell. If runTimeout <= 0, defaultRunTimeout is used.
func NewFixDispatcher(service ports.SessionService, cell *LocationCell, runTimeout time.Duration, log zerolog.Logger) *FixDispatcher {
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}
	if cell == nil {
		cell = &LocationCell{}
	}
	return &FixDispatcher{
		service:    service,
		cell:       cell,
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
		runTimeout: runTimeout,
		log:        log,
	}
}

// Cell exposes the latest-fix cell the dispatcher writes to.
func (d *FixDispatcher) Cell() *LocationCell { return d.cell }

// Submit records fix as the latest location and schedules a run for it.
// It never blocks.
func (d *FixDispatcher) Submit(fix domain.LocationFix) error {
	if err := fix.Coordinates.Validate(); err != nil {
		return fmt.Errorf("submit fix: %w", err)
	}

	metrics.FixesReceivedTotal.Inc()
	d.cell.Store(fix)
	if prev := d.next.Swap(&fix); prev != nil {
		metrics.FixesCoalescedTotal.Inc()
		d.log.Debug().Str("dropped", prev.Coordinates.String()).Msg("fix superseded before run")
	}

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Start launches the worker goroutine. It stops when ctx is cancelled.
func (d *FixDispatcher) Start(ctx context.Context) {
	go func() { _ = d.Run(ctx) }()
}

// Close tells Run to finish the pending fix, if any, and return.
func (d *FixDispatcher) Close() {
	d.closeOnce.Do(func() { close(d.done) })
}

// Run processes fixes until ctx is cancelled or Close is called.
func (d *FixDispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.done:
			if fix := d.next.Swap(nil); fix != nil {
				d.process(ctx, *fix)
			}
			return nil
		case <-d.wake:
			fix := d.next.Swap(nil)
			if fix == nil {
				continue
			}
			d.process(ctx, *fix)
		}
	}
}

func (d *FixDispatcher) process(ctx context.Context, fix domain.LocationFix) {
	runCtx, cancel := context.WithTimeout(ctx, d.runTimeout)
	defer cancel()

	if err := d.service.Cycle(runCtx, fix); err != nil {
		d.log.Error().Err(err).
			Str("origin", fix.Coordinates.String()).
			Int64("timestamp", fix.TimestampMillis).
			Msg("fix processing failed")
	}
}
