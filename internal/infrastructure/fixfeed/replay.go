// Package fixfeed replays recorded location fixes as a live subscription.
package fixfeed

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

const maxLineBytes = 64 * 1024

var errAlreadySubscribed = errors.New("fix feed already subscribed")

// Replay emits one JSON-encoded domain.LocationFix per input line, paced by
// interval. Blank lines are ignored; lines that fail to decode or validate
// are logged and skipped.
type Replay struct {
	r        io.Reader
	interval time.Duration
	log      zerolog.Logger

	once    sync.Once
	current atomic.Pointer[domain.LocationFix]
}

var _ ports.FixSource = (*Replay)(nil)

// NewReplay creates a Replay over r. interval <= 0 emits fixes back to back.
func NewReplay(r io.Reader, interval time.Duration, log zerolog.Logger) *Replay {
	return &Replay{r: r, interval: interval, log: log}
}

// Subscribe starts the replay. The returned channel is closed once input is
// exhausted or ctx is cancelled. A Replay can be subscribed once.
func (f *Replay) Subscribe(ctx context.Context) (<-chan domain.LocationFix, error) {
	started := false
	f.once.Do(func() { started = true })
	if !started {
		return nil, errAlreadySubscribed
	}

	out := make(chan domain.LocationFix)
	go f.run(ctx, out)
	return out, nil
}

// Current returns the most recently emitted fix.
func (f *Replay) Current(_ context.Context) (domain.LocationFix, error) {
	p := f.current.Load()
	if p == nil {
		return domain.LocationFix{}, domain.ErrNoLocation
	}
	return *p, nil
}

func (f *Replay) run(ctx context.Context, out chan<- domain.LocationFix) {
	defer close(out)

	var tick <-chan time.Time
	if f.interval > 0 {
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	scanner := bufio.NewScanner(f.r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	emitted := 0
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		fix, err := decodeFix(raw)
		if err != nil {
			f.log.Warn().Err(err).Int("line", line).Msg("skipping fix")
			continue
		}

		// The first fix goes out immediately, later ones wait for a tick.
		if emitted > 0 && tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-tick:
			}
		}

		select {
		case <-ctx.Done():
			return
		case out <- fix:
			f.current.Store(&fix)
			emitted++
		}
	}
	if err := scanner.Err(); err != nil {
		f.log.Error().Err(err).Int("line", line).Msg("fix feed read failed")
	}
	f.log.Info().Int("fixes", emitted).Msg("fix feed exhausted")
}

func decodeFix(raw []byte) (domain.LocationFix, error) {
	var fix domain.LocationFix
	if err := json.Unmarshal(raw, &fix); err != nil {
		return domain.LocationFix{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if err := fix.Coordinates.Validate(); err != nil {
		return domain.LocationFix{}, err
	}
	return fix, nil
}
