package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pacer enforces a minimum delay between the end of one call and the start
// of the next. Callers sharing a Pacer are serialised. Each Pacer keeps its
// own clock.
type Pacer struct {
	delay time.Duration
	logFn func() *slog.Logger
	sem   chan struct{}
	last  time.Time
}

// NewPacer returns a Pacer with the given delay. A zero delay only
// serialises callers. logFn may be nil.
func NewPacer(delay time.Duration, logFn func() *slog.Logger) (*Pacer, error) {
	if delay < 0 {
		return nil, fmt.Errorf("pacer delay[%s]: %w", delay, ErrNegativeDelay)
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	return &Pacer{
		delay: delay,
		logFn: logFn,
		sem:   make(chan struct{}, 1),
	}, nil
}

// Delay returns the configured minimum spacing.
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// Do waits for its turn and for the delay to elapse since the previous call
// finished, then runs fn. The finish time of fn is recorded whether or not
// it fails.
func (p *Pacer) Do(ctx context.Context, fn func() error) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w awaiting turn: %w", ErrContextEnded, ctx.Err())
	}
	defer func() { <-p.sem }()

	if !p.last.IsZero() {
		if wait := time.Until(p.last.Add(p.delay)); wait > 0 {
			if logger := p.logFn(); logger != nil {
				logger.Debug("pacing request", "wait", wait.String(), "delay", p.delay.String())
			}

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w while pacing: %w", ErrContextEnded, ctx.Err())
			}
		}
	}

	defer func() { p.last = time.Now() }()

	return fn()
}
