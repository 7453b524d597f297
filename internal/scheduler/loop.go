package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultInterval is how long the loop waits between ticks, measured
	// from tick completion so a slow tick never overlaps the next one
	// under normal conditions.
	DefaultInterval = 15 * time.Minute

	// DefaultBootstrapBackoff is how long the loop waits before retrying a
	// failed bootstrap instead of terminating the process.
	DefaultBootstrapBackoff = 5 * time.Minute
)

// BootstrapFunc prepares whatever the loop needs before its first tick,
// typically the notification log schema.
type BootstrapFunc func(ctx context.Context) error

// Loop drives the periodic scans: bootstrap with backoff, then run the
// entity scans sequentially every interval until the context is cancelled.
type Loop struct {
	scanners  []*Scanner
	bootstrap BootstrapFunc
	status    *Status
	clock     Clock
	interval  time.Duration
	backoff   time.Duration
	logger    zerolog.Logger
}

// LoopOptions overrides timing defaults; zero values keep them.
type LoopOptions struct {
	Interval         time.Duration
	BootstrapBackoff time.Duration
	Clock            Clock
}

func NewLoop(scanners []*Scanner, bootstrap BootstrapFunc, status *Status, logger zerolog.Logger, opts LoopOptions) *Loop {
	l := &Loop{
		scanners:  scanners,
		bootstrap: bootstrap,
		status:    status,
		clock:     opts.Clock,
		interval:  opts.Interval,
		backoff:   opts.BootstrapBackoff,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
	if l.clock == nil {
		l.clock = SystemClock()
	}
	if l.interval <= 0 {
		l.interval = DefaultInterval
	}
	if l.backoff <= 0 {
		l.backoff = DefaultBootstrapBackoff
	}
	return l
}

// Run blocks until the context is cancelled. It only ever returns the
// context's error: scan failures and panics are contained per tick, and a
// failing bootstrap is retried with backoff rather than surfaced.
func (l *Loop) Run(ctx context.Context) error {
	l.status.SetState(StateBootstrapping)
	for {
		err := l.bootstrap(ctx)
		if err == nil {
			break
		}
		l.logger.Error().Err(err).Dur("retry_in", l.backoff).Msg("bootstrap failed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(l.backoff):
		}
	}

	l.status.SetState(StateRunning)
	l.logger.Info().Dur("interval", l.interval).Msg("scheduler running")

	for {
		l.tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(l.interval):
		}
	}
}

// tick runs the three entity scans sequentially. A failing scan is logged
// and the remaining scans still run; a panic is contained here so the loop
// survives anything a tick throws at it.
func (l *Loop) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("recovered from panic in tick")
		}
	}()

	start := l.clock.Now()
	stats := make([]ScanStats, 0, len(l.scanners))
	for _, s := range l.scanners {
		scanStats, err := s.Run(ctx, l.clock.Now())
		if err != nil {
			l.logger.Error().Err(err).Str("item_type", string(s.cfg.Kind)).Msg("scan failed")
			continue
		}
		stats = append(stats, scanStats)
	}
	l.status.RecordTick(start, stats)

	var scanned, sent int
	for _, st := range stats {
		scanned += st.Scanned
		sent += st.Sent
	}
	l.logger.Info().
		Int("scanned", scanned).
		Int("sent", sent).
		Dur("took", l.clock.Now().Sub(start)).
		Msg("tick complete")
}
