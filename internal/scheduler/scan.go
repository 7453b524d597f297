package scheduler

import (
	"context"
	"time"

	"reminderd/internal/guard"
	"reminderd/internal/models"
	"reminderd/internal/recurrence"

	"github.com/rs/zerolog"
)

// Lead-time offsets: how far ahead of an item's trigger time its reminder
// fires. The window around each offset is widened by a fixed slack to absorb
// tick jitter, and the log lookback bounds "already notified this cadence".
const (
	TaskOffset        = 24 * time.Hour
	MeetingOffset     = time.Hour
	AppointmentOffset = 24 * time.Hour

	WindowSlack = 5 * time.Minute

	TaskLookback        = 23 * time.Hour
	MeetingLookback     = 2 * time.Hour
	AppointmentLookback = 23 * time.Hour
)

// ListFunc selects items whose trigger time falls inside the window,
// inclusive on both ends.
type ListFunc func(ctx context.Context, windowStart, windowEnd time.Time) ([]models.ReminderItem, error)

// Dispatcher sends a reminder for an item. It reports whether a message
// actually went out (preference gating may suppress one without error).
type Dispatcher interface {
	Dispatch(ctx context.Context, item models.ReminderItem, now time.Time) (bool, error)
}

// NotificationLog is the persisted half of the dedup guard.
type NotificationLog interface {
	WasNotified(ctx context.Context, kind models.ItemKind, itemID uint, since time.Time) (bool, error)
}

// ScanConfig carries the per-entity tuning for one scan: which kind it
// covers, its window geometry, its dedup lookback, and its query.
type ScanConfig struct {
	Kind     models.ItemKind
	Offset   time.Duration
	Slack    time.Duration
	Lookback time.Duration
	List     ListFunc
}

// TaskScan returns the scan configuration for tasks.
func TaskScan(list ListFunc) ScanConfig {
	return ScanConfig{Kind: models.KindTask, Offset: TaskOffset, Slack: WindowSlack, Lookback: TaskLookback, List: list}
}

// MeetingScan returns the scan configuration for meetings.
func MeetingScan(list ListFunc) ScanConfig {
	return ScanConfig{Kind: models.KindMeeting, Offset: MeetingOffset, Slack: WindowSlack, Lookback: MeetingLookback, List: list}
}

// AppointmentScan returns the scan configuration for appointments.
func AppointmentScan(list ListFunc) ScanConfig {
	return ScanConfig{Kind: models.KindAppointment, Offset: AppointmentOffset, Slack: WindowSlack, Lookback: AppointmentLookback, List: list}
}

// ScanStats summarizes one scan for logging and the status endpoint.
type ScanStats struct {
	Kind    models.ItemKind `json:"kind"`
	Scanned int             `json:"scanned"`
	Sent    int             `json:"sent"`
	Skipped int             `json:"skipped"`
	Errors  int             `json:"errors"`
}

// Scanner runs one entity type's windowed scan: select due items, filter by
// recurrence eligibility, apply the two-layer dedup guard, dispatch.
type Scanner struct {
	cfg        ScanConfig
	registry   *guard.Registry
	log        NotificationLog
	dispatcher Dispatcher
	logger     zerolog.Logger
}

func NewScanner(cfg ScanConfig, registry *guard.Registry, log NotificationLog, dispatcher Dispatcher, logger zerolog.Logger) *Scanner {
	return &Scanner{
		cfg:        cfg,
		registry:   registry,
		log:        log,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "scanner").Str("item_type", string(cfg.Kind)).Logger(),
	}
}

// Run performs one scan at the given instant.
func (s *Scanner) Run(ctx context.Context, now time.Time) (ScanStats, error) {
	stats := ScanStats{Kind: s.cfg.Kind}

	windowStart := now.Add(s.cfg.Offset - s.cfg.Slack)
	windowEnd := now.Add(s.cfg.Offset + s.cfg.Slack)

	items, err := s.cfg.List(ctx, windowStart, windowEnd)
	if err != nil {
		return stats, err
	}

	for _, item := range items {
		stats.Scanned++

		if !recurrence.Eligible(item, now) {
			stats.Skipped++
			continue
		}

		sent, err := s.process(ctx, item, now)
		if err != nil {
			// One item failing must not starve the rest of the window.
			stats.Errors++
			s.logger.Error().Err(err).Uint("item_id", item.ID).Msg("failed to process item")
			continue
		}
		if sent {
			stats.Sent++
		} else {
			stats.Skipped++
		}
	}

	return stats, nil
}

// process applies both dedup layers and dispatches if they pass.
func (s *Scanner) process(ctx context.Context, item models.ReminderItem, now time.Time) (bool, error) {
	if !s.registry.TryAcquire(item.Kind, item.ID) {
		// An overlapping scan is already evaluating this item.
		return false, nil
	}
	defer s.registry.Release(item.Kind, item.ID)

	notified, err := s.log.WasNotified(ctx, item.Kind, item.ID, now.Add(-s.cfg.Lookback))
	if err != nil {
		return false, err
	}
	if notified {
		return false, nil
	}

	return s.dispatcher.Dispatch(ctx, item, now)
}
