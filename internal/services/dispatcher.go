package services

import (
	"context"
	"time"

	"reminderd/internal/models"

	"github.com/rs/zerolog"
)

// PreferenceSource provides per-user notification gates.
type PreferenceSource interface {
	GetUserPreferences(ctx context.Context, userID uint) (models.UserPreferences, error)
}

// NotificationRecorder persists the fact that a reminder was sent.
type NotificationRecorder interface {
	Record(ctx context.Context, kind models.ItemKind, itemID uint, sentAt time.Time) error
}

// Dispatcher turns an eligible item into an outbound email. It checks the
// owner's notification gates, renders the type-specific template, sends, and
// records success in the notification log.
type Dispatcher struct {
	prefs    PreferenceSource
	mailer   Mailer
	recorder NotificationRecorder
	logger   zerolog.Logger
}

func NewDispatcher(prefs PreferenceSource, mailer Mailer, recorder NotificationRecorder, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		prefs:    prefs,
		mailer:   mailer,
		recorder: recorder,
		logger:   logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch sends a reminder for the item and returns whether a message went
// out. A user with notifications disabled yields (false, nil) with no side
// effects: nothing is logged, so the item stays eligible should the user
// re-enable notifications while it is still in its window.
func (d *Dispatcher) Dispatch(ctx context.Context, item models.ReminderItem, now time.Time) (bool, error) {
	prefs, err := d.prefs.GetUserPreferences(ctx, item.UserID)
	if err != nil {
		return false, err
	}
	if !prefs.NotificationsEnabled || !prefs.EmailNotificationsEnabled {
		return false, nil
	}

	subject, plainContent, htmlContent := buildMessage(item)

	if err := d.mailer.Send(item.UserName, item.UserEmail, subject, plainContent, htmlContent); err != nil {
		return false, err
	}

	// The message is already out; a log-write failure must not undo that.
	// Worst case a later tick re-sends once before the log catches up.
	if err := d.recorder.Record(ctx, item.Kind, item.ID, now); err != nil {
		d.logger.Warn().
			Err(err).
			Str("item_type", string(item.Kind)).
			Uint("item_id", item.ID).
			Msg("sent reminder but failed to record it")
	}

	return true, nil
}
