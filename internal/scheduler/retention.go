package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RetentionPeriod is how long sent-reminder log entries are kept. Far longer
// than any dedup lookback, so cleanup can never reopen a cadence.
const RetentionPeriod = 30 * 24 * time.Hour

// LogCleaner deletes notification log entries older than a cutoff.
type LogCleaner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewRetentionJob returns the cleanup func registered with the daily cron
// entry. Failures are logged and retried by the next run.
func NewRetentionJob(cleaner LogCleaner, clock Clock, logger zerolog.Logger) func() {
	jobLogger := logger.With().Str("component", "retention").Logger()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := clock.Now().Add(-RetentionPeriod)
		deleted, err := cleaner.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			jobLogger.Error().Err(err).Msg("notification log cleanup failed")
			return
		}
		if deleted > 0 {
			jobLogger.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("cleaned up notification log")
		}
	}
}
