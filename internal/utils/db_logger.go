package utils

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// QuietGormLogger wraps a GORM logger and drops trace output for queries
// matching any of the given substrings. The scheduler's scan queries run
// every tick against mostly-empty windows; logging each one adds nothing.
type QuietGormLogger struct {
	logger.Interface
	ignoredQueryPatterns []string
}

// NewQuietGormLogger creates a new filtering logger with the given ignored query patterns
func NewQuietGormLogger(l logger.Interface, ignoredPatterns ...string) *QuietGormLogger {
	return &QuietGormLogger{
		Interface:            l,
		ignoredQueryPatterns: ignoredPatterns,
	}
}

// LogMode implements logger.Interface
func (l *QuietGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &QuietGormLogger{
		Interface:            l.Interface.LogMode(level),
		ignoredQueryPatterns: l.ignoredQueryPatterns,
	}
}

// Trace implements logger.Interface
func (l *QuietGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if err == nil {
		sql, _ := fc()
		for _, pattern := range l.ignoredQueryPatterns {
			if strings.Contains(sql, pattern) {
				return
			}
		}
	}
	// Errors are always traced, matched pattern or not.
	l.Interface.Trace(ctx, begin, fc, err)
}
