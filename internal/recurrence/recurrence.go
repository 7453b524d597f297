// Package recurrence decides which work items are eligible for reminder
// evaluation given their recurrence attributes.
//
// A recurring template (is_recurring set, no parent) defines the pattern and
// never carries an actionable trigger time of its own, so it is never
// notified. Materialized instances (parent set) and plain one-off items are
// the only eligible forms. Anything whose recurrence has already ended is
// excluded outright.
package recurrence

import (
	"time"

	"reminderd/internal/models"
)

// Eligible reports whether the item may be evaluated for a reminder at all.
func Eligible(item models.ReminderItem, now time.Time) bool {
	if IsTemplate(item) {
		return false
	}
	if Expired(item, now) {
		return false
	}
	return true
}

// IsTemplate reports whether the item is a recurring template rather than a
// materialized instance.
func IsTemplate(item models.ReminderItem) bool {
	return item.IsRecurring && item.ParentID == nil
}

// Expired reports whether the item's recurrence end date has already passed.
// Items without an end date never expire.
func Expired(item models.ReminderItem, now time.Time) bool {
	return item.RecurrenceEndDate != nil && item.RecurrenceEndDate.Before(now)
}
