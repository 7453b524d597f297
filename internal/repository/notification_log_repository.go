package repository

import (
	"context"
	"fmt"
	"time"

	"reminderd/internal/models"

	"gorm.io/gorm"
)

// NotificationLogRepository owns the persisted half of the dedup guarantee:
// the append-only log of sent reminders.
type NotificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// EnsureSchema creates the notification_log table and its index if they do
// not exist yet. Called from scheduler bootstrap; all other tables are owned
// by the CRUD layer.
func (r *NotificationLogRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.NotificationLog{}); err != nil {
		return fmt.Errorf("migrate notification log: %w", err)
	}
	return nil
}

// WasNotified reports whether a reminder for the item was already logged
// after the given instant.
func (r *NotificationLogRepository) WasNotified(ctx context.Context, kind models.ItemKind, itemID uint, since time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NotificationLog{}).
		Where("item_id = ? AND item_type = ? AND sent_at > ?", itemID, kind, since).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("look up notification log for %s %d: %w", kind, itemID, err)
	}
	return count > 0, nil
}

// Record appends a log entry for a successfully sent reminder.
func (r *NotificationLogRepository) Record(ctx context.Context, kind models.ItemKind, itemID uint, sentAt time.Time) error {
	entry := models.NotificationLog{
		ItemID:   itemID,
		ItemType: kind,
		SentAt:   sentAt,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("record notification for %s %d: %w", kind, itemID, err)
	}
	return nil
}

// DeleteOlderThan removes log entries sent before the cutoff and returns how
// many were deleted. Used by daily retention cleanup.
func (r *NotificationLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("sent_at < ?", cutoff).Delete(&models.NotificationLog{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete old notification log entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}
