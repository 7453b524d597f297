package models

import "time"

// NotificationLog records that a reminder was sent for an item, to avoid
// duplicates across ticks and process restarts. Append-only; rows are only
// removed by retention cleanup.
type NotificationLog struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ItemID   uint      `gorm:"not null;index:idx_notification_item" json:"item_id"`
	ItemType ItemKind  `gorm:"size:20;not null;index:idx_notification_item" json:"item_type"`
	SentAt   time.Time `gorm:"not null" json:"sent_at"`
}

// TableName specifies the table name for the NotificationLog model
func (NotificationLog) TableName() string { return "notification_log" }
