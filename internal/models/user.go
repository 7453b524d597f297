package models

import "time"

// User is the owner of work items. Only the fields the scheduler needs to
// address an outbound message are modeled here.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:30;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPreferences holds the notification gates a user can toggle from
// settings. ShowNotifications only affects the in-app notification tray and
// is never consulted by the scheduler.
type UserPreferences struct {
	UserID                    uint      `gorm:"primaryKey" json:"user_id"`
	NotificationsEnabled      bool      `gorm:"not null;default:true" json:"notifications_enabled"`
	EmailNotificationsEnabled bool      `gorm:"not null;default:true" json:"email_notifications_enabled"`
	ShowNotifications         bool      `gorm:"not null;default:true" json:"show_notifications"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// DefaultPreferences is what a user gets before they ever visit settings.
// Reminders must work for fresh accounts, so everything defaults to enabled.
func DefaultPreferences(userID uint) UserPreferences {
	return UserPreferences{
		UserID:                    userID,
		NotificationsEnabled:      true,
		EmailNotificationsEnabled: true,
		ShowNotifications:         true,
	}
}

// TableName specifies the table name for the User model
func (User) TableName() string { return "app_user" }

// TableName specifies the table name for the UserPreferences model
func (UserPreferences) TableName() string { return "user_preferences" }
