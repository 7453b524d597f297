package repository

import (
	"context"
	"errors"
	"fmt"

	"reminderd/internal/models"

	"gorm.io/gorm"
)

// PreferencesRepository reads user notification preferences.
type PreferencesRepository struct {
	db *gorm.DB
}

func NewPreferencesRepository(db *gorm.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// GetUserPreferences returns the stored preferences for a user, or the
// fully-enabled defaults if the user has never saved any.
func (r *PreferencesRepository) GetUserPreferences(ctx context.Context, userID uint) (models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := r.db.WithContext(ctx).First(&prefs, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPreferences(userID), nil
	}
	if err != nil {
		return models.UserPreferences{}, fmt.Errorf("get preferences for user %d: %w", userID, err)
	}
	return prefs, nil
}
