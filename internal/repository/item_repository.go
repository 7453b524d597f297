package repository

import (
	"context"
	"fmt"
	"time"

	"reminderd/internal/models"

	"gorm.io/gorm"
)

// ItemRepository is the scheduler's read-only surface over the work-item
// tables owned by the CRUD layer.
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ListDueTasks returns non-completed tasks whose due date falls inside
// [windowStart, windowEnd]. Bounds are inclusive on both ends.
func (r *ItemRepository) ListDueTasks(ctx context.Context, windowStart, windowEnd time.Time) ([]models.ReminderItem, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", windowStart, windowEnd).
		Where("completed = ?", false).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list due tasks: %w", err)
	}

	userIDs := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		userIDs = append(userIDs, t.UserID)
	}
	users, err := r.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	items := make([]models.ReminderItem, 0, len(tasks))
	for _, t := range tasks {
		u, ok := users[t.UserID]
		if !ok {
			continue // Owner deleted; nothing to notify.
		}
		items = append(items, t.ReminderItem(u))
	}
	return items, nil
}

// ListDueMeetings returns meetings whose start time falls inside
// [windowStart, windowEnd].
func (r *ItemRepository) ListDueMeetings(ctx context.Context, windowStart, windowEnd time.Time) ([]models.ReminderItem, error) {
	var meetings []models.Meeting
	if err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", windowStart, windowEnd).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("list due meetings: %w", err)
	}

	userIDs := make([]uint, 0, len(meetings))
	for _, m := range meetings {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := r.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	items := make([]models.ReminderItem, 0, len(meetings))
	for _, m := range meetings {
		u, ok := users[m.UserID]
		if !ok {
			continue
		}
		items = append(items, m.ReminderItem(u))
	}
	return items, nil
}

// ListDueAppointments returns appointments whose due date falls inside
// [windowStart, windowEnd].
func (r *ItemRepository) ListDueAppointments(ctx context.Context, windowStart, windowEnd time.Time) ([]models.ReminderItem, error) {
	var appointments []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date <= ?", windowStart, windowEnd).
		Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("list due appointments: %w", err)
	}

	userIDs := make([]uint, 0, len(appointments))
	for _, a := range appointments {
		userIDs = append(userIDs, a.UserID)
	}
	users, err := r.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	items := make([]models.ReminderItem, 0, len(appointments))
	for _, a := range appointments {
		u, ok := users[a.UserID]
		if !ok {
			continue
		}
		items = append(items, a.ReminderItem(u))
	}
	return items, nil
}

// usersByID fetches all owners in one query and returns them keyed by ID.
func (r *ItemRepository) usersByID(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	users := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load item owners: %w", err)
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}
