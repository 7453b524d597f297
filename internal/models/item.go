package models

import "time"

// ItemKind identifies which kind of work item a reminder refers to.
type ItemKind string

const (
	KindTask        ItemKind = "task"
	KindMeeting     ItemKind = "meeting"
	KindAppointment ItemKind = "appointment"
)

// Task represents a to-do item with a due date. Owned by the CRUD layer;
// the scheduler only reads these rows.
type Task struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"not null;index" json:"user_id"`
	Title              string     `gorm:"size:255;not null" json:"title"`
	DueDate            time.Time  `gorm:"not null;index" json:"due_date"`
	Completed          bool       `gorm:"not null;default:false" json:"completed"`
	IsRecurring        bool       `gorm:"not null;default:false" json:"is_recurring"`
	RecurrencePattern  string     `gorm:"size:20" json:"recurrence_pattern"` // daily, weekly, monthly
	RecurrenceInterval int        `json:"recurrence_interval"`
	RecurrenceEndDate  *time.Time `json:"recurrence_end_date"`
	ParentID           *uint      `gorm:"index" json:"parent_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Meeting represents a scheduled meeting. Its reminder trigger is the start
// time rather than a due date.
type Meeting struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"not null;index" json:"user_id"`
	Title              string     `gorm:"size:255;not null" json:"title"`
	StartTime          time.Time  `gorm:"not null;index" json:"start_time"`
	Location           string     `gorm:"size:255" json:"location"`
	MeetingLink        string     `gorm:"size:512" json:"meeting_link"`
	IsRecurring        bool       `gorm:"not null;default:false" json:"is_recurring"`
	RecurrencePattern  string     `gorm:"size:20" json:"recurrence_pattern"`
	RecurrenceInterval int        `json:"recurrence_interval"`
	RecurrenceEndDate  *time.Time `json:"recurrence_end_date"`
	ParentID           *uint      `gorm:"index" json:"parent_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Appointment represents a dated appointment (doctor, haircut, ...).
type Appointment struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"not null;index" json:"user_id"`
	Title              string     `gorm:"size:255;not null" json:"title"`
	DueDate            time.Time  `gorm:"not null;index" json:"due_date"`
	Location           string     `gorm:"size:255" json:"location"`
	IsRecurring        bool       `gorm:"not null;default:false" json:"is_recurring"`
	RecurrencePattern  string     `gorm:"size:20" json:"recurrence_pattern"`
	RecurrenceInterval int        `json:"recurrence_interval"`
	RecurrenceEndDate  *time.Time `json:"recurrence_end_date"`
	ParentID           *uint      `gorm:"index" json:"parent_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (Task) TableName() string        { return "task" }
func (Meeting) TableName() string     { return "meeting" }
func (Appointment) TableName() string { return "appointment" }

// ReminderItem is the flattened view of a due work item that flows through
// the scheduler pipeline. Each repository list method maps its entity rows
// into this shape so the scanner and dispatcher stay entity-agnostic.
type ReminderItem struct {
	Kind        ItemKind
	ID          uint
	Title       string
	TriggerTime time.Time
	Location    string
	MeetingLink string

	IsRecurring       bool
	ParentID          *uint
	RecurrenceEndDate *time.Time

	UserID    uint
	UserName  string
	UserEmail string
}

func (t Task) ReminderItem(u User) ReminderItem {
	return ReminderItem{
		Kind:              KindTask,
		ID:                t.ID,
		Title:             t.Title,
		TriggerTime:       t.DueDate,
		IsRecurring:       t.IsRecurring,
		ParentID:          t.ParentID,
		RecurrenceEndDate: t.RecurrenceEndDate,
		UserID:            u.ID,
		UserName:          u.Username,
		UserEmail:         u.Email,
	}
}

func (m Meeting) ReminderItem(u User) ReminderItem {
	return ReminderItem{
		Kind:              KindMeeting,
		ID:                m.ID,
		Title:             m.Title,
		TriggerTime:       m.StartTime,
		Location:          m.Location,
		MeetingLink:       m.MeetingLink,
		IsRecurring:       m.IsRecurring,
		ParentID:          m.ParentID,
		RecurrenceEndDate: m.RecurrenceEndDate,
		UserID:            u.ID,
		UserName:          u.Username,
		UserEmail:         u.Email,
	}
}

func (a Appointment) ReminderItem(u User) ReminderItem {
	return ReminderItem{
		Kind:              KindAppointment,
		ID:                a.ID,
		Title:             a.Title,
		TriggerTime:       a.DueDate,
		Location:          a.Location,
		IsRecurring:       a.IsRecurring,
		ParentID:          a.ParentID,
		RecurrenceEndDate: a.RecurrenceEndDate,
		UserID:            u.ID,
		UserName:          u.Username,
		UserEmail:         u.Email,
	}
}
