package scheduler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"reminderd/internal/guard"
	"reminderd/internal/models"
	"reminderd/internal/repository"
	"reminderd/internal/services"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string // html bodies
}

func (m *recordingMailer) Send(toName, toEmail, subject, plainContent, htmlContent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, htmlContent)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type pipeline struct {
	db       *gorm.DB
	mailer   *recordingMailer
	registry *guard.Registry
	items    *repository.ItemRepository
	logs     *repository.NotificationLogRepository
	prefs    *repository.PreferencesRepository
	dispatch *services.Dispatcher
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{}, &models.UserPreferences{},
		&models.Task{}, &models.Meeting{}, &models.Appointment{},
		&models.NotificationLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	p := &pipeline{
		db:       db,
		mailer:   &recordingMailer{},
		registry: guard.NewRegistry(),
		items:    repository.NewItemRepository(db),
		logs:     repository.NewNotificationLogRepository(db),
		prefs:    repository.NewPreferencesRepository(db),
	}
	p.dispatch = services.NewDispatcher(p.prefs, p.mailer, p.logs, zerolog.Nop())
	return p
}

func (p *pipeline) taskScanner() *Scanner {
	return NewScanner(TaskScan(p.items.ListDueTasks), p.registry, p.logs, p.dispatch, zerolog.Nop())
}

func (p *pipeline) meetingScanner() *Scanner {
	return NewScanner(MeetingScan(p.items.ListDueMeetings), p.registry, p.logs, p.dispatch, zerolog.Nop())
}

func (p *pipeline) logCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := p.db.Model(&models.NotificationLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count log entries: %v", err)
	}
	return count
}

func TestTaskReminderOncePerCadence(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	if err := p.db.Create(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	task := models.Task{ID: 1, UserID: 1, Title: "write report", DueDate: now.Add(24*time.Hour + 2*time.Minute)}
	if err := p.db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	// First scan: the task is inside the 24h window and goes out.
	stats, err := p.taskScanner().Run(context.Background(), now)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if stats.Sent != 1 {
		t.Fatalf("first scan stats = %+v, want 1 sent", stats)
	}
	if p.logCount(t) != 1 {
		t.Fatal("successful dispatch should write exactly one log entry")
	}

	// Second scan five minutes later: still inside the window, but the log
	// lookback finds the earlier entry and the task is skipped.
	stats, err = p.taskScanner().Run(context.Background(), now.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if stats.Sent != 0 || stats.Skipped != 1 {
		t.Errorf("second scan stats = %+v, want skip", stats)
	}
	if p.mailer.count() != 1 {
		t.Errorf("sent %d emails total, want 1", p.mailer.count())
	}
}

func TestTaskOutsideWindowNotSelected(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	if err := p.db.Create(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	// A minute beyond the window's far edge.
	task := models.Task{ID: 1, UserID: 1, Title: "too far out", DueDate: now.Add(24*time.Hour + 6*time.Minute)}
	if err := p.db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	stats, err := p.taskScanner().Run(context.Background(), now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if stats.Scanned != 0 {
		t.Errorf("stats = %+v, want nothing selected", stats)
	}
	if p.mailer.count() != 0 {
		t.Error("no email should have been sent")
	}
}

func TestMeetingReminderIncludesLocation(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	if err := p.db.Create(&models.User{ID: 2, Username: "bob", Email: "bob@example.com"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	meetings := []models.Meeting{
		{ID: 1, UserID: 2, Title: "design review", StartTime: now.Add(58 * time.Minute), Location: "Room 12"},
		{ID: 2, UserID: 2, Title: "sync", StartTime: now.Add(58 * time.Minute)},
	}
	if err := p.db.Create(&meetings).Error; err != nil {
		t.Fatalf("create meetings: %v", err)
	}

	stats, err := p.meetingScanner().Run(context.Background(), now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if stats.Sent != 2 {
		t.Fatalf("stats = %+v, want 2 sent", stats)
	}

	var withLocation, withFallback bool
	for _, body := range p.mailer.sent {
		if strings.Contains(body, "Room 12") {
			withLocation = true
		}
		if strings.Contains(body, "View your meetings") {
			withFallback = true
		}
	}
	if !withLocation {
		t.Error("meeting with a location should render it")
	}
	if !withFallback {
		t.Error("meeting without a location should use the view-meetings fallback")
	}
}

func TestRecurringTemplateNeverNotified(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	if err := p.db.Create(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	parent := uint(1)
	due := now.Add(24 * time.Hour)
	items := []models.Task{
		{ID: 1, UserID: 1, Title: "weekly review", DueDate: due, IsRecurring: true},
		{ID: 2, UserID: 1, Title: "weekly review", DueDate: due, IsRecurring: true, ParentID: &parent},
	}
	if err := p.db.Create(&items).Error; err != nil {
		t.Fatalf("create tasks: %v", err)
	}

	stats, err := p.taskScanner().Run(context.Background(), now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if stats.Sent != 1 {
		t.Fatalf("stats = %+v, want only the instance sent", stats)
	}
	var entry models.NotificationLog
	if err := p.db.First(&entry).Error; err != nil {
		t.Fatalf("load log entry: %v", err)
	}
	if entry.ItemID != 2 {
		t.Errorf("logged item %d, want the instance (2)", entry.ItemID)
	}
}

func TestDisabledPreferencesSuppressThenReenableAllows(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	if err := p.db.Create(&models.User{ID: 3, Username: "carol", Email: "carol@example.com"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	prefs := models.UserPreferences{UserID: 3, NotificationsEnabled: false, EmailNotificationsEnabled: true, ShowNotifications: true}
	if err := p.db.Create(&prefs).Error; err != nil {
		t.Fatalf("create prefs: %v", err)
	}
	task := models.Task{ID: 1, UserID: 3, Title: "renew passport", DueDate: now.Add(24 * time.Hour)}
	if err := p.db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	stats, err := p.taskScanner().Run(context.Background(), now)
	if err != nil {
		t.Fatalf("scan while disabled: %v", err)
	}
	if stats.Sent != 0 || p.mailer.count() != 0 {
		t.Fatal("disabled master gate must suppress dispatch")
	}
	if p.logCount(t) != 0 {
		t.Fatal("suppressed dispatch must leave no log entry")
	}

	// The user flips the gate back on while the task is still in its
	// window; the next tick delivers the reminder.
	if err := p.db.Model(&models.UserPreferences{}).Where("user_id = ?", 3).
		Update("notifications_enabled", true).Error; err != nil {
		t.Fatalf("update prefs: %v", err)
	}
	stats, err = p.taskScanner().Run(context.Background(), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("scan after re-enable: %v", err)
	}
	if stats.Sent != 1 || p.mailer.count() != 1 {
		t.Errorf("stats = %+v, want the reminder delivered after re-enable", stats)
	}
}

func TestConcurrentScansSendExactlyOnce(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	if err := p.db.Create(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	task := models.Task{ID: 1, UserID: 1, Title: "submit expenses", DueDate: now.Add(24 * time.Hour)}
	if err := p.db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Two scans over the same data racing inside one process: the guard
	// registry or the persisted log turns the loser away, whichever layer
	// it reaches first.
	scanner := p.taskScanner()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := scanner.Run(context.Background(), now); err != nil {
				t.Errorf("scan: %v", err)
			}
		}()
	}
	wg.Wait()

	if p.mailer.count() != 1 {
		t.Errorf("sent %d emails, want exactly 1", p.mailer.count())
	}
	if p.logCount(t) != 1 {
		t.Errorf("log has %d entries, want exactly 1", p.logCount(t))
	}
}

func TestExpiredRecurrenceNotSelected(t *testing.T) {
	p := newPipeline(t)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	if err := p.db.Create(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	parent := uint(9)
	ended := now.Add(-time.Hour)
	task := models.Task{
		ID: 1, UserID: 1, Title: "stale series", DueDate: now.Add(24 * time.Hour),
		IsRecurring: true, ParentID: &parent, RecurrenceEndDate: &ended,
	}
	if err := p.db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	stats, err := p.taskScanner().Run(context.Background(), now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if stats.Sent != 0 || p.mailer.count() != 0 {
		t.Error("item with an already-passed recurrence end date must never be notified")
	}
}
