package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/skproperty/brokerage-api/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// ErrStaleState is returned when a conditional update matched no rows
// because another writer moved the record to a conflicting state first.
var ErrStaleState = errors.New("record state changed concurrently")

// ReminderRepository defines the interface for reminder data access.
// All mutations are single-statement conditional updates so the timer
// scan and a manual trigger can race on the same reminder without
// double-sending or corrupting state.
type ReminderRepository interface {
	Ping(ctx context.Context) error
	FindByID(ctx context.Context, id uint) (*models.Reminder, error)
	List(ctx context.Context, query *ListQuery) ([]models.Reminder, int64, error)
	Create(ctx context.Context, reminder *models.Reminder) error
	Update(ctx context.Context, reminder *models.Reminder) error
	FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error)
	FindOverdue(ctx context.Context, now time.Time) ([]models.Reminder, error)
	MarkSent(ctx context.Context, id uint, results models.NotificationResults, now time.Time) error
	MarkFailed(ctx context.Context, id uint, results models.NotificationResults, now time.Time) error
	MarkOverdue(ctx context.Context, id uint) error
	AppendResults(ctx context.Context, id uint, results models.NotificationResults) error
}

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *reminderRepository) FindByID(ctx context.Context, id uint) (*models.Reminder, error) {
	var reminder models.Reminder
	err := r.db.WithContext(ctx).
		Preload("Plot").
		Preload("Agent").
		Where("is_active = true").
		First(&reminder, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reminder, nil
}

func (r *reminderRepository) List(ctx context.Context, query *ListQuery) ([]models.Reminder, int64, error) {
	var reminders []models.Reminder
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Reminder{}).Where("is_active = true")

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("customer_name ILIKE ? OR title ILIKE ? OR description ILIKE ?",
			search, search, search)
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["category"] != "" {
		db = db.Where("category = ?", query.Filters["category"])
	}
	if query.Filters["type"] != "" {
		db = db.Where("type = ?", query.Filters["type"])
	}
	if query.Filters["transaction_type"] != "" {
		db = db.Where("transaction_type = ?", query.Filters["transaction_type"])
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "reminder_date"
	switch query.SortBy {
	case "due_date", "created_at", "amount", "customer_name":
		sortBy = query.SortBy
	}
	sortDir := "asc"
	if query.SortDir == "desc" {
		sortDir = "desc"
	}

	err := db.
		Preload("Plot").
		Preload("Agent").
		Order(fmt.Sprintf("%s %s", sortBy, sortDir)).
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&reminders).Error

	return reminders, total, err
}

func (r *reminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *reminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	return r.db.WithContext(ctx).Save(reminder).Error
}

// FindDue returns reminders eligible for automatic dispatch. The predicate
// mirrors Reminder.ShouldSendReminder and rides the reminder_date index.
func (r *reminderRepository) FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Where("auto_reminder = true").
		Where("reminder_sent = false").
		Where("status = ?", models.ReminderStatusPending).
		Where("reminder_date <= ?", now).
		Where("due_date > ?", now).
		Find(&reminders).Error
	return reminders, err
}

// FindOverdue returns reminders past their due date that are still open.
func (r *reminderRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Where("status IN ?", []string{models.ReminderStatusPending, models.ReminderStatusReminded}).
		Where("due_date < ?", now).
		Find(&reminders).Error
	return reminders, err
}

// encodeResults marshals delivery results for a jsonb append. An empty
// list encodes as the empty array so the concat is a no-op; marshalling
// a nil slice would yield the literal null, which jsonb || appends as a
// spurious element.
func encodeResults(results models.NotificationResults) (string, error) {
	if len(results) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode notification results: %w", err)
	}
	return string(raw), nil
}

// MarkSent marks a reminder as reminded and appends the delivery results.
// The update is conditional on the reminder not already being in a
// terminal or reminded state, so two racing dispatchers cannot both win.
func (r *reminderRepository) MarkSent(ctx context.Context, id uint, results models.NotificationResults, now time.Time) error {
	resultsJSON, err := encodeResults(results)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ? AND status IN ?", id, []string{
			models.ReminderStatusPending,
			models.ReminderStatusOverdue,
			models.ReminderStatusFailed,
		}).
		Updates(map[string]interface{}{
			"status":               models.ReminderStatusReminded,
			"reminder_sent":        true,
			"reminder_sent_date":   now,
			"sent_at":              now,
			"notification_results": gorm.Expr("COALESCE(notification_results, '[]'::jsonb) || ?::jsonb", resultsJSON),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyMiss(ctx, id)
	}
	return nil
}

// MarkFailed records an unsuccessful dispatch. The reminder leaves the
// automatic due window (status is no longer pending) but reminder_sent
// stays false so a manual retry remains possible.
func (r *reminderRepository) MarkFailed(ctx context.Context, id uint, results models.NotificationResults, now time.Time) error {
	resultsJSON, err := encodeResults(results)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ? AND status NOT IN ?", id, []string{
			models.ReminderStatusCompleted,
			models.ReminderStatusCancelled,
		}).
		Updates(map[string]interface{}{
			"status":               models.ReminderStatusFailed,
			"sent_at":              now,
			"notification_results": gorm.Expr("COALESCE(notification_results, '[]'::jsonb) || ?::jsonb", resultsJSON),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyMiss(ctx, id)
	}
	return nil
}

// MarkOverdue flags an open reminder as overdue. Idempotent: a second call
// matches no rows and succeeds.
func (r *reminderRepository) MarkOverdue(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ? AND status IN ?", id, []string{
			models.ReminderStatusPending,
			models.ReminderStatusReminded,
		}).
		Update("status", models.ReminderStatusOverdue)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Reminder{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// AppendResults appends delivery attempts to the audit trail without
// touching the lifecycle fields. Used when a manual send targets a
// reminder that is already reminded.
func (r *reminderRepository) AppendResults(ctx context.Context, id uint, results models.NotificationResults) error {
	resultsJSON, err := encodeResults(results)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", id).
		Update("notification_results", gorm.Expr("COALESCE(notification_results, '[]'::jsonb) || ?::jsonb", resultsJSON))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// classifyMiss distinguishes a missing record from one another writer
// already moved out of the expected state.
func (r *reminderRepository) classifyMiss(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Reminder{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStaleState
}
