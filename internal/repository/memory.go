package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/skproperty/brokerage-api/internal/models"
)

// In-memory repository implementations. Selected at startup when the
// database is unreachable so the reminder workflow keeps functioning;
// records do not survive a restart.

type memoryReminderRepository struct {
	mu        sync.RWMutex
	nextID    uint
	reminders map[uint]*models.Reminder
}

// NewMemoryReminderRepository creates an in-memory reminder repository
func NewMemoryReminderRepository() ReminderRepository {
	return &memoryReminderRepository{
		nextID:    1,
		reminders: make(map[uint]*models.Reminder),
	}
}

func (r *memoryReminderRepository) Ping(ctx context.Context) error {
	return nil
}

func cloneReminder(src *models.Reminder) *models.Reminder {
	dst := *src
	dst.NotificationResults = append(models.NotificationResults(nil), src.NotificationResults...)
	dst.Tags = append([]string(nil), src.Tags...)
	return &dst
}

func (r *memoryReminderRepository) FindByID(ctx context.Context, id uint) (*models.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reminder, ok := r.reminders[id]
	if !ok || !reminder.IsActive {
		return nil, ErrNotFound
	}
	return cloneReminder(reminder), nil
}

func (r *memoryReminderRepository) List(ctx context.Context, query *ListQuery) ([]models.Reminder, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Reminder
	for _, reminder := range r.reminders {
		if !reminder.IsActive {
			continue
		}
		if s := query.Filters["status"]; s != "" && reminder.Status != s {
			continue
		}
		if c := query.Filters["category"]; c != "" && reminder.Category != c {
			continue
		}
		if t := query.Filters["type"]; t != "" && reminder.Type != t {
			continue
		}
		if tt := query.Filters["transaction_type"]; tt != "" && reminder.TransactionType != tt {
			continue
		}
		if query.Search != "" {
			needle := strings.ToLower(query.Search)
			desc := ""
			if reminder.Description != nil {
				desc = *reminder.Description
			}
			haystack := strings.ToLower(reminder.CustomerName + " " + reminder.Title + " " + desc)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, *cloneReminder(reminder))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ReminderDate.Before(matched[j].ReminderDate)
	})

	total := int64(len(matched))
	start := query.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.PerPage > 0 && start+query.PerPage < end {
		end = start + query.PerPage
	}

	return matched[start:end], total, nil
}

func (r *memoryReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	reminder.ID = r.nextID
	r.nextID++
	reminder.CreatedAt = now
	reminder.UpdatedAt = now
	r.reminders[reminder.ID] = cloneReminder(reminder)
	return nil
}

func (r *memoryReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reminders[reminder.ID]; !ok {
		return ErrNotFound
	}
	reminder.UpdatedAt = time.Now()
	r.reminders[reminder.ID] = cloneReminder(reminder)
	return nil
}

func (r *memoryReminderRepository) FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []models.Reminder
	for _, reminder := range r.reminders {
		if reminder.IsActive && reminder.ShouldSendReminder(now) {
			due = append(due, *cloneReminder(reminder))
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

func (r *memoryReminderRepository) FindOverdue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var overdue []models.Reminder
	for _, reminder := range r.reminders {
		if reminder.IsActive && reminder.DueDate.Before(now) &&
			(reminder.Status == models.ReminderStatusPending || reminder.Status == models.ReminderStatusReminded) {
			overdue = append(overdue, *cloneReminder(reminder))
		}
	}
	sort.Slice(overdue, func(i, j int) bool { return overdue[i].ID < overdue[j].ID })
	return overdue, nil
}

func (r *memoryReminderRepository) MarkSent(ctx context.Context, id uint, results models.NotificationResults, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, ok := r.reminders[id]
	if !ok {
		return ErrNotFound
	}
	switch reminder.Status {
	case models.ReminderStatusPending, models.ReminderStatusOverdue, models.ReminderStatusFailed:
	default:
		return ErrStaleState
	}

	sentAt := now
	reminder.Status = models.ReminderStatusReminded
	reminder.ReminderSent = true
	reminder.ReminderSentDate = &sentAt
	reminder.SentAt = &sentAt
	reminder.NotificationResults = append(reminder.NotificationResults, results...)
	reminder.UpdatedAt = now
	return nil
}

func (r *memoryReminderRepository) MarkFailed(ctx context.Context, id uint, results models.NotificationResults, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, ok := r.reminders[id]
	if !ok {
		return ErrNotFound
	}
	switch reminder.Status {
	case models.ReminderStatusCompleted, models.ReminderStatusCancelled:
		return ErrStaleState
	}

	sentAt := now
	reminder.Status = models.ReminderStatusFailed
	reminder.SentAt = &sentAt
	reminder.NotificationResults = append(reminder.NotificationResults, results...)
	reminder.UpdatedAt = now
	return nil
}

func (r *memoryReminderRepository) MarkOverdue(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, ok := r.reminders[id]
	if !ok {
		return ErrNotFound
	}
	if reminder.Status == models.ReminderStatusPending || reminder.Status == models.ReminderStatusReminded {
		reminder.Status = models.ReminderStatusOverdue
		reminder.UpdatedAt = time.Now()
	}
	return nil
}

func (r *memoryReminderRepository) AppendResults(ctx context.Context, id uint, results models.NotificationResults) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, ok := r.reminders[id]
	if !ok {
		return ErrNotFound
	}
	reminder.NotificationResults = append(reminder.NotificationResults, results...)
	reminder.UpdatedAt = time.Now()
	return nil
}

type memoryPaymentRepository struct {
	mu       sync.RWMutex
	nextID   uint
	payments map[uint]*models.Payment
}

// NewMemoryPaymentRepository creates an in-memory payment repository
func NewMemoryPaymentRepository() PaymentRepository {
	return &memoryPaymentRepository{
		nextID:   1,
		payments: make(map[uint]*models.Payment),
	}
}

func (r *memoryPaymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := *payment
	return &p, nil
}

func (r *memoryPaymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Payment
	for _, payment := range r.payments {
		if s := query.Filters["status"]; s != "" && payment.Status != s {
			continue
		}
		if t := query.Filters["payment_type"]; t != "" && payment.PaymentType != t {
			continue
		}
		matched = append(matched, *payment)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	total := int64(len(matched))
	start := query.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.PerPage > 0 && start+query.PerPage < end {
		end = start + query.PerPage
	}

	return matched[start:end], total, nil
}

func (r *memoryPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	payment.ID = r.nextID
	r.nextID++
	payment.CreatedAt = now
	payment.UpdatedAt = now
	p := *payment
	r.payments[payment.ID] = &p
	return nil
}

func (r *memoryPaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[payment.ID]; !ok {
		return ErrNotFound
	}
	payment.UpdatedAt = time.Now()
	p := *payment
	r.payments[payment.ID] = &p
	return nil
}

type memoryAlertRepository struct {
	mu     sync.RWMutex
	nextID uint
	alerts map[uint]*models.Alert
}

// NewMemoryAlertRepository creates an in-memory alert repository
func NewMemoryAlertRepository() AlertRepository {
	return &memoryAlertRepository{
		nextID: 1,
		alerts: make(map[uint]*models.Alert),
	}
}

func (r *memoryAlertRepository) FindByID(ctx context.Context, id uint) (*models.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alert, ok := r.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	a := *alert
	return &a, nil
}

func (r *memoryAlertRepository) List(ctx context.Context, query *ListQuery) ([]models.Alert, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Alert
	for _, alert := range r.alerts {
		if t := query.Filters["alert_type"]; t != "" && alert.AlertType != t {
			continue
		}
		if query.Filters["unread"] == "true" && alert.ReadAt != nil {
			continue
		}
		matched = append(matched, *alert)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := query.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.PerPage > 0 && start+query.PerPage < end {
		end = start + query.PerPage
	}

	return matched[start:end], total, nil
}

func (r *memoryAlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	alert.ID = r.nextID
	r.nextID++
	alert.CreatedAt = now
	alert.UpdatedAt = now
	a := *alert
	r.alerts[alert.ID] = &a
	return nil
}

func (r *memoryAlertRepository) Update(ctx context.Context, alert *models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alerts[alert.ID]; !ok {
		return ErrNotFound
	}
	alert.UpdatedAt = time.Now()
	a := *alert
	r.alerts[alert.ID] = &a
	return nil
}

func (r *memoryAlertRepository) CountUnread(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, alert := range r.alerts {
		if alert.ReadAt == nil {
			count++
		}
	}
	return count, nil
}
