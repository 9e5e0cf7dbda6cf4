package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/internal/repository"
	"github.com/skproperty/brokerage-api/pkg/logger"
)

// AlertService records operational notices for back-office staff.
type AlertService struct {
	repo repository.AlertRepository
}

// NewAlertService creates a new alert service
func NewAlertService(repo repository.AlertRepository) *AlertService {
	return &AlertService{repo: repo}
}

// List returns alerts matching the query
func (s *AlertService) List(ctx context.Context, query *repository.ListQuery) ([]models.Alert, int64, error) {
	return s.repo.List(ctx, query)
}

// CountUnread returns the number of unread alerts
func (s *AlertService) CountUnread(ctx context.Context) (int64, error) {
	return s.repo.CountUnread(ctx)
}

// MarkAsRead stamps one alert as read
func (s *AlertService) MarkAsRead(ctx context.Context, id uint) error {
	alert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	alert.MarkAsRead()
	return s.repo.Update(ctx, alert)
}

// RaiseDispatchFailed records that every channel failed for a reminder so
// staff can follow up manually. Alert creation failures are logged only;
// they must not disturb the scan.
func (s *AlertService) RaiseDispatchFailed(ctx context.Context, reminder *models.Reminder, results models.NotificationResults) {
	channels := make([]string, 0, len(results))
	for _, r := range results {
		channels = append(channels, r.Method)
	}

	id := reminder.ID
	alert := &models.Alert{
		Title:      "Reminder dispatch failed",
		Message:    fmt.Sprintf("All channels (%v) failed for %q (customer %s, phone %s). Manual follow-up required.", channels, reminder.Title, reminder.CustomerName, reminder.CustomerPhone),
		AlertType:  models.AlertTypeDispatchFailed,
		ReminderID: &id,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		logger.Error("Failed to create dispatch-failed alert", "reminder_id", reminder.ID, "error", err)
	}
}

// RaiseOverdue records that a reminder passed its due date unresolved.
func (s *AlertService) RaiseOverdue(ctx context.Context, reminder *models.Reminder) {
	id := reminder.ID
	alert := &models.Alert{
		Title:      "Reminder overdue",
		Message:    fmt.Sprintf("%q for %s passed its due date (%s).", reminder.Title, reminder.CustomerName, reminder.DueDate.Format("02/01/2006")),
		AlertType:  models.AlertTypeReminderOverdue,
		ReminderID: &id,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		logger.Error("Failed to create overdue alert", "reminder_id", reminder.ID, "error", err)
	}
}
