package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/internal/repository"
	"github.com/skproperty/brokerage-api/internal/statemachine"
)

// ReminderService owns the reminder lifecycle outside the scheduler:
// creation with validation and derivation, querying, and administrative
// closure.
type ReminderService struct {
	repo repository.ReminderRepository
}

// NewReminderService creates a new reminder service
func NewReminderService(repo repository.ReminderRepository) *ReminderService {
	return &ReminderService{repo: repo}
}

// Create validates the reminder, fills derived fields and persists it.
func (s *ReminderService) Create(ctx context.Context, reminder *models.Reminder) error {
	if err := s.validate(reminder); err != nil {
		return err
	}
	ApplyReminderDefaults(reminder, time.Now())
	if err := s.repo.Create(ctx, reminder); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (s *ReminderService) validate(reminder *models.Reminder) error {
	if reminder.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if reminder.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if reminder.CustomerPhone == "" {
		return fmt.Errorf("%w: customer phone is required", ErrValidation)
	}
	if reminder.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrValidation)
	}
	if reminder.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if reminder.Category != "" && !models.ValidCategory(reminder.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, reminder.Category)
	}
	return nil
}

// ApplyReminderDefaults fills generated and derived fields on a new
// reminder: transaction id, reminder date (due date minus the lead time
// when auto reminders are on), and the enum/status defaults the storage
// backends share.
func ApplyReminderDefaults(reminder *models.Reminder, now time.Time) {
	if reminder.TransactionID == "" {
		reminder.TransactionID = models.GenerateTransactionID(now)
	}
	if reminder.ReminderDate.IsZero() && reminder.AutoReminder && !reminder.DueDate.IsZero() {
		reminder.ReminderDate = models.DeriveReminderDate(reminder.DueDate)
	}
	if reminder.ReminderDate.IsZero() {
		reminder.ReminderDate = reminder.DueDate
	}
	if reminder.TransactionDate.IsZero() {
		reminder.TransactionDate = now
	}
	if reminder.TransactionType == "" {
		reminder.TransactionType = models.TransactionTypeFollowUp
	}
	if reminder.Type == "" {
		reminder.Type = models.ReminderTypeFollowUp
	}
	if reminder.Category == "" {
		reminder.Category = models.CategoryOther
	}
	if reminder.Status == "" {
		reminder.Status = models.ReminderStatusPending
	}
	if reminder.Currency == "" {
		reminder.Currency = models.DefaultCurrency
	}
	if reminder.ReminderMethod == "" {
		reminder.ReminderMethod = models.MethodWhatsApp + "," + models.MethodSMS
	}
	if reminder.ReminderTime == "" {
		reminder.ReminderTime = "10:00"
	}
	reminder.IsActive = true
}

// FindByID loads one reminder
func (s *ReminderService) FindByID(ctx context.Context, id uint) (*models.Reminder, error) {
	reminder, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return reminder, nil
}

// List returns reminders matching the query
func (s *ReminderService) List(ctx context.Context, query *repository.ListQuery) ([]models.Reminder, int64, error) {
	return s.repo.List(ctx, query)
}

// FindDue returns reminders currently eligible for automatic dispatch
func (s *ReminderService) FindDue(ctx context.Context) ([]models.Reminder, error) {
	return s.repo.FindDue(ctx, time.Now())
}

// FindOverdue returns open reminders past their due date
func (s *ReminderService) FindOverdue(ctx context.Context) ([]models.Reminder, error) {
	return s.repo.FindOverdue(ctx, time.Now())
}

// Update persists edits to an existing reminder, re-deriving the reminder
// date when the due date moved in front of it.
func (s *ReminderService) Update(ctx context.Context, reminder *models.Reminder) error {
	if err := s.validate(reminder); err != nil {
		return err
	}
	if reminder.AutoReminder && reminder.ReminderDate.After(reminder.DueDate) {
		reminder.ReminderDate = models.DeriveReminderDate(reminder.DueDate)
	}
	if err := s.repo.Update(ctx, reminder); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return nil
}

// MarkSent marks a reminder as reminded without a dispatch, for
// back-office corrections (for example the customer was phoned directly).
func (s *ReminderService) MarkSent(ctx context.Context, id uint) error {
	err := s.repo.MarkSent(ctx, id, nil, time.Now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrStaleState):
		return ErrInvalidState
	}
	return err
}

// Complete closes a reminder administratively
func (s *ReminderService) Complete(ctx context.Context, id uint) error {
	return s.transition(ctx, id, func(fsm *statemachine.ReminderFSM) error {
		return fsm.Complete(ctx)
	}, func(reminder *models.Reminder, now time.Time) {
		reminder.CompletedAt = &now
	})
}

// Cancel voids a reminder
func (s *ReminderService) Cancel(ctx context.Context, id uint) error {
	return s.transition(ctx, id, func(fsm *statemachine.ReminderFSM) error {
		return fsm.Cancel(ctx)
	}, nil)
}

func (s *ReminderService) transition(ctx context.Context, id uint, event func(*statemachine.ReminderFSM) error, mutate func(*models.Reminder, time.Time)) error {
	reminder, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	fsm := statemachine.NewReminderFSM(reminder)
	if err := event(fsm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if mutate != nil {
		mutate(reminder, time.Now())
	}

	if err := s.repo.Update(ctx, reminder); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return nil
}
