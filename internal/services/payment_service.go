package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skproperty/brokerage-api/internal/jobs"
	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/internal/repository"
	"github.com/skproperty/brokerage-api/pkg/logger"
)

// PaymentService records payments and, for advances with a due date,
// fans out the payment-due reminder on the background worker.
type PaymentService struct {
	repo    repository.PaymentRepository
	factory *ReminderFactory
	worker  *jobs.Worker
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo repository.PaymentRepository, factory *ReminderFactory, worker *jobs.Worker) *PaymentService {
	return &PaymentService{repo: repo, factory: factory, worker: worker}
}

// Record validates and stores a payment, then creates its reminder
// asynchronously when the payment calls for one.
func (s *PaymentService) Record(ctx context.Context, payment *models.Payment) error {
	if payment.PlotNumber == "" {
		return fmt.Errorf("%w: plot number is required", ErrValidation)
	}
	if payment.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if payment.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	now := time.Now()
	if payment.Date.IsZero() {
		payment.Date = now
	}
	if payment.PaymentMode == "" {
		payment.PaymentMode = models.PaymentModeCash
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	if payment.ReceiptNumber == "" {
		payment.ReceiptNumber = models.GenerateReceiptNumber(payment.PaymentType, now)
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if payment.SpawnsReminder() {
		recorded := *payment
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			reminder, err := s.factory.CreateForPayment(ctx, &recorded)
			if err != nil {
				return err
			}
			if reminder != nil {
				logger.Info("Auto reminder created for payment",
					"receipt", recorded.ReceiptNumber, "reminder_id", reminder.ID, "due_date", reminder.DueDate)
			}
			return nil
		})
	}

	return nil
}

// FindByID loads one payment
func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// List returns payments matching the query
func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}
