package services

import (
	"context"
	"fmt"
	"time"

	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/internal/notify"
)

// ReminderFactory turns business events into reminders. Producers call it
// explicitly from their write path, so the causality lives in the service
// layer instead of inside persistence hooks.
type ReminderFactory struct {
	reminders *ReminderService
}

// NewReminderFactory creates a new reminder factory
func NewReminderFactory(reminders *ReminderService) *ReminderFactory {
	return &ReminderFactory{reminders: reminders}
}

// CreateForPayment builds and stores the payment-due reminder for an
// advance payment. Payments whose reminder window has already passed are
// skipped: there is no point reminding about a due date that is (nearly)
// here when the record is created.
func (f *ReminderFactory) CreateForPayment(ctx context.Context, payment *models.Payment) (*models.Reminder, error) {
	if !payment.SpawnsReminder() {
		return nil, nil
	}

	dueDate := *payment.DueDate
	if !models.DeriveReminderDate(dueDate).After(time.Now()) {
		return nil, nil
	}

	description := fmt.Sprintf(
		"Reminder: Payment of ₹%s is due on %s for Plot %s. Please make the payment to avoid any inconvenience.",
		notify.FormatAmount(payment.Amount), dueDate.Format("02/01/2006"), payment.PlotNumber)

	paymentID := payment.ID
	plotNumber := payment.PlotNumber
	reminder := &models.Reminder{
		Title:           fmt.Sprintf("Payment Reminder - Plot %s", payment.PlotNumber),
		Description:     &description,
		CustomerName:    payment.CustomerName,
		CustomerPhone:   payment.CustomerPhone,
		Amount:          payment.Amount,
		TransactionDate: payment.Date,
		DueDate:         dueDate,
		TransactionType: models.TransactionTypePaymentDue,
		Type:            models.ReminderTypePayment,
		Category:        models.CategoryPayment,
		AutoReminder:    true,
		ReminderMethod:  models.MethodWhatsApp + "," + models.MethodSMS,
		PlotID:          payment.PlotID,
		PlotNumber:      &plotNumber,
		PaymentID:       &paymentID,
	}

	if err := f.reminders.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create payment reminder: %w", err)
	}
	return reminder, nil
}
