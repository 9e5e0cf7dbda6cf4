package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/internal/repository"
)

func newReminderService() (*ReminderService, repository.ReminderRepository) {
	repo := repository.NewMemoryReminderRepository()
	return NewReminderService(repo), repo
}

func validReminder(dueDate time.Time) *models.Reminder {
	return &models.Reminder{
		Title:         "Collect sale deed copy",
		CustomerName:  "Ramesh Patil",
		CustomerPhone: "9876543210",
		Amount:        50000,
		DueDate:       dueDate,
		AutoReminder:  true,
	}
}

func TestReminderService_Create_Defaults(t *testing.T) {
	svc, _ := newReminderService()
	dueDate := time.Now().Add(10 * 24 * time.Hour)

	reminder := validReminder(dueDate)
	require.NoError(t, svc.Create(context.Background(), reminder))

	assert.NotZero(t, reminder.ID)
	assert.NotEmpty(t, reminder.TransactionID)
	assert.Equal(t, models.DeriveReminderDate(dueDate), reminder.ReminderDate)
	assert.Equal(t, models.ReminderStatusPending, reminder.Status)
	assert.Equal(t, models.CategoryOther, reminder.Category)
	assert.Equal(t, models.DefaultCurrency, reminder.Currency)
	assert.Equal(t, "WhatsApp,SMS", reminder.ReminderMethod)
	assert.Equal(t, "10:00", reminder.ReminderTime)
	assert.True(t, reminder.IsActive)
}

func TestReminderService_Create_ManualKeepsDueDate(t *testing.T) {
	svc, _ := newReminderService()
	dueDate := time.Now().Add(10 * 24 * time.Hour)

	reminder := validReminder(dueDate)
	reminder.AutoReminder = false
	require.NoError(t, svc.Create(context.Background(), reminder))

	// Manual reminders default the reminder date to the due date
	assert.Equal(t, dueDate, reminder.ReminderDate)
}

func TestReminderService_Create_Validation(t *testing.T) {
	svc, _ := newReminderService()
	dueDate := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name   string
		mutate func(*models.Reminder)
	}{
		{"missing title", func(r *models.Reminder) { r.Title = "" }},
		{"missing customer name", func(r *models.Reminder) { r.CustomerName = "" }},
		{"missing phone", func(r *models.Reminder) { r.CustomerPhone = "" }},
		{"missing due date", func(r *models.Reminder) { r.DueDate = time.Time{} }},
		{"negative amount", func(r *models.Reminder) { r.Amount = -1 }},
		{"unknown category", func(r *models.Reminder) { r.Category = "astrology" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reminder := validReminder(dueDate)
			tt.mutate(reminder)
			err := svc.Create(context.Background(), reminder)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestReminderService_Update_RederivesReminderDate(t *testing.T) {
	svc, _ := newReminderService()
	dueDate := time.Now().Add(10 * 24 * time.Hour)

	reminder := validReminder(dueDate)
	require.NoError(t, svc.Create(context.Background(), reminder))

	// Pull the due date in front of the stored reminder date
	reminder.DueDate = time.Now().Add(24 * time.Hour)
	require.NoError(t, svc.Update(context.Background(), reminder))

	assert.Equal(t, models.DeriveReminderDate(reminder.DueDate), reminder.ReminderDate)
}

func TestReminderService_CompleteAndCancel(t *testing.T) {
	svc, repo := newReminderService()
	dueDate := time.Now().Add(10 * 24 * time.Hour)

	reminder := validReminder(dueDate)
	require.NoError(t, svc.Create(context.Background(), reminder))

	require.NoError(t, svc.Complete(context.Background(), reminder.ID))
	got, err := repo.FindByID(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	// Terminal states refuse further transitions
	assert.ErrorIs(t, svc.Cancel(context.Background(), reminder.ID), ErrInvalidState)
	assert.ErrorIs(t, svc.Complete(context.Background(), reminder.ID), ErrInvalidState)

	other := validReminder(dueDate)
	require.NoError(t, svc.Create(context.Background(), other))
	require.NoError(t, svc.Cancel(context.Background(), other.ID))

	got, err = repo.FindByID(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusCancelled, got.Status)
}

func TestReminderService_MarkSent(t *testing.T) {
	svc, repo := newReminderService()
	dueDate := time.Now().Add(10 * 24 * time.Hour)

	reminder := validReminder(dueDate)
	require.NoError(t, svc.Create(context.Background(), reminder))

	require.NoError(t, svc.MarkSent(context.Background(), reminder.ID))

	got, err := repo.FindByID(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusReminded, got.Status)

	// Doing it again is a state conflict, not a silent overwrite
	assert.ErrorIs(t, svc.MarkSent(context.Background(), reminder.ID), ErrInvalidState)
	assert.ErrorIs(t, svc.MarkSent(context.Background(), 999), ErrNotFound)
}

func TestReminderService_NotFound(t *testing.T) {
	svc, _ := newReminderService()

	_, err := svc.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Complete(context.Background(), 42), ErrNotFound)
}
