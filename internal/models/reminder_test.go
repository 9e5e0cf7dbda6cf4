package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveReminderDate(t *testing.T) {
	dueDate := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC), DeriveReminderDate(dueDate))
}

func TestGenerateTransactionID(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id := GenerateTransactionID(now)

	assert.True(t, strings.HasPrefix(id, "TXN"))
	assert.Equal(t, strings.ToUpper(id), id)

	// Different instants produce different identifiers
	other := GenerateTransactionID(now.Add(time.Millisecond))
	assert.NotEqual(t, id, other)
}

func TestShouldSendReminder_Window(t *testing.T) {
	dueDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	reminder := &Reminder{
		AutoReminder: true,
		Status:       ReminderStatusPending,
		DueDate:      dueDate,
		ReminderDate: DeriveReminderDate(dueDate),
	}

	// Before the window opens
	assert.False(t, reminder.ShouldSendReminder(dueDate.Add(-72*time.Hour)))
	// Exactly at the reminder date
	assert.True(t, reminder.ShouldSendReminder(reminder.ReminderDate))
	// Inside the window
	assert.True(t, reminder.ShouldSendReminder(dueDate.Add(-24*time.Hour)))
	// At and past the due date the window is closed
	assert.False(t, reminder.ShouldSendReminder(dueDate))
	assert.False(t, reminder.ShouldSendReminder(dueDate.Add(time.Hour)))
}

func TestShouldSendReminder_Gates(t *testing.T) {
	dueDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	now := dueDate.Add(-24 * time.Hour)

	base := Reminder{
		AutoReminder: true,
		Status:       ReminderStatusPending,
		DueDate:      dueDate,
		ReminderDate: DeriveReminderDate(dueDate),
	}
	assert.True(t, base.ShouldSendReminder(now))

	manual := base
	manual.AutoReminder = false
	assert.False(t, manual.ShouldSendReminder(now))

	sent := base
	sent.ReminderSent = true
	assert.False(t, sent.ShouldSendReminder(now))

	for _, status := range []string{ReminderStatusReminded, ReminderStatusCompleted, ReminderStatusCancelled, ReminderStatusOverdue, ReminderStatusFailed} {
		r := base
		r.Status = status
		assert.False(t, r.ShouldSendReminder(now), "status %s must not be eligible", status)
	}
}

func TestIsOverdue(t *testing.T) {
	dueDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	pending := &Reminder{Status: ReminderStatusPending, DueDate: dueDate}
	assert.False(t, pending.IsOverdue(dueDate.Add(-time.Minute)))
	assert.True(t, pending.IsOverdue(dueDate))
	assert.True(t, pending.IsOverdue(dueDate.Add(time.Hour)))

	reminded := &Reminder{Status: ReminderStatusReminded, DueDate: dueDate}
	assert.True(t, reminded.IsOverdue(dueDate.Add(time.Hour)))

	completed := &Reminder{Status: ReminderStatusCompleted, DueDate: dueDate}
	assert.False(t, completed.IsOverdue(dueDate.Add(time.Hour)))

	cancelled := &Reminder{Status: ReminderStatusCancelled, DueDate: dueDate}
	assert.False(t, cancelled.IsOverdue(dueDate.Add(time.Hour)))
}

func TestOverdueDays(t *testing.T) {
	dueDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	reminder := &Reminder{Status: ReminderStatusPending, DueDate: dueDate}

	assert.Equal(t, 0, reminder.OverdueDays(dueDate.Add(-time.Hour)))
	assert.Equal(t, 0, reminder.OverdueDays(dueDate.Add(12*time.Hour)))
	assert.Equal(t, 3, reminder.OverdueDays(dueDate.Add(3*24*time.Hour)))
}

func TestMethods(t *testing.T) {
	tests := []struct {
		name   string
		method string
		want   []string
	}{
		{"default pair", "WhatsApp,SMS", []string{MethodWhatsApp, MethodSMS}},
		{"case insensitive", "whatsapp, email", []string{MethodWhatsApp, MethodEmail}},
		{"all expands", "All", []string{MethodWhatsApp, MethodSMS, MethodEmail}},
		{"order normalized", "Email,SMS,WhatsApp", []string{MethodWhatsApp, MethodSMS, MethodEmail}},
		{"duplicates collapse", "SMS,sms,SMS", []string{MethodSMS}},
		{"unknown ignored", "SMS,pigeon", []string{MethodSMS}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reminder{ReminderMethod: tt.method}
			assert.Equal(t, tt.want, r.Methods())
		})
	}
}

func TestNotificationResults_AnySuccess(t *testing.T) {
	assert.False(t, NotificationResults{}.AnySuccess())
	assert.False(t, NotificationResults{{Method: MethodSMS, Success: false}}.AnySuccess())
	assert.True(t, NotificationResults{
		{Method: MethodWhatsApp, Success: false},
		{Method: MethodSMS, Success: true},
	}.AnySuccess())
}

func TestPaymentSpawnsReminder(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	advance := &Payment{PaymentType: PaymentTypeAdvanceIn, DueDate: &due, Status: PaymentStatusPending}
	assert.True(t, advance.SpawnsReminder())

	outgoing := &Payment{PaymentType: PaymentTypeAdvanceOut, DueDate: &due, Status: PaymentStatusPending}
	assert.True(t, outgoing.SpawnsReminder())

	noDueDate := &Payment{PaymentType: PaymentTypeAdvanceIn, Status: PaymentStatusPending}
	assert.False(t, noDueDate.SpawnsReminder())

	received := &Payment{PaymentType: PaymentTypeAdvanceIn, DueDate: &due, Status: PaymentStatusReceived}
	assert.False(t, received.SpawnsReminder())

	installment := &Payment{PaymentType: PaymentTypeInstallment, DueDate: &due, Status: PaymentStatusPending}
	assert.False(t, installment.SpawnsReminder())
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "इसारत घेतलेले", CategoryLabel(CategoryAdvanceReceived))
	assert.Equal(t, "इसारत दिलेले", CategoryLabel(CategoryAdvanceGiven))
	// Unknown categories fall back to the Other label
	assert.Equal(t, "Other", CategoryLabel("mystery"))
	assert.False(t, ValidCategory("mystery"))
}
