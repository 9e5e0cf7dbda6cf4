package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/pkg/logger"
)

type fakeChannel struct {
	name    string
	succeed bool
	sent    []string
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(ctx context.Context, destination, message string) models.NotificationResult {
	f.sent = append(f.sent, destination)
	result := models.NotificationResult{
		Method:  f.name,
		Success: f.succeed,
		SentAt:  time.Now(),
	}
	if !f.succeed {
		result.Error = "channel down"
	}
	return result
}

func testReminder() *models.Reminder {
	plot := "A-12"
	desc := "Final advance installment"
	return &models.Reminder{
		ID:             7,
		Title:          "Advance payment due",
		CustomerName:   "Ramesh Patil",
		CustomerPhone:  "9876543210",
		Amount:         1234567,
		DueDate:        time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		PlotNumber:     &plot,
		Description:    &desc,
		ReminderMethod: "WhatsApp,SMS",
	}
}

func TestBuildReminderMessage(t *testing.T) {
	message := BuildReminderMessage(testReminder())

	assert.Contains(t, message, "*SK PROPERTY REMINDER*")
	assert.Contains(t, message, "Dear Ramesh Patil,")
	assert.Contains(t, message, "15/03/2026")
	assert.Contains(t, message, "Plot: A-12")
	assert.Contains(t, message, "₹12,34,567")
	assert.Contains(t, message, "Final advance installment")
	assert.True(t, strings.HasSuffix(message, "*SK PROPERTY*"))
}

func TestBuildReminderMessage_OptionalFields(t *testing.T) {
	reminder := testReminder()
	reminder.PlotNumber = nil
	reminder.Description = nil
	reminder.Amount = 0

	message := BuildReminderMessage(reminder)
	assert.NotContains(t, message, "Plot:")
	assert.NotContains(t, message, "Amount:")
}

func TestDispatch_ChannelOrder(t *testing.T) {
	logger.Setup("test")

	whatsapp := &fakeChannel{name: models.MethodWhatsApp, succeed: true}
	sms := &fakeChannel{name: models.MethodSMS, succeed: true}
	email := &fakeChannel{name: models.MethodEmail, succeed: true}
	d := NewDispatcherWithChannels(whatsapp, sms, email)

	reminder := testReminder()
	reminder.ReminderMethod = "Email,SMS,WhatsApp"
	addr := "ramesh@example.com"
	reminder.CustomerEmail = &addr

	results := d.Dispatch(context.Background(), reminder)
	require.Len(t, results, 3)
	assert.Equal(t, models.MethodWhatsApp, results[0].Method)
	assert.Equal(t, models.MethodSMS, results[1].Method)
	assert.Equal(t, models.MethodEmail, results[2].Method)
	assert.Equal(t, []string{addr}, email.sent)
}

func TestDispatch_PartialFailure(t *testing.T) {
	logger.Setup("test")

	whatsapp := &fakeChannel{name: models.MethodWhatsApp, succeed: false}
	sms := &fakeChannel{name: models.MethodSMS, succeed: true}
	d := NewDispatcherWithChannels(whatsapp, sms)

	results := d.Dispatch(context.Background(), testReminder())
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.True(t, results[1].Success)
	assert.True(t, results.AnySuccess())
}

func TestDispatch_NoPhoneIsNoOp(t *testing.T) {
	logger.Setup("test")

	whatsapp := &fakeChannel{name: models.MethodWhatsApp, succeed: true}
	d := NewDispatcherWithChannels(whatsapp)

	reminder := testReminder()
	reminder.CustomerPhone = ""

	results := d.Dispatch(context.Background(), reminder)
	assert.Empty(t, results)
	assert.Empty(t, whatsapp.sent)
}

func TestDispatch_EmailSkippedWhenInvalid(t *testing.T) {
	logger.Setup("test")

	email := &fakeChannel{name: models.MethodEmail, succeed: true}
	sms := &fakeChannel{name: models.MethodSMS, succeed: true}
	d := NewDispatcherWithChannels(email, sms)

	reminder := testReminder()
	reminder.ReminderMethod = "SMS,Email"
	bad := "not-an-address"
	reminder.CustomerEmail = &bad

	results := d.Dispatch(context.Background(), reminder)
	require.Len(t, results, 1)
	assert.Equal(t, models.MethodSMS, results[0].Method)
	assert.Empty(t, email.sent)
}

func TestDispatcherTest_PhoneChannelsOnly(t *testing.T) {
	logger.Setup("test")

	whatsapp := &fakeChannel{name: models.MethodWhatsApp, succeed: true}
	sms := &fakeChannel{name: models.MethodSMS, succeed: true}
	email := &fakeChannel{name: models.MethodEmail, succeed: true}
	d := NewDispatcherWithChannels(whatsapp, sms, email)

	results := d.Test(context.Background(), "9876543210", "Ramesh")
	require.Len(t, results, 2)
	assert.Equal(t, models.MethodWhatsApp, results[0].Method)
	assert.Equal(t, models.MethodSMS, results[1].Method)
	assert.Empty(t, email.sent)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("ramesh@example.com"))
	assert.False(t, ValidEmail("not-an-address"))
	assert.False(t, ValidEmail(""))
}
