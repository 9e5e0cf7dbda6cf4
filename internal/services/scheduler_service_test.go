package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/internal/notify"
	"github.com/skproperty/brokerage-api/internal/repository"
	"github.com/skproperty/brokerage-api/pkg/logger"
)

// stubChannel implements notify.Channel with scripted outcomes per
// destination. Destinations listed in failFor get a failed result.
type stubChannel struct {
	name    string
	failFor map[string]bool
	sent    []string
}

func (c *stubChannel) Name() string { return c.name }

func (c *stubChannel) Send(ctx context.Context, destination, message string) models.NotificationResult {
	c.sent = append(c.sent, destination)
	if c.failFor[destination] {
		return models.NotificationResult{Method: c.name, Success: false, Error: "provider error", SentAt: time.Now()}
	}
	return models.NotificationResult{Method: c.name, Success: true, MessageID: "SM-" + destination, SentAt: time.Now()}
}

func newSchedulerFixture(t *testing.T, channels ...notify.Channel) (*SchedulerService, repository.ReminderRepository, *AlertService) {
	t.Helper()
	logger.Setup("test")

	repo := repository.NewMemoryReminderRepository()
	alerts := NewAlertService(repository.NewMemoryAlertRepository())
	dispatcher := notify.NewDispatcherWithChannels(channels...)
	scheduler := NewSchedulerService(repo, dispatcher, alerts, time.Hour)
	return scheduler, repo, alerts
}

func storedReminder(t *testing.T, repo repository.ReminderRepository, dueDate time.Time, phone string) *models.Reminder {
	t.Helper()
	reminder := &models.Reminder{
		TransactionID:  models.GenerateTransactionID(time.Now()),
		Title:          "Advance payment due",
		CustomerName:   "Ramesh Patil",
		CustomerPhone:  phone,
		Amount:         50000,
		DueDate:        dueDate,
		ReminderDate:   models.DeriveReminderDate(dueDate),
		Status:         models.ReminderStatusPending,
		AutoReminder:   true,
		ReminderMethod: "WhatsApp,SMS",
		IsActive:       true,
	}
	require.NoError(t, repo.Create(context.Background(), reminder))
	return reminder
}

func TestScan_DispatchesDueReminders(t *testing.T) {
	whatsapp := &stubChannel{name: models.MethodWhatsApp}
	sms := &stubChannel{name: models.MethodSMS}
	scheduler, repo, _ := newSchedulerFixture(t, whatsapp, sms)

	due := storedReminder(t, repo, time.Now().Add(24*time.Hour), "9876543210")
	notYet := storedReminder(t, repo, time.Now().Add(96*time.Hour), "9876543211")

	scheduler.Scan(context.Background())

	got, err := repo.FindByID(context.Background(), due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusReminded, got.Status)
	assert.True(t, got.ReminderSent)
	assert.Len(t, got.NotificationResults, 2)

	untouched, err := repo.FindByID(context.Background(), notYet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusPending, untouched.Status)
	assert.Equal(t, []string{"9876543210"}, whatsapp.sent)
}

func TestScan_SecondScanDoesNotResend(t *testing.T) {
	whatsapp := &stubChannel{name: models.MethodWhatsApp}
	scheduler, repo, _ := newSchedulerFixture(t, whatsapp)

	storedReminder(t, repo, time.Now().Add(24*time.Hour), "9876543210")

	scheduler.Scan(context.Background())
	scheduler.Scan(context.Background())

	assert.Len(t, whatsapp.sent, 1)
}

func TestScan_AtLeastOneSuccessMarksSent(t *testing.T) {
	whatsapp := &stubChannel{name: models.MethodWhatsApp, failFor: map[string]bool{"9876543210": true}}
	sms := &stubChannel{name: models.MethodSMS}
	scheduler, repo, _ := newSchedulerFixture(t, whatsapp, sms)

	due := storedReminder(t, repo, time.Now().Add(24*time.Hour), "9876543210")

	scheduler.Scan(context.Background())

	got, err := repo.FindByID(context.Background(), due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusReminded, got.Status)
	require.Len(t, got.NotificationResults, 2)
	assert.False(t, got.NotificationResults[0].Success)
	assert.True(t, got.NotificationResults[1].Success)
}

func TestScan_AllChannelsFailedEscalates(t *testing.T) {
	failAll := map[string]bool{"9876543210": true}
	whatsapp := &stubChannel{name: models.MethodWhatsApp, failFor: failAll}
	sms := &stubChannel{name: models.MethodSMS, failFor: failAll}
	scheduler, repo, alerts := newSchedulerFixture(t, whatsapp, sms)

	due := storedReminder(t, repo, time.Now().Add(24*time.Hour), "9876543210")

	scheduler.Scan(context.Background())

	got, err := repo.FindByID(context.Background(), due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusFailed, got.Status)
	assert.False(t, got.ReminderSent)

	unread, err := alerts.CountUnread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	// The scheduled path does not retry a failed reminder; staff follow up
	// through the manual send
	scheduler.Scan(context.Background())
	assert.Len(t, whatsapp.sent, 1)

	whatsapp.failFor = nil
	sms.failFor = nil
	outcome, err := scheduler.SendNow(context.Background(), due.ID)
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	got, err = repo.FindByID(context.Background(), due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusReminded, got.Status)
}

func TestScan_OneFailureDoesNotStarveTheBatch(t *testing.T) {
	failFirst := map[string]bool{"9876543210": true}
	whatsapp := &stubChannel{name: models.MethodWhatsApp, failFor: failFirst}
	sms := &stubChannel{name: models.MethodSMS, failFor: failFirst}
	scheduler, repo, _ := newSchedulerFixture(t, whatsapp, sms)

	failing := storedReminder(t, repo, time.Now().Add(24*time.Hour), "9876543210")
	healthy := storedReminder(t, repo, time.Now().Add(24*time.Hour), "9876543299")

	scheduler.Scan(context.Background())

	first, err := repo.FindByID(context.Background(), failing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusFailed, first.Status)

	second, err := repo.FindByID(context.Background(), healthy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusReminded, second.Status)
}

func TestScan_MarksOverdueAndAlerts(t *testing.T) {
	whatsapp := &stubChannel{name: models.MethodWhatsApp}
	scheduler, repo, alerts := newSchedulerFixture(t, whatsapp)

	past := storedReminder(t, repo, time.Now().Add(-24*time.Hour), "9876543210")

	scheduler.Scan(context.Background())

	got, err := repo.FindByID(context.Background(), past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusOverdue, got.Status)
	// Past-due reminders are not dispatched
	assert.Empty(t, whatsapp.sent)

	unread, err := alerts.CountUnread(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

type unreachableRepo struct {
	repository.ReminderRepository
	findDueCalls int
}

func (r *unreachableRepo) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func (r *unreachableRepo) FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	r.findDueCalls++
	return r.ReminderRepository.FindDue(ctx, now)
}

func TestScan_SkipsWhenStoreUnreachable(t *testing.T) {
	logger.Setup("test")

	repo := &unreachableRepo{ReminderRepository: repository.NewMemoryReminderRepository()}
	dispatcher := notify.NewDispatcherWithChannels(&stubChannel{name: models.MethodWhatsApp})
	alerts := NewAlertService(repository.NewMemoryAlertRepository())
	scheduler := NewSchedulerService(repo, dispatcher, alerts, time.Hour)

	scheduler.Scan(context.Background())
	assert.Equal(t, 0, repo.findDueCalls)
}

func TestSendNow_BypassesWindow(t *testing.T) {
	whatsapp := &stubChannel{name: models.MethodWhatsApp}
	scheduler, repo, _ := newSchedulerFixture(t, whatsapp)

	// Due far in the future, nowhere near the send window
	reminder := storedReminder(t, repo, time.Now().Add(30*24*time.Hour), "9876543210")

	outcome, err := scheduler.SendNow(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	require.Len(t, outcome.Results, 1)

	got, err := repo.FindByID(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusReminded, got.Status)
}

func TestSendNow_AlreadyRemindedAppendsOnly(t *testing.T) {
	whatsapp := &stubChannel{name: models.MethodWhatsApp}
	scheduler, repo, _ := newSchedulerFixture(t, whatsapp)

	reminder := storedReminder(t, repo, time.Now().Add(24*time.Hour), "9876543210")

	first, err := scheduler.SendNow(context.Background(), reminder.ID)
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := scheduler.SendNow(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.True(t, second.Success)

	got, err := repo.FindByID(context.Background(), reminder.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderStatusReminded, got.Status)
	// Both attempts land in the audit trail
	assert.Len(t, got.NotificationResults, 2)
}

func TestSendNow_UnknownReminder(t *testing.T) {
	scheduler, _, _ := newSchedulerFixture(t, &stubChannel{name: models.MethodWhatsApp})

	_, err := scheduler.SendNow(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartStop(t *testing.T) {
	scheduler, _, _ := newSchedulerFixture(t, &stubChannel{name: models.MethodWhatsApp})

	assert.False(t, scheduler.Status().Running)

	scheduler.Start()
	// Second Start is a no-op, not a second timer
	scheduler.Start()

	status := scheduler.Status()
	assert.True(t, status.Running)
	assert.Equal(t, time.Hour.String(), status.CheckInterval)
	require.NotNil(t, status.NextScan)
	assert.True(t, status.NextScan.After(time.Now()))

	scheduler.Stop()
	status = scheduler.Status()
	assert.False(t, status.Running)
	assert.Nil(t, status.NextScan)

	// Stopping twice is safe
	scheduler.Stop()
}
