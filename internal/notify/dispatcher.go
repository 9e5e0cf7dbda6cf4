package notify

import (
	"context"
	"time"

	"github.com/skproperty/brokerage-api/internal/config"
	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/pkg/logger"
)

// Dispatcher fans a reminder out to every channel named in its
// ReminderMethod, in fixed preference order (WhatsApp, SMS, Email), and
// returns the full ordered result list. Success semantics are left to the
// caller.
type Dispatcher struct {
	channels map[string]Channel
}

// StatusReporter is implemented by channels that can describe their
// configuration.
type StatusReporter interface {
	Status() ChannelStatus
}

// NewDispatcher builds a dispatcher with the standard channel set.
func NewDispatcher(cfg *config.Config) *Dispatcher {
	return NewDispatcherWithChannels(
		NewWhatsAppChannel(cfg),
		NewSMSChannel(cfg),
		NewEmailChannel(cfg),
	)
}

// NewDispatcherWithChannels builds a dispatcher from explicit channels.
// Used by tests to substitute fakes.
func NewDispatcherWithChannels(channels ...Channel) *Dispatcher {
	d := &Dispatcher{channels: make(map[string]Channel)}
	for _, c := range channels {
		d.channels[c.Name()] = c
	}
	return d
}

// Dispatch sends the reminder message across its configured channels.
// A reminder without a phone number yields no phone-channel attempts; if
// it also lacks an email address (or email is not configured as a method)
// the result list is empty, which is a no-op rather than an error.
func (d *Dispatcher) Dispatch(ctx context.Context, reminder *models.Reminder) models.NotificationResults {
	message := BuildReminderMessage(reminder)

	var results models.NotificationResults
	for _, method := range reminder.Methods() {
		channel, ok := d.channels[method]
		if !ok {
			continue
		}

		var destination string
		switch method {
		case models.MethodEmail:
			if reminder.CustomerEmail == nil || !ValidEmail(*reminder.CustomerEmail) {
				continue
			}
			destination = *reminder.CustomerEmail
		default:
			if reminder.CustomerPhone == "" {
				continue
			}
			destination = reminder.CustomerPhone
		}

		result := channel.Send(ctx, destination, message)
		results = append(results, result)
	}

	if len(results) == 0 {
		logger.Warn("Reminder has no reachable destination, skipping dispatch",
			"reminder_id", reminder.ID, "methods", reminder.ReminderMethod)
	}

	return results
}

// Config reports each channel's status without leaking credentials.
func (d *Dispatcher) Config() map[string]ChannelStatus {
	statuses := make(map[string]ChannelStatus, len(d.channels))
	for name, channel := range d.channels {
		if reporter, ok := channel.(StatusReporter); ok {
			statuses[name] = reporter.Status()
		} else {
			statuses[name] = ChannelStatus{Enabled: true}
		}
	}
	return statuses
}

// Test sends a canned message across every channel to the given phone
// number, regardless of reminder configuration.
func (d *Dispatcher) Test(ctx context.Context, phone, customerName string) models.NotificationResults {
	reminder := &models.Reminder{
		CustomerName:   customerName,
		CustomerPhone:  phone,
		Title:          "Test Notification",
		ReminderMethod: models.MethodAll,
		DueDate:        time.Now(),
	}
	message := BuildReminderMessage(reminder)

	var results models.NotificationResults
	for _, method := range []string{models.MethodWhatsApp, models.MethodSMS} {
		if channel, ok := d.channels[method]; ok {
			results = append(results, channel.Send(ctx, phone, message))
		}
	}
	return results
}
