package handlers

import (
	"github.com/skproperty/brokerage-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Reminder     *ReminderHandler
	Notification *NotificationHandler
	Payment      *PaymentHandler
	Alert        *AlertHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Reminder:     NewReminderHandler(svcs.Reminder),
		Notification: NewNotificationHandler(svcs.Scheduler, svcs.Dispatcher),
		Payment:      NewPaymentHandler(svcs.Payment),
		Alert:        NewAlertHandler(svcs.Alert),
		Job:          NewJobHandler(svcs.Job),
	}
}
