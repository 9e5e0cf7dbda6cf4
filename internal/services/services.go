package services

import (
	"github.com/skproperty/brokerage-api/internal/config"
	"github.com/skproperty/brokerage-api/internal/jobs"
	"github.com/skproperty/brokerage-api/internal/notify"
	"github.com/skproperty/brokerage-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Reminder  *ReminderService
	Scheduler *SchedulerService
	Payment   *PaymentService
	Alert     *AlertService
	Job       *JobService

	Factory    *ReminderFactory
	Dispatcher *notify.Dispatcher
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config) *Services {
	dispatcher := notify.NewDispatcher(cfg)
	alertSvc := NewAlertService(repos.Alert)
	reminderSvc := NewReminderService(repos.Reminder)
	factory := NewReminderFactory(reminderSvc)
	schedulerSvc := NewSchedulerService(repos.Reminder, dispatcher, alertSvc, cfg.ReminderScanInterval)

	return &Services{
		Reminder:   reminderSvc,
		Scheduler:  schedulerSvc,
		Payment:    NewPaymentService(repos.Payment, factory, worker),
		Alert:      alertSvc,
		Job:        NewJobService(worker),
		Factory:    factory,
		Dispatcher: dispatcher,
	}
}
