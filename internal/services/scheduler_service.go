package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/internal/notify"
	"github.com/skproperty/brokerage-api/internal/repository"
	"github.com/skproperty/brokerage-api/pkg/logger"
)

// SchedulerService is the long-lived process that sweeps the reminder
// store: due reminders are dispatched across their channels, reminders
// past their due date are marked overdue. One sweep runs immediately on
// Start, then on a fixed interval until Stop.
type SchedulerService struct {
	repo       repository.ReminderRepository
	dispatcher *notify.Dispatcher
	alerts     *AlertService
	interval   time.Duration

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	nextScan time.Time

	// guards against a manual trigger racing the timer into the same sweep
	scanning atomic.Bool
}

// SchedulerStatus describes the scheduler for the admin surface
type SchedulerStatus struct {
	Running       bool       `json:"running"`
	CheckInterval string     `json:"check_interval"`
	NextScan      *time.Time `json:"next_scan,omitempty"`
}

// DispatchOutcome is what administrative callers get back from a manual
// send: the full per-channel result list plus an overall flag, never raw
// transport errors.
type DispatchOutcome struct {
	Success bool                       `json:"success"`
	Results models.NotificationResults `json:"results"`
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(repo repository.ReminderRepository, dispatcher *notify.Dispatcher, alerts *AlertService, interval time.Duration) *SchedulerService {
	return &SchedulerService{
		repo:       repo,
		dispatcher: dispatcher,
		alerts:     alerts,
		interval:   interval,
	}
}

// Start launches the periodic sweep. Calling Start on a running scheduler
// is a no-op, so at most one timer is ever armed.
func (s *SchedulerService) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Warn("Reminder scheduler already running")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.nextScan = time.Now().Add(s.interval)
	s.mu.Unlock()

	logger.Info("Starting reminder scheduler", "interval", s.interval)

	go func() {
		s.runScan(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runScan(ctx)
			}
		}
	}()
}

// Stop cancels the timer. An in-flight sweep runs to completion since
// reminders are resumable on the next cycle.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		logger.Warn("Reminder scheduler is not running")
		return
	}
	s.cancel()
	s.cancel = nil
	s.running = false
	s.nextScan = time.Time{}
	logger.Info("Reminder scheduler stopped")
}

// Status reports the scheduler state and the next scheduled sweep
func (s *SchedulerService) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SchedulerStatus{
		Running:       s.running,
		CheckInterval: s.interval.String(),
	}
	if s.running && !s.nextScan.IsZero() {
		next := s.nextScan
		status.NextScan = &next
	}
	return status
}

func (s *SchedulerService) runScan(ctx context.Context) {
	s.mu.Lock()
	s.nextScan = time.Now().Add(s.interval)
	s.mu.Unlock()

	s.Scan(ctx)
}

// Scan performs one due/overdue sweep. Concurrent calls collapse into the
// scan already in flight: the late caller returns immediately. A store
// outage aborts the cycle with a warning; the next timer fire retries.
func (s *SchedulerService) Scan(ctx context.Context) {
	if !s.scanning.CompareAndSwap(false, true) {
		logger.Warn("Reminder scan already in progress, skipping")
		return
	}
	defer s.scanning.Store(false)

	if err := s.repo.Ping(ctx); err != nil {
		logger.Warn("Reminder store unreachable, skipping scan", "error", err)
		return
	}

	now := time.Now()

	due, err := s.repo.FindDue(ctx, now)
	if err != nil {
		logger.Error("Failed to fetch due reminders", "error", err)
		sentry.CaptureException(err)
	} else {
		if len(due) > 0 {
			logger.Info("Found due reminders", "count", len(due))
		}
		for i := range due {
			// each reminder is processed independently so one failure
			// cannot starve the rest of the batch
			s.processReminder(ctx, &due[i])
		}
	}

	s.markOverdue(ctx, now)
}

// processReminder runs the per-reminder dispatch procedure: send across
// the configured channels, then persist the outcome. At least one channel
// success marks the reminder as reminded; a full miss marks it failed and
// raises an alert for staff. Persistence errors are logged, never
// propagated into the scan.
func (s *SchedulerService) processReminder(ctx context.Context, reminder *models.Reminder) {
	logger.Info("Processing due reminder",
		"reminder_id", reminder.ID, "title", reminder.Title, "customer", reminder.CustomerName)

	results := s.dispatcher.Dispatch(ctx, reminder)
	if len(results) == 0 {
		return
	}

	now := time.Now()
	if results.AnySuccess() {
		if err := s.repo.MarkSent(ctx, reminder.ID, results, now); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				logger.Info("Reminder already handled by another sender", "reminder_id", reminder.ID)
				return
			}
			logger.Error("Failed to mark reminder as sent", "reminder_id", reminder.ID, "error", err)
		}
		return
	}

	if err := s.repo.MarkFailed(ctx, reminder.ID, results, now); err != nil {
		logger.Error("Failed to mark reminder as failed", "reminder_id", reminder.ID, "error", err)
		return
	}
	s.alerts.RaiseDispatchFailed(ctx, reminder, results)
}

func (s *SchedulerService) markOverdue(ctx context.Context, now time.Time) {
	overdue, err := s.repo.FindOverdue(ctx, now)
	if err != nil {
		logger.Error("Failed to fetch overdue reminders", "error", err)
		sentry.CaptureException(err)
		return
	}
	if len(overdue) == 0 {
		return
	}

	logger.Info("Found overdue reminders", "count", len(overdue))
	for i := range overdue {
		reminder := &overdue[i]
		if err := s.repo.MarkOverdue(ctx, reminder.ID); err != nil {
			logger.Error("Failed to mark reminder as overdue", "reminder_id", reminder.ID, "error", err)
			continue
		}
		s.alerts.RaiseOverdue(ctx, reminder)
	}
}

// SendNow dispatches a single reminder immediately, outside the timer
// cadence and outside the eligibility window. Results are recorded the
// same way the scheduled path records them; a send to an already-reminded
// reminder only appends to the audit trail.
func (s *SchedulerService) SendNow(ctx context.Context, id uint) (*DispatchOutcome, error) {
	reminder, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	logger.Info("Manually sending reminder", "reminder_id", reminder.ID, "title", reminder.Title)

	results := s.dispatcher.Dispatch(ctx, reminder)
	outcome := &DispatchOutcome{Success: results.AnySuccess(), Results: results}
	if len(results) == 0 {
		return outcome, nil
	}

	now := time.Now()
	if outcome.Success {
		err = s.repo.MarkSent(ctx, id, results, now)
		if errors.Is(err, repository.ErrStaleState) {
			err = s.repo.AppendResults(ctx, id, results)
		}
	} else {
		err = s.repo.MarkFailed(ctx, id, results, now)
		if err == nil {
			s.alerts.RaiseDispatchFailed(ctx, reminder, results)
		}
		if errors.Is(err, repository.ErrStaleState) {
			err = s.repo.AppendResults(ctx, id, results)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record dispatch outcome: %w", err)
	}

	return outcome, nil
}
