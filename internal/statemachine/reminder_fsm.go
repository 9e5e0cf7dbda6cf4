package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/skproperty/brokerage-api/internal/models"
)

// ReminderFSM wraps a reminder with its lifecycle state machine
type ReminderFSM struct {
	reminder *models.Reminder
	fsm      *fsm.FSM
}

// NewReminderFSM creates a new reminder state machine
func NewReminderFSM(reminder *models.Reminder) *ReminderFSM {
	rfsm := &ReminderFSM{
		reminder: reminder,
	}

	rfsm.fsm = fsm.NewFSM(
		reminder.Status,
		fsm.Events{
			// pending/overdue/failed → reminded (at least one channel succeeded)
			{Name: "send", Src: []string{models.ReminderStatusPending, models.ReminderStatusOverdue, models.ReminderStatusFailed}, Dst: models.ReminderStatusReminded},

			// pending/reminded → overdue (due date passed)
			{Name: "expire", Src: []string{models.ReminderStatusPending, models.ReminderStatusReminded}, Dst: models.ReminderStatusOverdue},

			// pending/overdue → failed (every channel failed)
			{Name: "fail", Src: []string{models.ReminderStatusPending, models.ReminderStatusOverdue}, Dst: models.ReminderStatusFailed},

			// any open state → completed (administrative closure)
			{Name: "complete", Src: []string{models.ReminderStatusPending, models.ReminderStatusReminded, models.ReminderStatusOverdue, models.ReminderStatusFailed}, Dst: models.ReminderStatusCompleted},

			// any open state → cancelled
			{Name: "cancel", Src: []string{models.ReminderStatusPending, models.ReminderStatusReminded, models.ReminderStatusOverdue, models.ReminderStatusFailed}, Dst: models.ReminderStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return rfsm
}

// Complete transitions the reminder to completed
func (r *ReminderFSM) Complete(ctx context.Context) error {
	if err := r.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("reminder cannot be completed in current state %s: %w", r.reminder.Status, err)
	}
	r.reminder.Status = r.fsm.Current()
	return nil
}

// Cancel transitions the reminder to cancelled
func (r *ReminderFSM) Cancel(ctx context.Context) error {
	if err := r.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("reminder cannot be cancelled in current state %s: %w", r.reminder.Status, err)
	}
	r.reminder.Status = r.fsm.Current()
	return nil
}

// Expire transitions the reminder to overdue
func (r *ReminderFSM) Expire(ctx context.Context) error {
	if err := r.fsm.Event(ctx, "expire"); err != nil {
		return fmt.Errorf("reminder cannot expire in current state %s: %w", r.reminder.Status, err)
	}
	r.reminder.Status = r.fsm.Current()
	return nil
}

// Current returns the current state
func (r *ReminderFSM) Current() string {
	return r.fsm.Current()
}

// Can checks if a transition is possible
func (r *ReminderFSM) Can(event string) bool {
	return r.fsm.Can(event)
}
