package models

import "time"

// Alert is an in-app operational notice for back-office staff, raised when
// a reminder needs human follow-up (for example every channel failed).
type Alert struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"not null" json:"title"`
	Message    string     `gorm:"not null" json:"message"`
	AlertType  string     `gorm:"index" json:"alert_type"`
	ReminderID *uint      `gorm:"index" json:"reminder_id"`
	ReadAt     *time.Time `gorm:"index" json:"read_at"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Alert
func (Alert) TableName() string {
	return "alerts"
}

// Alert type constants
const (
	AlertTypeDispatchFailed  = "dispatch_failed"
	AlertTypeReminderOverdue = "reminder_overdue"
)

// MarkAsRead stamps the alert as read
func (a *Alert) MarkAsRead() {
	now := time.Now()
	a.ReadAt = &now
}

// IsRead returns true when the alert has been read
func (a *Alert) IsRead() bool {
	return a.ReadAt != nil
}
