package models

import (
	"strconv"
	"strings"
	"time"
)

// Reminder is a scheduled customer obligation (payment, document, visit)
// that the notification scheduler drives from pending to reminded/overdue.
type Reminder struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TransactionID string `gorm:"uniqueIndex;not null" json:"transaction_id"`

	TransactionType string `gorm:"default:follow_up;not null;index" json:"transaction_type"`
	Category        string `gorm:"default:other;index" json:"category"`
	Type            string `gorm:"default:follow_up;index" json:"type"`

	Title       string  `gorm:"not null" json:"title"`
	Description *string `gorm:"type:text" json:"description"`

	CustomerName  string  `gorm:"not null" json:"customer_name"`
	CustomerPhone string  `gorm:"not null" json:"customer_phone"`
	CustomerEmail *string `json:"customer_email"`

	Amount   float64 `gorm:"type:decimal(15,2);default:0" json:"amount"`
	Currency string  `gorm:"default:INR" json:"currency"`

	TransactionDate time.Time `json:"transaction_date"`
	DueDate         time.Time `gorm:"not null;index" json:"due_date"`
	ReminderDate    time.Time `gorm:"not null;index" json:"reminder_date"`
	ReminderTime    string    `gorm:"default:10:00" json:"reminder_time"`

	Status           string     `gorm:"default:pending;not null;index" json:"status"`
	AutoReminder     bool       `gorm:"default:true" json:"auto_reminder"`
	ReminderSent     bool       `gorm:"default:false" json:"reminder_sent"`
	ReminderSentDate *time.Time `json:"reminder_sent_date"`
	SentAt           *time.Time `json:"sent_at"`
	CompletedAt      *time.Time `json:"completed_at"`

	// Comma-joined channel set chosen at creation time, e.g. "WhatsApp,SMS"
	ReminderMethod string `gorm:"default:WhatsApp,SMS" json:"reminder_method"`

	// Append-only delivery audit trail, embedded with the reminder
	NotificationResults NotificationResults `gorm:"type:jsonb;serializer:json" json:"notification_results"`

	// Weak references to the records that spawned this reminder
	PlotID     *uint   `gorm:"index" json:"plot_id"`
	PlotNumber *string `json:"plot_number"`
	AgentID    *uint   `gorm:"index" json:"agent_id"`
	PaymentID  *uint   `gorm:"index" json:"payment_id"`

	Notes *string  `gorm:"type:text" json:"notes"`
	Tags  []string `gorm:"type:jsonb;serializer:json" json:"tags"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Plot  *Plot  `gorm:"foreignKey:PlotID" json:"plot,omitempty"`
	Agent *Agent `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

// TableName specifies the table name for Reminder
func (Reminder) TableName() string {
	return "reminders"
}

// Reminder status constants
const (
	ReminderStatusPending   = "pending"
	ReminderStatusReminded  = "reminded"
	ReminderStatusCompleted = "completed"
	ReminderStatusOverdue   = "overdue"
	ReminderStatusCancelled = "cancelled"
	ReminderStatusFailed    = "failed"
)

// Transaction type constants
const (
	TransactionTypeAdvanceIn          = "advance_in"
	TransactionTypeAdvanceOut         = "advance_out"
	TransactionTypePlotSale           = "plot_sale"
	TransactionTypeAgentCommission    = "agent_commission"
	TransactionTypePaymentDue         = "payment_due"
	TransactionTypeDocumentCollection = "document_collection"
	TransactionTypeFollowUp           = "follow_up"
)

// Reminder type constants
const (
	ReminderTypePayment    = "payment"
	ReminderTypeDocument   = "document"
	ReminderTypeVisit      = "visit"
	ReminderTypeFollowUp   = "follow_up"
	ReminderTypeAdvanceIn  = "advance_in"
	ReminderTypeAdvanceOut = "advance_out"
)

// Notification channel names as stored in ReminderMethod
const (
	MethodWhatsApp = "WhatsApp"
	MethodSMS      = "SMS"
	MethodEmail    = "Email"
	MethodAll      = "All"
)

// ReminderLeadTime is how far before the due date an auto reminder
// first becomes eligible to send.
const ReminderLeadTime = 48 * time.Hour

// DefaultCurrency is applied when a reminder carries no currency code.
const DefaultCurrency = "INR"

// NotificationResult records one delivery attempt on one channel.
type NotificationResult struct {
	Method    string    `json:"method"`
	Success   bool      `json:"success"`
	MessageID string    `json:"message_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	SentAt    time.Time `json:"sent_at"`
	Simulated bool      `json:"simulated"`
}

// NotificationResults is the ordered attempt log for a reminder.
type NotificationResults []NotificationResult

// AnySuccess reports whether at least one channel accepted the message.
func (rs NotificationResults) AnySuccess() bool {
	for _, r := range rs {
		if r.Success {
			return true
		}
	}
	return false
}

// GenerateTransactionID builds a unique transaction identifier.
func GenerateTransactionID(now time.Time) string {
	return "TXN" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}

// DeriveReminderDate computes the default reminder date from a due date.
func DeriveReminderDate(dueDate time.Time) time.Time {
	return dueDate.Add(-ReminderLeadTime)
}

// ShouldSendReminder reports whether the reminder is eligible for the
// automatic dispatch path at the given instant.
func (r *Reminder) ShouldSendReminder(now time.Time) bool {
	return r.AutoReminder &&
		!r.ReminderSent &&
		r.Status == ReminderStatusPending &&
		!now.Before(r.ReminderDate) &&
		now.Before(r.DueDate)
}

// IsOverdue reports whether the reminder should be classified overdue.
func (r *Reminder) IsOverdue(now time.Time) bool {
	return (r.Status == ReminderStatusPending || r.Status == ReminderStatusReminded) &&
		!now.Before(r.DueDate)
}

// OverdueDays returns the number of whole days past the due date.
func (r *Reminder) OverdueDays(now time.Time) int {
	if !r.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(r.DueDate).Hours() / 24)
}

// Methods returns the configured channel set in dispatch preference order:
// WhatsApp before SMS before Email.
func (r *Reminder) Methods() []string {
	raw := r.ReminderMethod
	if raw == "" {
		return nil
	}

	selected := make(map[string]bool)
	for _, m := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(m)) {
		case "whatsapp":
			selected[MethodWhatsApp] = true
		case "sms":
			selected[MethodSMS] = true
		case "email":
			selected[MethodEmail] = true
		case "all":
			selected[MethodWhatsApp] = true
			selected[MethodSMS] = true
			selected[MethodEmail] = true
		}
	}

	var methods []string
	for _, m := range []string{MethodWhatsApp, MethodSMS, MethodEmail} {
		if selected[m] {
			methods = append(methods, m)
		}
	}
	return methods
}

// ReminderResponse is the JSON response format for reminders
type ReminderResponse struct {
	ID                  uint                `json:"id"`
	TransactionID       string              `json:"transaction_id"`
	TransactionType     string              `json:"transaction_type"`
	Category            string              `json:"category"`
	CategoryLabel       string              `json:"category_label"`
	Type                string              `json:"type"`
	Title               string              `json:"title"`
	Description         *string             `json:"description"`
	CustomerName        string              `json:"customer_name"`
	CustomerPhone       string              `json:"customer_phone"`
	CustomerEmail       *string             `json:"customer_email"`
	Amount              float64             `json:"amount"`
	Currency            string              `json:"currency"`
	DueDate             time.Time           `json:"due_date"`
	ReminderDate        time.Time           `json:"reminder_date"`
	ReminderTime        string              `json:"reminder_time"`
	Status              string              `json:"status"`
	StatusLabel         string              `json:"status_label"`
	AutoReminder        bool                `json:"auto_reminder"`
	ReminderSent        bool                `json:"reminder_sent"`
	ReminderSentDate    *time.Time          `json:"reminder_sent_date"`
	ReminderMethod      string              `json:"reminder_method"`
	NotificationResults NotificationResults `json:"notification_results"`
	OverdueDays         int                 `json:"overdue_days"`
	PlotNumber          *string             `json:"plot_number,omitempty"`
	AgentName           string              `json:"agent_name,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
}

// ToResponse converts Reminder to ReminderResponse
func (r *Reminder) ToResponse() ReminderResponse {
	resp := ReminderResponse{
		ID:                  r.ID,
		TransactionID:       r.TransactionID,
		TransactionType:     r.TransactionType,
		Category:            r.Category,
		CategoryLabel:       CategoryLabel(r.Category),
		Type:                r.Type,
		Title:               r.Title,
		Description:         r.Description,
		CustomerName:        r.CustomerName,
		CustomerPhone:       r.CustomerPhone,
		CustomerEmail:       r.CustomerEmail,
		Amount:              r.Amount,
		Currency:            r.Currency,
		DueDate:             r.DueDate,
		ReminderDate:        r.ReminderDate,
		ReminderTime:        r.ReminderTime,
		Status:              r.Status,
		StatusLabel:         StatusLabel(r.Status),
		AutoReminder:        r.AutoReminder,
		ReminderSent:        r.ReminderSent,
		ReminderSentDate:    r.ReminderSentDate,
		ReminderMethod:      r.ReminderMethod,
		NotificationResults: r.NotificationResults,
		OverdueDays:         r.OverdueDays(time.Now()),
		PlotNumber:          r.PlotNumber,
		CreatedAt:           r.CreatedAt,
	}

	if r.Agent != nil && r.Agent.ID != 0 {
		resp.AgentName = r.Agent.Name
	}

	return resp
}
