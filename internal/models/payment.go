package models

import (
	"fmt"
	"strings"
	"time"
)

// Payment records money moving against a plot. Recording an advance with a
// due date is the business event that produces a payment-due Reminder.
type Payment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PlotID        *uint      `gorm:"index" json:"plot_id"`
	PlotNumber    string     `gorm:"not null" json:"plot_number"`
	PaymentType   string     `gorm:"not null;index" json:"payment_type"`
	Amount        float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date          time.Time  `gorm:"not null" json:"date"`
	DueDate       *time.Time `gorm:"index" json:"due_date"`
	PaymentMode   string     `gorm:"default:cash" json:"payment_mode"`
	Status        string     `gorm:"default:pending;not null;index" json:"status"`
	Description   *string    `gorm:"type:text" json:"description"`
	CustomerName  string     `gorm:"not null" json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	ReceiptNumber string     `gorm:"uniqueIndex" json:"receipt_number"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Plot *Plot `gorm:"foreignKey:PlotID" json:"plot,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment type constants
const (
	PaymentTypeAdvanceIn    = "advance_in"
	PaymentTypeAdvanceOut   = "advance_out"
	PaymentTypeInstallment  = "installment"
	PaymentTypeFinal        = "final"
	PaymentTypeToken        = "token"
	PaymentTypeRegistration = "registration"
	PaymentTypeCommission   = "commission"
	PaymentTypeOther        = "other"
)

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusReceived  = "received"
	PaymentStatusPartial   = "partial"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

// Payment mode constants
const (
	PaymentModeCash         = "cash"
	PaymentModeCheque       = "cheque"
	PaymentModeBankTransfer = "bank_transfer"
	PaymentModeUPI          = "upi"
	PaymentModeCard         = "card"
	PaymentModeOther        = "other"
)

// GenerateReceiptNumber builds a receipt number from the payment type and
// the record timestamp.
func GenerateReceiptNumber(paymentType string, now time.Time) string {
	initial := "P"
	if paymentType != "" {
		initial = strings.ToUpper(paymentType[:1])
	}
	ts := fmt.Sprintf("%d", now.UnixMilli())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	return fmt.Sprintf("RCP-%s%s", initial, ts)
}

// SpawnsReminder reports whether recording this payment should produce an
// automatic payment-due reminder.
func (p *Payment) SpawnsReminder() bool {
	return (p.PaymentType == PaymentTypeAdvanceIn || p.PaymentType == PaymentTypeAdvanceOut) &&
		p.DueDate != nil &&
		p.Status != PaymentStatusReceived
}
