package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Reminder ReminderRepository
	Payment  PaymentRepository
	Alert    AlertRepository
}

// NewRepositories creates gorm-backed repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Reminder: NewReminderRepository(db),
		Payment:  NewPaymentRepository(db),
		Alert:    NewAlertRepository(db),
	}
}

// NewInMemoryRepositories creates repositories backed by process memory.
// Used when no database is reachable at startup; records do not survive a
// restart.
func NewInMemoryRepositories() *Repositories {
	return &Repositories{
		Reminder: NewMemoryReminderRepository(),
		Payment:  NewMemoryPaymentRepository(),
		Alert:    NewMemoryAlertRepository(),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.PerPage
}
