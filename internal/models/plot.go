package models

import "time"

// Plot is a sellable parcel. Reminders hold a weak reference to the plot
// they concern; the full plot inventory lives in the main back office.
type Plot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlotNumber string    `gorm:"uniqueIndex;not null" json:"plot_number"`
	Area       float64   `gorm:"type:decimal(10,2)" json:"area"`
	Location   *string   `json:"location"`
	Status     string    `gorm:"default:available" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Plot
func (Plot) TableName() string {
	return "plots"
}
