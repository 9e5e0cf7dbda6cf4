package models

// Reminder category machine tags. The ledgers kept by the brokerage mix
// Marathi and English labels, so the stored value is a stable tag and the
// display string comes from the lookup tables below.
const (
	CategoryAdvanceReceived = "advance_received"
	CategoryAdvanceGiven    = "advance_given"
	CategoryPlotDeal        = "plot_deal"
	CategoryCommission      = "commission"
	CategoryDocument        = "document"
	CategoryFollowUp        = "follow_up"
	CategoryPayment         = "payment"
	CategoryOther           = "other"
)

var categoryLabels = map[string]string{
	CategoryAdvanceReceived: "इसारत घेतलेले",
	CategoryAdvanceGiven:    "इसारत दिलेले",
	CategoryPlotDeal:        "Plot Deal",
	CategoryCommission:      "Commission",
	CategoryDocument:        "Document",
	CategoryFollowUp:        "Follow Up",
	CategoryPayment:         "Payment",
	CategoryOther:           "Other",
}

var statusLabels = map[string]string{
	ReminderStatusPending:   "Pending",
	ReminderStatusReminded:  "Reminded",
	ReminderStatusCompleted: "Completed",
	ReminderStatusOverdue:   "Overdue",
	ReminderStatusCancelled: "Cancelled",
	ReminderStatusFailed:    "Failed",
}

// CategoryLabel returns the display label for a category tag.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}

// StatusLabel returns the display label for a status tag.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// ValidCategory reports whether the tag is a known category.
func ValidCategory(category string) bool {
	_, ok := categoryLabels[category]
	return ok
}
