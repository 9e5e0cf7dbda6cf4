package notify

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/skproperty/brokerage-api/internal/models"
)

// BuildReminderMessage renders the customer-facing reminder text used by
// every channel.
func BuildReminderMessage(reminder *models.Reminder) string {
	var b strings.Builder

	b.WriteString("🏠 *SK PROPERTY REMINDER*\n\n")
	b.WriteString(fmt.Sprintf("Dear %s,\n\n", reminder.CustomerName))
	b.WriteString(fmt.Sprintf("📅 Payment Due: %s\n", reminder.DueDate.Format("02/01/2006")))

	if reminder.PlotNumber != nil && *reminder.PlotNumber != "" {
		b.WriteString(fmt.Sprintf("🏗️ Plot: %s\n", *reminder.PlotNumber))
	}
	if reminder.Amount > 0 {
		b.WriteString(fmt.Sprintf("💰 Amount: ₹%s\n", FormatAmount(reminder.Amount)))
	}
	if reminder.Description != nil && *reminder.Description != "" {
		b.WriteString(fmt.Sprintf("\n⚠️ *%s*\n", *reminder.Description))
	}

	b.WriteString("\nPlease make the payment on time to avoid any inconvenience.\n\n")
	b.WriteString("📞 For queries, contact us.\n")
	b.WriteString("\n*SK PROPERTY*")

	return b.String()
}

// FormatAmount renders an amount with Indian digit grouping: the last
// three digits form one group, the rest pair off (12,34,567).
func FormatAmount(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	// Round to paise first so a fraction that rounds up carries into
	// the whole part (999.999 -> 1,000, not 999 plus a stray digit).
	paise := int64(math.Round(amount * 100))
	whole := paise / 100
	frac := paise % 100

	digits := strconv.FormatInt(whole, 10)
	var groups []string
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		groups = append(groups, digits[len(digits)-3:])
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
	} else {
		groups = []string{digits}
	}

	formatted := strings.Join(groups, ",")
	if frac > 0 {
		formatted += fmt.Sprintf(".%02d", frac)
	}
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}
