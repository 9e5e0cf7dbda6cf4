package notify

import (
	"context"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/skproperty/brokerage-api/internal/config"
	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/pkg/logger"
)

// EmailChannel delivers reminders by email through Resend. The dispatcher
// passes the customer's email address as the destination.
type EmailChannel struct {
	enabled bool
	from    string
	apiKey  string
	client  *resend.Client
}

// NewEmailChannel creates the email channel from configuration. Without
// an API key the channel runs in simulated mode.
func NewEmailChannel(cfg *config.Config) *EmailChannel {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &EmailChannel{
		enabled: cfg.EmailEnabled,
		from:    cfg.FromEmail,
		apiKey:  cfg.ResendAPIKey,
		client:  client,
	}
}

// Name returns the channel name as stored in ReminderMethod
func (c *EmailChannel) Name() string {
	return models.MethodEmail
}

// Configured reports whether live credentials are present
func (c *EmailChannel) Configured() bool {
	return c.client != nil && c.from != ""
}

// Status describes the channel without exposing credentials
func (c *EmailChannel) Status() ChannelStatus {
	return ChannelStatus{Enabled: c.enabled, Configured: c.Configured(), Sender: c.from}
}

func (c *EmailChannel) Send(ctx context.Context, destination, message string) models.NotificationResult {
	if !c.enabled || !c.Configured() {
		logger.Info("Email disabled, simulating send", "to", destination)
		return simulatedResult(models.MethodEmail)
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{destination},
		Subject: "Payment Reminder - SK Property",
		Text:    message,
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		logger.Error("Email send failed", "to", destination, "error", err)
		return failedResult(models.MethodEmail, err)
	}

	logger.Info("Email sent", "to", destination, "id", sent.Id)
	return sentResult(models.MethodEmail, sent.Id)
}

// ValidEmail is a light sanity check before handing the address to the API
func ValidEmail(address string) bool {
	at := strings.Index(address, "@")
	return at > 0 && at < len(address)-1
}
