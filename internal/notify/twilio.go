package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/skproperty/brokerage-api/internal/config"
	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/pkg/logger"
)

// SMSChannel delivers reminders as SMS through Twilio.
type SMSChannel struct {
	enabled     bool
	from        string
	countryCode string
	timeout     time.Duration
	client      *twilio.RestClient
}

// NewSMSChannel creates the SMS channel from configuration. Without
// credentials the channel runs in simulated mode.
func NewSMSChannel(cfg *config.Config) *SMSChannel {
	return &SMSChannel{
		enabled:     cfg.SMSEnabled,
		from:        cfg.TwilioSMSNumber,
		countryCode: cfg.DefaultCountryCode,
		timeout:     cfg.ChannelSendTimeout,
		client:      newTwilioClient(cfg),
	}
}

// Name returns the channel name as stored in ReminderMethod
func (c *SMSChannel) Name() string {
	return models.MethodSMS
}

// Configured reports whether live credentials are present
func (c *SMSChannel) Configured() bool {
	return c.client != nil && c.from != ""
}

// Status describes the channel without exposing credentials
func (c *SMSChannel) Status() ChannelStatus {
	return ChannelStatus{Enabled: c.enabled, Configured: c.Configured(), Sender: c.from}
}

func (c *SMSChannel) Send(ctx context.Context, destination, message string) models.NotificationResult {
	to := "+" + NormalizePhone(destination, c.countryCode)

	if !c.enabled || !c.Configured() {
		logger.Info("SMS disabled, simulating send", "to", to)
		return simulatedResult(models.MethodSMS)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(message)

	sid, err := createMessageWithTimeout(ctx, c.client, params, c.timeout)
	if err != nil {
		logger.Error("SMS send failed", "to", to, "error", err)
		return failedResult(models.MethodSMS, err)
	}

	logger.Info("SMS sent", "to", to, "sid", sid)
	return sentResult(models.MethodSMS, sid)
}

// WhatsAppChannel delivers reminders as WhatsApp messages through Twilio.
type WhatsAppChannel struct {
	enabled     bool
	from        string
	countryCode string
	timeout     time.Duration
	client      *twilio.RestClient
}

// NewWhatsAppChannel creates the WhatsApp channel from configuration.
// Without credentials the channel runs in simulated mode.
func NewWhatsAppChannel(cfg *config.Config) *WhatsAppChannel {
	return &WhatsAppChannel{
		enabled:     cfg.WhatsAppEnabled,
		from:        cfg.TwilioWhatsAppNumber,
		countryCode: cfg.DefaultCountryCode,
		timeout:     cfg.ChannelSendTimeout,
		client:      newTwilioClient(cfg),
	}
}

// Name returns the channel name as stored in ReminderMethod
func (c *WhatsAppChannel) Name() string {
	return models.MethodWhatsApp
}

// Configured reports whether live credentials are present
func (c *WhatsAppChannel) Configured() bool {
	return c.client != nil && c.from != ""
}

// Status describes the channel without exposing credentials
func (c *WhatsAppChannel) Status() ChannelStatus {
	return ChannelStatus{Enabled: c.enabled, Configured: c.Configured(), Sender: c.from}
}

func (c *WhatsAppChannel) Send(ctx context.Context, destination, message string) models.NotificationResult {
	to := "whatsapp:+" + NormalizePhone(destination, c.countryCode)

	if !c.enabled || !c.Configured() {
		logger.Info("WhatsApp disabled, simulating send", "to", to)
		return simulatedResult(models.MethodWhatsApp)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom("whatsapp:" + c.from)
	params.SetBody(message)

	sid, err := createMessageWithTimeout(ctx, c.client, params, c.timeout)
	if err != nil {
		logger.Error("WhatsApp send failed", "to", to, "error", err)
		return failedResult(models.MethodWhatsApp, err)
	}

	logger.Info("WhatsApp message sent", "to", to, "sid", sid)
	return sentResult(models.MethodWhatsApp, sid)
}

func newTwilioClient(cfg *config.Config) *twilio.RestClient {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		return nil
	}
	return twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
}

// createMessageWithTimeout runs the Twilio call in its own goroutine so a
// hung network call cannot stall a whole scan. The abandoned goroutine
// finishes in the background when the deadline wins.
func createMessageWithTimeout(ctx context.Context, client *twilio.RestClient, params *twilioApi.CreateMessageParams, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		sid string
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		resp, err := client.Api.CreateMessage(params)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		var sid string
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		done <- outcome{sid: sid}
	}()

	select {
	case o := <-done:
		return o.sid, o.err
	case <-ctx.Done():
		return "", fmt.Errorf("send timed out after %s", timeout)
	}
}

func simulatedResult(method string) models.NotificationResult {
	return models.NotificationResult{
		Method:    method,
		Success:   true,
		MessageID: "sim-" + uuid.NewString(),
		SentAt:    time.Now(),
		Simulated: true,
	}
}

func sentResult(method, messageID string) models.NotificationResult {
	return models.NotificationResult{
		Method:    method,
		Success:   true,
		MessageID: messageID,
		SentAt:    time.Now(),
	}
}

func failedResult(method string, err error) models.NotificationResult {
	return models.NotificationResult{
		Method:  method,
		Success: false,
		Error:   err.Error(),
		SentAt:  time.Now(),
	}
}
