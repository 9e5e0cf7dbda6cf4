package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// Background workers
	WorkerCount int

	// Reminder scheduler
	ReminderScanInterval time.Duration
	ChannelSendTimeout   time.Duration

	// CORS
	AllowedOrigins []string

	// WhatsApp / SMS (Twilio)
	WhatsAppEnabled      bool
	SMSEnabled           bool
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioSMSNumber      string
	TwilioWhatsAppNumber string

	// Email (Resend)
	EmailEnabled bool
	ResendAPIKey string
	FromEmail    string

	// Country code prefixed to bare 10-digit phone numbers
	DefaultCountryCode string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		WorkerCount:          getEnvAsInt("WORKER_COUNT", 5),
		ReminderScanInterval: getEnvAsDuration("REMINDER_SCAN_INTERVAL", 24*time.Hour),
		ChannelSendTimeout:   getEnvAsDuration("CHANNEL_SEND_TIMEOUT", 10*time.Second),
		AllowedOrigins:       getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		WhatsAppEnabled:      getEnvAsBool("WHATSAPP_ENABLED", false),
		SMSEnabled:           getEnvAsBool("SMS_ENABLED", false),
		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioSMSNumber:      getEnv("TWILIO_PHONE_NUMBER", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		EmailEnabled:         getEnvAsBool("EMAIL_ENABLED", false),
		ResendAPIKey:         getEnv("RESEND_API_KEY", ""),
		FromEmail:            getEnv("FROM_EMAIL", "reminders@skproperty.in"),
		DefaultCountryCode:   getEnv("DEFAULT_COUNTRY_CODE", "91"),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
	}

	if cfg.ReminderScanInterval <= 0 {
		return nil, fmt.Errorf("REMINDER_SCAN_INTERVAL must be positive")
	}
	if cfg.ChannelSendTimeout <= 0 {
		return nil, fmt.Errorf("CHANNEL_SEND_TIMEOUT must be positive")
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool reads an environment variable as boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads an environment variable as a Go duration string
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
