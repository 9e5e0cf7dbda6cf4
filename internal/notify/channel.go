package notify

import (
	"context"

	"github.com/skproperty/brokerage-api/internal/models"
)

// Channel delivers a text message to one destination over one transport.
// Implementations never return Go errors or panic across this boundary:
// delivery failures are data in the result, and a channel without live
// credentials reports a simulated success so the surrounding workflow is
// still exercised.
type Channel interface {
	Name() string
	Send(ctx context.Context, destination, message string) models.NotificationResult
}

// ChannelStatus describes one channel's configuration without exposing
// credentials.
type ChannelStatus struct {
	Enabled    bool   `json:"enabled"`
	Configured bool   `json:"configured"`
	Sender     string `json:"sender,omitempty"`
}
