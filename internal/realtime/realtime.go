// Package realtime publishes generation lifecycle events so clients can
// follow a manual's progress without polling.
package realtime

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// Publisher pushes manual lifecycle events to interested clients.
type Publisher struct {
	client *supabase.Client
}

func NewPublisher(supabaseURL, apiKey string) (*Publisher, error) {
	client, err := supabase.NewClient(supabaseURL, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Publisher{client: client}, nil
}

// publish is currently a status-row hook: the manuals table update itself
// triggers the realtime change feed, so there is nothing extra to send. The
// event is logged for observability.
func (p *Publisher) publish(channel, event string, payload map[string]interface{}) error {
	slog.Debug("realtime event", "channel", channel, "event", event, "payload", payload)
	return nil
}

func (p *Publisher) GenerationStarted(manualID uuid.UUID) error {
	return p.publish(channelFor(manualID), "generation_started", map[string]interface{}{
		"manual_id": manualID.String(),
		"status":    "processing",
	})
}

func (p *Publisher) GenerationCompleted(manualID uuid.UUID) error {
	return p.publish(channelFor(manualID), "generation_completed", map[string]interface{}{
		"manual_id": manualID.String(),
		"status":    "completed",
	})
}

func (p *Publisher) GenerationFailed(manualID uuid.UUID, errorType string) error {
	return p.publish(channelFor(manualID), "generation_failed", map[string]interface{}{
		"manual_id":  manualID.String(),
		"status":     "failed",
		"error_type": errorType,
	})
}

func channelFor(manualID uuid.UUID) string {
	return fmt.Sprintf("manual:%s", manualID.String())
}
