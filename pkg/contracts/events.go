package contracts

import "time"

// Event is the envelope published on the notification topic for downstream
// consumers. Payload carries the notification fields as loose JSON.
type Event struct {
	EventID   string         `json:"event_id"`
	CreatedAt time.Time      `json:"created_at"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
}

const (
	EventNotificationSent = "notification.sent"
)
