package domain

import "time"

// Notification is one accepted send request. EventID deduplicates repeated
// deliveries of the same request and keys the outbound event.
type Notification struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"eventId"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
