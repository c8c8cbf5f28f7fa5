package domain

import "time"

// Notification is a best-effort, fire-and-forget message to one recipient.
// The core emits these after lifecycle transitions and never blocks on
// delivery.
type Notification struct {
	RecipientID string
	Title       string
	Message     string
	Type        string
	RelatedData map[string]string
	CreatedAt   time.Time
}
