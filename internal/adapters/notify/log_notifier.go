package notify

import (
	"context"
	"log"
	"sync"

	"ewaste-collection-service/internal/domain"
)

// LogNotifier writes notifications to the process log. Used when Redis is
// not configured; delivery is a log line and nothing more.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	log.Printf("notification: recipient=%s type=%s title=%q", n.RecipientID, n.Type, n.Title)
	return nil
}

// MemoryNotifier captures notifications for assertions in tests.
type MemoryNotifier struct {
	mu   sync.Mutex
	Sent []domain.Notification

	// FailFor simulates per-recipient delivery failure.
	FailFor map[string]error
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{FailFor: make(map[string]error)}
}

func (m *MemoryNotifier) Notify(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailFor[n.RecipientID]; ok {
		return err
	}
	m.Sent = append(m.Sent, n)
	return nil
}

// SentTo lists captured notifications for one recipient.
func (m *MemoryNotifier) SentTo(recipientID string) []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Notification, 0, len(m.Sent))
	for _, n := range m.Sent {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}
