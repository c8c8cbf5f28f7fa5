package ports

import (
	"context"

	"ewaste-collection-service/internal/domain"
)

// Contract for fire-and-forget notification delivery.
// Callers treat failures as best-effort: per-recipient errors are logged and
// swallowed, never propagated into the triggering workflow.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
