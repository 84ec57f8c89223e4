package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StatusNotification carries the context a dispatch channel needs to tell a
// client or stakeholder about a pipeline move.
type StatusNotification struct {
	ProjectID  uuid.UUID
	ClientName string
	FromStatus string
	ToStatus   string
	ChangedBy  string
	Notes      string
	OccurredAt time.Time
}

// Notifier delivers status-change notifications. Dispatch is best-effort
// from the engine's perspective: failures are logged by the caller and never
// roll back the transition that triggered them. Retry policy, if any,
// belongs to the implementation.
type Notifier interface {
	Notify(ctx context.Context, notification StatusNotification) error
}
