package ports

import (
	"context"

	"model-registry/internal/core/domain"
)

// EventPublisher hands lifecycle events to out-of-band consumers
// (deployment and monitoring tooling). Publishing is best effort; the
// registry never fails an operation because a publish failed.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
