package ports

import (
	"context"

	"github.com/google/uuid"
)

// ArtifactStore manages the object-storage prefix backing each model.
type ArtifactStore interface {
	EnsureBucket(ctx context.Context) error
	PurgeModel(ctx context.Context, modelID uuid.UUID) error
}
