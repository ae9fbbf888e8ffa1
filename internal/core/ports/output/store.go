package ports

import (
	"context"

	"github.com/google/uuid"

	"model-registry/internal/core/domain"
)

// Store is the persistence collaborator behind the registry. The registry
// owns the authoritative in-memory state and writes through synchronously,
// so implementations only provide durable save/load, not transactions.
type Store interface {
	SaveModel(ctx context.Context, model *domain.Model) error
	SaveVersion(ctx context.Context, version *domain.ModelVersion) error
	LoadModel(ctx context.Context, id uuid.UUID) (*domain.Model, error)
	LoadVersion(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error)
	DeleteModel(ctx context.Context, id uuid.UUID) error
	LoadAll(ctx context.Context) ([]*domain.Model, []*domain.ModelVersion, error)
}
