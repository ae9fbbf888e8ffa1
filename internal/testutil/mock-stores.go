package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"model-registry/internal/core/domain"
)

// MockStore is a mock of Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveModel(ctx context.Context, model *domain.Model) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockStore) SaveVersion(ctx context.Context, version *domain.ModelVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockStore) LoadModel(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockStore) LoadVersion(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Error(1)
}

func (m *MockStore) DeleteModel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) LoadAll(ctx context.Context) ([]*domain.Model, []*domain.ModelVersion, error) {
	args := m.Called(ctx)
	var models []*domain.Model
	var versions []*domain.ModelVersion
	if args.Get(0) != nil {
		models = args.Get(0).([]*domain.Model)
	}
	if args.Get(1) != nil {
		versions = args.Get(1).([]*domain.ModelVersion)
	}
	return models, versions, args.Error(2)
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockArtifactStore) PurgeModel(ctx context.Context, modelID uuid.UUID) error {
	args := m.Called(ctx, modelID)
	return args.Error(0)
}

// MockEventPublisher is a mock of EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
