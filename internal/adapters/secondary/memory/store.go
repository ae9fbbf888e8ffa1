package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"model-registry/internal/core/domain"
)

// Store keeps registry state in process memory. It backs tests and local
// development runs where no database is configured; state is lost on
// restart. Behavior mirrors the postgres store, including name uniqueness
// and cascading version deletes.
type Store struct {
	mu       sync.Mutex
	models   map[uuid.UUID]*domain.Model
	byName   map[string]uuid.UUID
	versions map[uuid.UUID]*domain.ModelVersion
}

func NewStore() *Store {
	return &Store{
		models:   make(map[uuid.UUID]*domain.Model),
		byName:   make(map[string]uuid.UUID),
		versions: make(map[uuid.UUID]*domain.ModelVersion),
	}
}

func (s *Store) SaveModel(ctx context.Context, model *domain.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ownerID, ok := s.byName[model.Name]; ok && ownerID != model.ID {
		return domain.ErrModelNameExists
	}
	if prev, ok := s.models[model.ID]; ok && prev.Name != model.Name {
		delete(s.byName, prev.Name)
	}

	s.models[model.ID] = model.Clone()
	s.byName[model.Name] = model.ID
	return nil
}

func (s *Store) SaveVersion(ctx context.Context, version *domain.ModelVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.models[version.ModelID]; !ok {
		return domain.ErrModelNotFound
	}

	s.versions[version.ID] = version.Clone()
	return nil
}

func (s *Store) LoadModel(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	model, ok := s.models[id]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	return model.Clone(), nil
}

func (s *Store) LoadVersion(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, ok := s.versions[id]
	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	return version.Clone(), nil
}

func (s *Store) DeleteModel(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	model, ok := s.models[id]
	if !ok {
		return domain.ErrModelNotFound
	}

	delete(s.models, id)
	delete(s.byName, model.Name)
	for versionID, version := range s.versions {
		if version.ModelID == id {
			delete(s.versions, versionID)
		}
	}
	return nil
}

func (s *Store) LoadAll(ctx context.Context) ([]*domain.Model, []*domain.ModelVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	models := make([]*domain.Model, 0, len(s.models))
	for _, m := range s.models {
		models = append(models, m.Clone())
	}
	versions := make([]*domain.ModelVersion, 0, len(s.versions))
	for _, v := range s.versions {
		versions = append(versions, v.Clone())
	}
	return models, versions, nil
}
