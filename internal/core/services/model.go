package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"model-registry/internal/core/domain"
)

// CreateModel registers a new model with no versions. The name must be
// unique across the registry; the store is the authority on uniqueness so
// that two concurrent creates with the same name cannot both succeed.
func (r *Registry) CreateModel(ctx context.Context, name, description, modelType string) (*domain.Model, error) {
	model, err := domain.NewModel(name, description, modelType, r.nameMax, r.clock.Now())
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	_, taken := r.byName[model.Name]
	r.mu.RUnlock()
	if taken {
		return nil, domain.ErrModelNameExists
	}

	if err := r.store.SaveModel(ctx, model); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.models[model.ID] = model
	r.byName[model.Name] = model.ID
	r.mu.Unlock()

	r.publish(ctx, domain.NewEvent(domain.EventModelCreated, model.ID, nil, model.CreatedAt))

	return model.Clone(), nil
}

// GetModel returns a snapshot of the model.
func (r *Registry) GetModel(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, ok := r.models[id]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	return model.Clone(), nil
}

// ListModels returns snapshots of every model, newest first.
func (r *Registry) ListModels(ctx context.Context) []*domain.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DeleteModel removes a model and all of its versions. The delete is
// refused while any version is ACTIVE; retire the current version first.
func (r *Registry) DeleteModel(ctx context.Context, id uuid.UUID) error {
	r.locks.Lock(id)
	defer r.locks.Unlock(id)

	r.mu.RLock()
	model, ok := r.models[id]
	var name string
	var active bool
	var versionIDs []uuid.UUID
	if ok {
		name = model.Name
		versionIDs = append([]uuid.UUID(nil), r.byModel[id]...)
		for _, vid := range versionIDs {
			if r.versions[vid].IsActive() {
				active = true
				break
			}
		}
	}
	r.mu.RUnlock()

	if !ok {
		return domain.ErrModelNotFound
	}
	if active {
		return domain.ErrModelHasActiveVersion
	}

	if err := r.store.DeleteModel(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.models, id)
	delete(r.byName, name)
	for _, vid := range versionIDs {
		delete(r.versions, vid)
	}
	delete(r.byModel, id)
	r.mu.Unlock()

	r.purgeArtifacts(ctx, id)
	r.publish(ctx, domain.NewEvent(domain.EventModelDeleted, id, nil, r.clock.Now()))

	return nil
}
