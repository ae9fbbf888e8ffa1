package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"model-registry/internal/core/domain"
)

// CreateVersion appends a new DRAFT version to the model. Version numbers
// are assigned here, under the model lock, so concurrent creates against
// the same model always receive distinct consecutive numbers.
func (r *Registry) CreateVersion(ctx context.Context, modelID uuid.UUID, payload json.RawMessage) (*domain.ModelVersion, error) {
	if r.payloadMax > 0 && len(payload) > r.payloadMax {
		return nil, domain.ErrPayloadTooLarge
	}

	r.locks.Lock(modelID)
	defer r.locks.Unlock(modelID)

	r.mu.RLock()
	_, ok := r.models[modelID]
	next := 1
	if ids := r.byModel[modelID]; len(ids) > 0 {
		next = r.versions[ids[len(ids)-1]].VersionNumber + 1
	}
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrModelNotFound
	}

	version, err := domain.NewModelVersion(modelID, next, payload, r.validate, r.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := r.store.SaveVersion(ctx, version); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.versions[version.ID] = version
	r.byModel[modelID] = append(r.byModel[modelID], version.ID)
	r.mu.Unlock()

	vid := version.ID
	r.publish(ctx, domain.NewEvent(domain.EventVersionCreated, modelID, &vid, version.CreatedAt))

	return version.Clone(), nil
}

// GetVersion returns a snapshot of the version.
func (r *Registry) GetVersion(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	version, ok := r.versions[id]
	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	return version.Clone(), nil
}

// ListVersions returns snapshots of the model's versions ordered by
// version number.
func (r *Registry) ListVersions(ctx context.Context, modelID uuid.UUID) ([]*domain.ModelVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.models[modelID]; !ok {
		return nil, domain.ErrModelNotFound
	}
	ids := r.byModel[modelID]
	out := make([]*domain.ModelVersion, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.versions[id].Clone())
	}
	return out, nil
}

// ActivateVersion promotes a version to ACTIVE and points the model's
// current version at it. A previously active version is retired in the
// same transition, so the model never has two ACTIVE versions. Activating
// the version that is already current is a no-op.
func (r *Registry) ActivateVersion(ctx context.Context, versionID uuid.UUID) (*domain.ModelVersion, error) {
	modelID, err := r.versionModel(versionID)
	if err != nil {
		return nil, err
	}

	r.locks.Lock(modelID)
	defer r.locks.Unlock(modelID)

	// Re-read now that the model is locked; the version may have been
	// retired or deleted while we waited.
	r.mu.RLock()
	current, ok := r.versions[versionID]
	var version, previous *domain.ModelVersion
	var model *domain.Model
	if ok {
		version = current.Clone()
		model = r.models[current.ModelID].Clone()
		if model.CurrentVersionID != nil && *model.CurrentVersionID != versionID {
			previous = r.versions[*model.CurrentVersionID].Clone()
		}
	}
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	if version.IsActive() {
		return version, nil
	}

	now := r.clock.Now()
	if err := version.Activate(now); err != nil {
		return nil, err
	}
	if previous != nil {
		if err := previous.Retire(now); err != nil {
			return nil, err
		}
	}
	model.SetCurrentVersion(version.ID, now)

	if previous != nil {
		if err := r.store.SaveVersion(ctx, previous); err != nil {
			return nil, err
		}
	}
	if err := r.store.SaveVersion(ctx, version); err != nil {
		return nil, err
	}
	if err := r.store.SaveModel(ctx, model); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.versions[version.ID] = version
	if previous != nil {
		r.versions[previous.ID] = previous
	}
	r.models[model.ID] = model
	r.mu.Unlock()

	vid := version.ID
	r.publish(ctx, domain.NewEvent(domain.EventVersionActivated, model.ID, &vid, now))
	if previous != nil {
		pid := previous.ID
		r.publish(ctx, domain.NewEvent(domain.EventVersionRetired, model.ID, &pid, now))
	}

	return version.Clone(), nil
}

// RetireVersion moves a version to RETIRED. Retiring the model's current
// version clears the model's current pointer; retiring a version twice
// fails.
func (r *Registry) RetireVersion(ctx context.Context, versionID uuid.UUID) (*domain.ModelVersion, error) {
	modelID, err := r.versionModel(versionID)
	if err != nil {
		return nil, err
	}

	r.locks.Lock(modelID)
	defer r.locks.Unlock(modelID)

	r.mu.RLock()
	current, ok := r.versions[versionID]
	var version *domain.ModelVersion
	var model *domain.Model
	if ok {
		version = current.Clone()
		model = r.models[current.ModelID].Clone()
	}
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrVersionNotFound
	}

	wasCurrent := model.HasCurrentVersion() && *model.CurrentVersionID == version.ID

	now := r.clock.Now()
	if err := version.Retire(now); err != nil {
		return nil, err
	}

	if err := r.store.SaveVersion(ctx, version); err != nil {
		return nil, err
	}
	if wasCurrent {
		model.ClearCurrentVersion(now)
		if err := r.store.SaveModel(ctx, model); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.versions[version.ID] = version
	if wasCurrent {
		r.models[model.ID] = model
	}
	r.mu.Unlock()

	vid := version.ID
	r.publish(ctx, domain.NewEvent(domain.EventVersionRetired, model.ID, &vid, now))

	return version.Clone(), nil
}

// versionModel resolves the model a version belongs to.
func (r *Registry) versionModel(versionID uuid.UUID) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	version, ok := r.versions[versionID]
	if !ok {
		return uuid.Nil, domain.ErrVersionNotFound
	}
	return version.ModelID, nil
}
