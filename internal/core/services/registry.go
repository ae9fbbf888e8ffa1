package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/im7mortal/kmutex"
	"github.com/juju/clock"
	log "github.com/sirupsen/logrus"

	"model-registry/internal/core/domain"
	"model-registry/internal/core/ports/output"
)

// DefaultPayloadMaxBytes bounds version payloads when no limit is configured.
const DefaultPayloadMaxBytes = 1 << 20

// Options configures optional registry collaborators and limits.
type Options struct {
	Clock            clock.Clock
	PayloadValidator domain.PayloadValidator
	NameMaxLength    int
	PayloadMaxBytes  int
	Artifacts        ports.ArtifactStore
	Events           ports.EventPublisher
}

// Registry owns the authoritative collection of models and versions and
// mediates every lifecycle transition. State lives in memory and is written
// through to the Store; mutations for one model serialize on a per-model
// lock so that at most one version is ACTIVE at any instant, even while a
// transition is in flight. Reads return snapshot copies and never block
// writers of other models.
type Registry struct {
	store      ports.Store
	artifacts  ports.ArtifactStore
	events     ports.EventPublisher
	clock      clock.Clock
	validate   domain.PayloadValidator
	nameMax    int
	payloadMax int

	locks *kmutex.Kmutex

	mu       sync.RWMutex
	models   map[uuid.UUID]*domain.Model
	byName   map[string]uuid.UUID
	versions map[uuid.UUID]*domain.ModelVersion
	byModel  map[uuid.UUID][]uuid.UUID // version IDs ordered by version number
}

// NewRegistry creates an empty registry on top of the given store.
func NewRegistry(store ports.Store, opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.PayloadValidator == nil {
		opts.PayloadValidator = domain.DefaultPayloadValidator
	}
	if opts.NameMaxLength <= 0 {
		opts.NameMaxLength = domain.DefaultNameMaxLength
	}
	if opts.PayloadMaxBytes <= 0 {
		opts.PayloadMaxBytes = DefaultPayloadMaxBytes
	}

	return &Registry{
		store:      store,
		artifacts:  opts.Artifacts,
		events:     opts.Events,
		clock:      opts.Clock,
		validate:   opts.PayloadValidator,
		nameMax:    opts.NameMaxLength,
		payloadMax: opts.PayloadMaxBytes,
		locks:      kmutex.New(),
		models:     make(map[uuid.UUID]*domain.Model),
		byName:     make(map[string]uuid.UUID),
		versions:   make(map[uuid.UUID]*domain.ModelVersion),
		byModel:    make(map[uuid.UUID][]uuid.UUID),
	}
}

// WarmStart rebuilds the in-memory state from the store. Call once at boot
// before serving traffic.
func (r *Registry) WarmStart(ctx context.Context) error {
	models, versions, err := r.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load registry state: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.models = make(map[uuid.UUID]*domain.Model, len(models))
	r.byName = make(map[string]uuid.UUID, len(models))
	r.versions = make(map[uuid.UUID]*domain.ModelVersion, len(versions))
	r.byModel = make(map[uuid.UUID][]uuid.UUID)

	for _, m := range models {
		r.models[m.ID] = m.Clone()
		r.byName[m.Name] = m.ID
	}
	for _, v := range versions {
		if _, ok := r.models[v.ModelID]; !ok {
			log.WithField("version_id", v.ID).Warn("skipping version without a model")
			continue
		}
		r.versions[v.ID] = v.Clone()
		r.byModel[v.ModelID] = append(r.byModel[v.ModelID], v.ID)
	}
	for modelID, ids := range r.byModel {
		sort.Slice(ids, func(i, j int) bool {
			return r.versions[ids[i]].VersionNumber < r.versions[ids[j]].VersionNumber
		})
		r.byModel[modelID] = ids
	}
	for _, m := range r.models {
		if m.CurrentVersionID == nil {
			continue
		}
		if _, ok := r.versions[*m.CurrentVersionID]; !ok {
			log.WithFields(log.Fields{
				"model_id":   m.ID,
				"version_id": *m.CurrentVersionID,
			}).Warn("clearing current version reference to a missing version")
			m.CurrentVersionID = nil
		}
	}

	log.WithFields(log.Fields{
		"models":   len(r.models),
		"versions": len(r.versions),
	}).Info("registry state loaded")

	return nil
}

// publish hands an event to the publisher, if one is configured.
// Failures are logged and never fail the operation that emitted the event.
func (r *Registry) publish(ctx context.Context, event domain.Event) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(ctx, event); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"event_type": event.Type,
			"model_id":   event.ModelID,
		}).Warn("event publish failed")
	}
}

// purgeArtifacts removes the model's object-storage prefix, if an artifact
// store is configured. Best effort: a failed purge leaves garbage behind but
// never fails the delete.
func (r *Registry) purgeArtifacts(ctx context.Context, modelID uuid.UUID) {
	if r.artifacts == nil {
		return
	}
	if err := r.artifacts.PurgeModel(ctx, modelID); err != nil {
		log.WithError(err).WithField("model_id", modelID).Warn("artifact purge failed")
	}
}
