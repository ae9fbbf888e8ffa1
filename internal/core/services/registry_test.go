package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"model-registry/internal/adapters/secondary/memory"
	"model-registry/internal/core/domain"
	"model-registry/internal/testutil"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRegistry(t *testing.T) (*Registry, *testclock.Clock) {
	t.Helper()
	clk := testclock.NewClock(testNow)
	return NewRegistry(memory.NewStore(), Options{Clock: clk}), clk
}

func mustCreateModel(t *testing.T, reg *Registry, name string) *domain.Model {
	t.Helper()
	model, err := reg.CreateModel(context.Background(), name, "", "sklearn")
	require.NoError(t, err)
	return model
}

func mustCreateVersion(t *testing.T, reg *Registry, modelID uuid.UUID) *domain.ModelVersion {
	t.Helper()
	version, err := reg.CreateVersion(context.Background(), modelID, []byte(`{"artifact_uri":"s3://bucket/model"}`))
	require.NoError(t, err)
	return version
}

func publishedTypes(pub *testutil.MockEventPublisher) []domain.EventType {
	types := make([]domain.EventType, 0, len(pub.Calls))
	for _, call := range pub.Calls {
		types = append(types, call.Arguments.Get(1).(domain.Event).Type)
	}
	return types
}

func TestRegistry_WarmStart(t *testing.T) {
	store := memory.NewStore()
	clk := testclock.NewClock(testNow)

	seed := NewRegistry(store, Options{Clock: clk})
	model := mustCreateModel(t, seed, "churn-scorer")
	mustCreateVersion(t, seed, model.ID)
	v2 := mustCreateVersion(t, seed, model.ID)
	mustCreateVersion(t, seed, model.ID)
	_, err := seed.ActivateVersion(context.Background(), v2.ID)
	require.NoError(t, err)

	reg := NewRegistry(store, Options{Clock: clk})
	require.NoError(t, reg.WarmStart(context.Background()))

	loaded, err := reg.GetModel(context.Background(), model.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CurrentVersionID)
	assert.Equal(t, v2.ID, *loaded.CurrentVersionID)

	versions, err := reg.ListVersions(context.Background(), model.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	for i, v := range versions {
		assert.Equal(t, i+1, v.VersionNumber)
	}
	assert.Equal(t, domain.VersionStateActive, versions[1].State)

	// Numbering continues where the store left off.
	v4 := mustCreateVersion(t, reg, model.ID)
	assert.Equal(t, 4, v4.VersionNumber)
}

func TestRegistry_WarmStart_StoreFailure(t *testing.T) {
	store := new(testutil.MockStore)
	store.On("LoadAll", mock.Anything).Return(nil, nil, errors.New("connection refused"))

	reg := NewRegistry(store, Options{})
	err := reg.WarmStart(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load registry state")
}

func TestRegistry_WarmStart_SkipsOrphanVersion(t *testing.T) {
	model, err := domain.NewModel("churn-scorer", "", "", domain.DefaultNameMaxLength, testNow)
	require.NoError(t, err)
	owned, err := domain.NewModelVersion(model.ID, 1, nil, nil, testNow)
	require.NoError(t, err)
	orphan, err := domain.NewModelVersion(uuid.New(), 1, nil, nil, testNow)
	require.NoError(t, err)

	store := new(testutil.MockStore)
	store.On("LoadAll", mock.Anything).Return(
		[]*domain.Model{model},
		[]*domain.ModelVersion{owned, orphan},
		nil,
	)

	reg := NewRegistry(store, Options{})
	require.NoError(t, reg.WarmStart(context.Background()))

	_, err = reg.GetVersion(context.Background(), owned.ID)
	assert.NoError(t, err)
	_, err = reg.GetVersion(context.Background(), orphan.ID)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestRegistry_WarmStart_ClearsDanglingCurrentVersion(t *testing.T) {
	model, err := domain.NewModel("churn-scorer", "", "", domain.DefaultNameMaxLength, testNow)
	require.NoError(t, err)
	model.SetCurrentVersion(uuid.New(), testNow)

	store := new(testutil.MockStore)
	store.On("LoadAll", mock.Anything).Return(
		[]*domain.Model{model},
		[]*domain.ModelVersion{},
		nil,
	)

	reg := NewRegistry(store, Options{})
	require.NoError(t, reg.WarmStart(context.Background()))

	loaded, err := reg.GetModel(context.Background(), model.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.CurrentVersionID)
}

func TestRegistry_ConcurrentVersionCreates(t *testing.T) {
	reg, _ := newTestRegistry(t)
	model := mustCreateModel(t, reg, "churn-scorer")

	const workers = 20
	var wg sync.WaitGroup
	numbers := make([]int, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			version, err := reg.CreateVersion(context.Background(), model.ID, nil)
			if err != nil {
				errs[i] = err
				return
			}
			numbers[i] = version.VersionNumber
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	sort.Ints(numbers)
	for i, n := range numbers {
		assert.Equal(t, i+1, n, "version numbers must be consecutive with no gaps")
	}

	versions, err := reg.ListVersions(context.Background(), model.ID)
	require.NoError(t, err)
	require.Len(t, versions, workers)
	for i, v := range versions {
		assert.Equal(t, i+1, v.VersionNumber)
	}
}

func TestRegistry_ConcurrentActivations(t *testing.T) {
	reg, _ := newTestRegistry(t)
	model := mustCreateModel(t, reg, "churn-scorer")

	const workers = 5
	versions := make([]*domain.ModelVersion, workers)
	for i := range versions {
		versions[i] = mustCreateVersion(t, reg, model.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i, v := range versions {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, err := reg.ActivateVersion(context.Background(), id)
			errs[i] = err
		}(i, v.ID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	loaded, err := reg.GetModel(context.Background(), model.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CurrentVersionID)

	listed, err := reg.ListVersions(context.Background(), model.ID)
	require.NoError(t, err)
	active := 0
	for _, v := range listed {
		switch v.State {
		case domain.VersionStateActive:
			active++
			assert.Equal(t, v.ID, *loaded.CurrentVersionID)
		case domain.VersionStateRetired:
		default:
			t.Fatalf("unexpected state %s for version %d", v.State, v.VersionNumber)
		}
	}
	assert.Equal(t, 1, active, "exactly one version may be active")
}

func TestRegistry_ConcurrentCreateModel_SameName(t *testing.T) {
	reg, _ := newTestRegistry(t)

	const workers = 10
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := reg.CreateModel(context.Background(), "racy-model", "", "")
			results[i] = err
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range results {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, domain.ErrModelNameExists)
		}
	}
	assert.Equal(t, 1, created, "exactly one create may win the name")
	assert.Len(t, reg.ListModels(context.Background()), 1)
}

func TestRegistry_ClockDeterminism(t *testing.T) {
	reg, clk := newTestRegistry(t)

	model := mustCreateModel(t, reg, "churn-scorer")
	assert.Equal(t, testNow, model.CreatedAt)

	clk.Advance(time.Hour)
	version := mustCreateVersion(t, reg, model.ID)
	assert.Equal(t, testNow.Add(time.Hour), version.CreatedAt)

	clk.Advance(30 * time.Minute)
	activated, err := reg.ActivateVersion(context.Background(), version.ID)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(time.Hour), activated.CreatedAt)
	assert.Equal(t, testNow.Add(90*time.Minute), activated.UpdatedAt)
}

func TestRegistry_EventsPublished(t *testing.T) {
	events := new(testutil.MockEventPublisher)
	events.On("Publish", mock.Anything, mock.AnythingOfType("domain.Event")).Return(nil)

	clk := testclock.NewClock(testNow)
	reg := NewRegistry(memory.NewStore(), Options{Clock: clk, Events: events})

	model := mustCreateModel(t, reg, "churn-scorer")
	version := mustCreateVersion(t, reg, model.ID)
	_, err := reg.ActivateVersion(context.Background(), version.ID)
	require.NoError(t, err)
	_, err = reg.RetireVersion(context.Background(), version.ID)
	require.NoError(t, err)
	require.NoError(t, reg.DeleteModel(context.Background(), model.ID))

	assert.Equal(t, []domain.EventType{
		domain.EventModelCreated,
		domain.EventVersionCreated,
		domain.EventVersionActivated,
		domain.EventVersionRetired,
		domain.EventModelDeleted,
	}, publishedTypes(events))
}

func TestRegistry_EventPublishFailure_DoesNotFailOperation(t *testing.T) {
	events := new(testutil.MockEventPublisher)
	events.On("Publish", mock.Anything, mock.AnythingOfType("domain.Event")).Return(errors.New("stream down"))

	reg := NewRegistry(memory.NewStore(), Options{Events: events})

	model, err := reg.CreateModel(context.Background(), "churn-scorer", "", "")
	require.NoError(t, err)

	_, err = reg.GetModel(context.Background(), model.ID)
	assert.NoError(t, err)
}

func TestRegistry_ArtifactPurgeFailure_DoesNotFailDelete(t *testing.T) {
	artifacts := new(testutil.MockArtifactStore)
	artifacts.On("PurgeModel", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(errors.New("access denied"))

	reg := NewRegistry(memory.NewStore(), Options{Artifacts: artifacts})
	model := mustCreateModel(t, reg, "churn-scorer")

	require.NoError(t, reg.DeleteModel(context.Background(), model.ID))
	artifacts.AssertExpectations(t)

	_, err := reg.GetModel(context.Background(), model.ID)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}
