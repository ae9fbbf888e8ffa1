package services

import (
	"context"
	"errors"
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

func TestRegistry_CreateModel(t *testing.T) {
	reg, _ := newTestRegistry(t)

	model, err := reg.CreateModel(context.Background(), "churn-scorer", "weekly churn model", "sklearn")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, model.ID)
	assert.Equal(t, "churn-scorer", model.Name)
	assert.Equal(t, "weekly churn model", model.Description)
	assert.Equal(t, "sklearn", model.ModelType)
	assert.Equal(t, testNow, model.CreatedAt)
	assert.Nil(t, model.CurrentVersionID)

	loaded, err := reg.GetModel(context.Background(), model.ID)
	require.NoError(t, err)
	assert.True(t, model.Equal(loaded))
}

func TestRegistry_CreateModel_EmptyName(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.CreateModel(context.Background(), "", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidModelName)
}

func TestRegistry_CreateModel_NameTooLong(t *testing.T) {
	clk := testclock.NewClock(testNow)
	reg := NewRegistry(memory.NewStore(), Options{Clock: clk, NameMaxLength: 10})

	_, err := reg.CreateModel(context.Background(), "abcdefghijk", "", "")
	assert.ErrorIs(t, err, domain.ErrModelNameTooLong)
}

func TestRegistry_CreateModel_DuplicateName(t *testing.T) {
	reg, _ := newTestRegistry(t)
	mustCreateModel(t, reg, "churn-scorer")

	_, err := reg.CreateModel(context.Background(), "churn-scorer", "", "")
	assert.ErrorIs(t, err, domain.ErrModelNameExists)
}

func TestRegistry_CreateModel_NameFreedAfterDelete(t *testing.T) {
	reg, _ := newTestRegistry(t)
	model := mustCreateModel(t, reg, "churn-scorer")

	require.NoError(t, reg.DeleteModel(context.Background(), model.ID))

	again, err := reg.CreateModel(context.Background(), "churn-scorer", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, model.ID, again.ID)
}

func TestRegistry_CreateModel_StoreFailure_NoMutation(t *testing.T) {
	store := new(testutil.MockStore)
	store.On("SaveModel", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(errors.New("disk full"))

	reg := NewRegistry(store, Options{})

	_, err := reg.CreateModel(context.Background(), "churn-scorer", "", "")
	require.Error(t, err)
	assert.Empty(t, reg.ListModels(context.Background()))
	store.AssertExpectations(t)
}

func TestRegistry_GetModel_NotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.GetModel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestRegistry_ListModels_NewestFirst(t *testing.T) {
	reg, clk := newTestRegistry(t)

	mustCreateModel(t, reg, "first")
	clk.Advance(time.Minute)
	mustCreateModel(t, reg, "second")
	clk.Advance(time.Minute)
	mustCreateModel(t, reg, "third")

	models := reg.ListModels(context.Background())
	require.Len(t, models, 3)
	assert.Equal(t, "third", models[0].Name)
	assert.Equal(t, "second", models[1].Name)
	assert.Equal(t, "first", models[2].Name)
}

func TestRegistry_ListModels_Empty(t *testing.T) {
	reg, _ := newTestRegistry(t)

	models := reg.ListModels(context.Background())
	assert.Empty(t, models)
}

func TestRegistry_DeleteModel(t *testing.T) {
	reg, _ := newTestRegistry(t)
	model := mustCreateModel(t, reg, "churn-scorer")
	version := mustCreateVersion(t, reg, model.ID)

	require.NoError(t, reg.DeleteModel(context.Background(), model.ID))

	_, err := reg.GetModel(context.Background(), model.ID)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
	_, err = reg.GetVersion(context.Background(), version.ID)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestRegistry_DeleteModel_NotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	err := reg.DeleteModel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestRegistry_DeleteModel_ActiveVersionConflict(t *testing.T) {
	reg, _ := newTestRegistry(t)
	model := mustCreateModel(t, reg, "churn-scorer")
	version := mustCreateVersion(t, reg, model.ID)
	_, err := reg.ActivateVersion(context.Background(), version.ID)
	require.NoError(t, err)

	err = reg.DeleteModel(context.Background(), model.ID)
	assert.ErrorIs(t, err, domain.ErrModelHasActiveVersion)

	// The model survives a refused delete.
	_, err = reg.GetModel(context.Background(), model.ID)
	assert.NoError(t, err)
}

func TestRegistry_DeleteModel_AfterRetire(t *testing.T) {
	reg, _ := newTestRegistry(t)
	model := mustCreateModel(t, reg, "churn-scorer")
	version := mustCreateVersion(t, reg, model.ID)
	_, err := reg.ActivateVersion(context.Background(), version.ID)
	require.NoError(t, err)
	_, err = reg.RetireVersion(context.Background(), version.ID)
	require.NoError(t, err)

	assert.NoError(t, reg.DeleteModel(context.Background(), model.ID))
}

func TestRegistry_DeleteModel_PurgesArtifacts(t *testing.T) {
	artifacts := new(testutil.MockArtifactStore)
	reg := NewRegistry(memory.NewStore(), Options{Artifacts: artifacts})
	model := mustCreateModel(t, reg, "churn-scorer")

	artifacts.On("PurgeModel", mock.Anything, model.ID).Return(nil)

	require.NoError(t, reg.DeleteModel(context.Background(), model.ID))
	artifacts.AssertExpectations(t)
}
