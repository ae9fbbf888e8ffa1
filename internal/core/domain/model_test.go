package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewModel(t *testing.T) {
	m, err := NewModel("fraud-detector", "scores transactions", "sklearn", 0, testNow)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, "fraud-detector", m.Name)
	assert.Equal(t, "scores transactions", m.Description)
	assert.Equal(t, "sklearn", m.ModelType)
	assert.Nil(t, m.CurrentVersionID)
	assert.Equal(t, testNow, m.CreatedAt)
	assert.Equal(t, testNow, m.UpdatedAt)
}

func TestNewModel_EmptyName(t *testing.T) {
	_, err := NewModel("", "", "", 0, testNow)
	assert.ErrorIs(t, err, ErrInvalidModelName)
}

func TestNewModel_NameTooLong(t *testing.T) {
	_, err := NewModel(strings.Repeat("a", 11), "", "", 10, testNow)
	assert.ErrorIs(t, err, ErrModelNameTooLong)
}

func TestNewModel_MalformedName(t *testing.T) {
	for _, name := range []string{"My Model", "UPPERCASE", "-leading-dash", "trailing-", "under_score"} {
		_, err := NewModel(name, "", "", 0, testNow)
		assert.ErrorIs(t, err, ErrMalformedModelName, "name %q should be rejected", name)
	}
}

func TestNewModel_UnsupportedModelType(t *testing.T) {
	_, err := NewModel("m1", "", "cobol", 0, testNow)
	assert.ErrorIs(t, err, ErrUnsupportedModelType)
}

func TestNewModel_ModelTypeCaseInsensitive(t *testing.T) {
	m, err := NewModel("m1", "", "PyTorch", 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, "PyTorch", m.ModelType)
}

func TestModel_SetAndClearCurrentVersion(t *testing.T) {
	m, err := NewModel("m1", "", "", 0, testNow)
	require.NoError(t, err)

	versionID := uuid.New()
	later := testNow.Add(time.Minute)

	m.SetCurrentVersion(versionID, later)
	require.NotNil(t, m.CurrentVersionID)
	assert.Equal(t, versionID, *m.CurrentVersionID)
	assert.True(t, m.HasCurrentVersion())
	assert.Equal(t, later, m.UpdatedAt)

	m.ClearCurrentVersion(later.Add(time.Minute))
	assert.Nil(t, m.CurrentVersionID)
	assert.False(t, m.HasCurrentVersion())
}

func TestModel_Equal(t *testing.T) {
	a, err := NewModel("m1", "", "", 0, testNow)
	require.NoError(t, err)

	b := a.Clone()
	b.Name = "renamed"
	assert.True(t, a.Equal(b))

	c, err := NewModel("m1", "", "", 0, testNow)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestModel_Clone(t *testing.T) {
	m, err := NewModel("m1", "", "", 0, testNow)
	require.NoError(t, err)
	m.SetCurrentVersion(uuid.New(), testNow)

	clone := m.Clone()
	other := uuid.New()
	clone.CurrentVersionID = &other

	assert.NotEqual(t, *m.CurrentVersionID, *clone.CurrentVersionID)
}

func TestValidateModelType(t *testing.T) {
	assert.NoError(t, ValidateModelType(""))
	assert.NoError(t, ValidateModelType("tensorflow"))
	assert.NoError(t, ValidateModelType("ONNX"))
	assert.ErrorIs(t, ValidateModelType("fortran"), ErrUnsupportedModelType)
}
