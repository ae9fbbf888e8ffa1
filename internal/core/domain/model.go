package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/util/validation"
)

// DefaultNameMaxLength bounds model names when no limit is configured.
const DefaultNameMaxLength = 100

// Supported model types, aligned with what downstream serving runtimes accept.
var SupportedModelTypes = map[string]bool{
	"sklearn":     true,
	"xgboost":     true,
	"tensorflow":  true,
	"pytorch":     true,
	"onnx":        true,
	"lightgbm":    true,
	"huggingface": true,
}

// ValidateModelType checks the optional model type label. Empty is allowed.
func ValidateModelType(modelType string) error {
	if modelType == "" {
		return nil
	}
	if !SupportedModelTypes[strings.ToLower(modelType)] {
		return ErrUnsupportedModelType
	}
	return nil
}

// Model is a named top-level entity owning a sequence of versions.
type Model struct {
	ID               uuid.UUID  `json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	ModelType        string     `json:"model_type"`
	CurrentVersionID *uuid.UUID `json:"current_version_id"`
}

// NewModel creates a new Model with validation. Names must be DNS-1123
// subdomains so they stay usable as resource names by serving tooling.
func NewModel(name, description, modelType string, nameMax int, now time.Time) (*Model, error) {
	if nameMax <= 0 {
		nameMax = DefaultNameMaxLength
	}
	if name == "" {
		return nil, ErrInvalidModelName
	}
	if len(name) > nameMax {
		return nil, ErrModelNameTooLong
	}
	if msgs := validation.IsDNS1123Subdomain(name); len(msgs) > 0 {
		return nil, ErrMalformedModelName
	}
	if err := ValidateModelType(modelType); err != nil {
		return nil, err
	}

	return &Model{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		Description: description,
		ModelType:   modelType,
	}, nil
}

// SetCurrentVersion points the model at its active version.
func (m *Model) SetCurrentVersion(versionID uuid.UUID, now time.Time) {
	m.CurrentVersionID = &versionID
	m.UpdatedAt = now
}

// ClearCurrentVersion drops the active version reference.
func (m *Model) ClearCurrentVersion(now time.Time) {
	m.CurrentVersionID = nil
	m.UpdatedAt = now
}

// HasCurrentVersion returns true if some version is active.
func (m *Model) HasCurrentVersion() bool {
	return m.CurrentVersionID != nil
}

// Equal reports identity by ID, not by field content.
func (m *Model) Equal(other *Model) bool {
	return other != nil && m.ID == other.ID
}

// Clone returns a copy safe to hand outside the registry.
func (m *Model) Clone() *Model {
	c := *m
	if m.CurrentVersionID != nil {
		id := *m.CurrentVersionID
		c.CurrentVersionID = &id
	}
	return &c
}
