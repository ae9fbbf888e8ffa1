package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VersionState is the lifecycle state of a ModelVersion.
//
// DRAFT --activate--> ACTIVE --retire--> RETIRED
// DRAFT --retire--> RETIRED
// No transition leaves RETIRED.
type VersionState string

const (
	VersionStateDraft   VersionState = "DRAFT"
	VersionStateActive  VersionState = "ACTIVE"
	VersionStateRetired VersionState = "RETIRED"
)

// IsValid checks if the state is valid
func (s VersionState) IsValid() bool {
	return s == VersionStateDraft || s == VersionStateActive || s == VersionStateRetired
}

// PayloadValidator vets an opaque version payload. A nil error accepts it.
type PayloadValidator func(payload json.RawMessage) error

// DefaultPayloadValidator accepts empty payloads and anything that parses as JSON.
func DefaultPayloadValidator(payload json.RawMessage) error {
	if len(payload) == 0 {
		return nil
	}
	if !json.Valid(payload) {
		return ErrInvalidPayload
	}
	return nil
}

// ModelVersion is a versioned, stateful artifact belonging to exactly one Model.
type ModelVersion struct {
	ID            uuid.UUID       `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	ModelID       uuid.UUID       `json:"model_id"`
	VersionNumber int             `json:"version_number"`
	State         VersionState    `json:"state"`
	Payload       json.RawMessage `json:"payload"`
}

// NewModelVersion creates a new ModelVersion in DRAFT with validation.
// Version numbers are assigned by the registry, never by callers.
func NewModelVersion(modelID uuid.UUID, number int, payload json.RawMessage, validate PayloadValidator, now time.Time) (*ModelVersion, error) {
	if modelID == uuid.Nil {
		return nil, ErrInvalidModelID
	}
	if number < 1 {
		return nil, ErrInvalidVersionNumber
	}
	if validate == nil {
		validate = DefaultPayloadValidator
	}
	if err := validate(payload); err != nil {
		if !errors.Is(err, ErrInvalidPayload) {
			err = fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return nil, err
	}

	return &ModelVersion{
		ID:            uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		ModelID:       modelID,
		VersionNumber: number,
		State:         VersionStateDraft,
		Payload:       payload,
	}, nil
}

// Activate moves the version to ACTIVE. Retired versions stay retired.
func (v *ModelVersion) Activate(now time.Time) error {
	if v.State == VersionStateRetired {
		return ErrVersionRetired
	}
	v.State = VersionStateActive
	v.UpdatedAt = now
	return nil
}

// Retire moves the version to its terminal RETIRED state.
func (v *ModelVersion) Retire(now time.Time) error {
	if v.State == VersionStateRetired {
		return ErrVersionRetired
	}
	v.State = VersionStateRetired
	v.UpdatedAt = now
	return nil
}

// IsActive returns true if this is the model's live version.
func (v *ModelVersion) IsActive() bool {
	return v.State == VersionStateActive
}

// Equal reports identity by ID, not by field content.
func (v *ModelVersion) Equal(other *ModelVersion) bool {
	return other != nil && v.ID == other.ID
}

// Clone returns a copy safe to hand outside the registry.
func (v *ModelVersion) Clone() *ModelVersion {
	c := *v
	if v.Payload != nil {
		c.Payload = append(json.RawMessage(nil), v.Payload...)
	}
	return &c
}
