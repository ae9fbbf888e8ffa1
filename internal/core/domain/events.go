package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a registry lifecycle event.
type EventType string

const (
	EventModelCreated     EventType = "model.created"
	EventModelDeleted     EventType = "model.deleted"
	EventVersionCreated   EventType = "version.created"
	EventVersionActivated EventType = "version.activated"
	EventVersionRetired   EventType = "version.retired"
)

// Event is an out-of-band notification about a registry state change.
// Deployment and monitoring tooling consume these; the registry holds no
// contract with the consumers.
type Event struct {
	ID         uuid.UUID  `json:"id"`
	Type       EventType  `json:"type"`
	OccurredAt time.Time  `json:"occurred_at"`
	ModelID    uuid.UUID  `json:"model_id"`
	VersionID  *uuid.UUID `json:"version_id,omitempty"`
}

// NewEvent builds an event stamped at now.
func NewEvent(eventType EventType, modelID uuid.UUID, versionID *uuid.UUID, now time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: now,
		ModelID:    modelID,
		VersionID:  versionID,
	}
}
