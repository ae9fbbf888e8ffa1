package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"model-registry/internal/core/domain"
)

type CreateVersionRequest struct {
	Payload json.RawMessage `json:"payload"`
}

type ModelVersionResponse struct {
	ID            uuid.UUID       `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	ModelID       uuid.UUID       `json:"model_id"`
	VersionNumber int             `json:"version_number"`
	State         string          `json:"state"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

type ListVersionsResponse struct {
	Items []ModelVersionResponse `json:"items"`
	Total int                    `json:"total"`
}

func ToModelVersionResponse(version *domain.ModelVersion) ModelVersionResponse {
	return ModelVersionResponse{
		ID:            version.ID,
		CreatedAt:     version.CreatedAt,
		UpdatedAt:     version.UpdatedAt,
		ModelID:       version.ModelID,
		VersionNumber: version.VersionNumber,
		State:         string(version.State),
		Payload:       version.Payload,
	}
}
