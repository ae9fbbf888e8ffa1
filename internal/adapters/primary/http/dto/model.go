package dto

import (
	"time"

	"github.com/google/uuid"

	"model-registry/internal/core/domain"
)

type CreateModelRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ModelType   string `json:"model_type"`
}

type ModelResponse struct {
	ID               uuid.UUID  `json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	ModelType        string     `json:"model_type,omitempty"`
	CurrentVersionID *uuid.UUID `json:"current_version_id"`
}

type ListModelsResponse struct {
	Items []ModelResponse `json:"items"`
	Total int             `json:"total"`
}

func ToModelResponse(model *domain.Model) ModelResponse {
	return ModelResponse{
		ID:               model.ID,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
		Name:             model.Name,
		Description:      model.Description,
		ModelType:        model.ModelType,
		CurrentVersionID: model.CurrentVersionID,
	}
}
