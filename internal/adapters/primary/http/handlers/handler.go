package handlers

import (
	"github.com/gin-gonic/gin"

	"model-registry/internal/core/services"
)

type Handler struct {
	registry *services.Registry
}

func New(registry *services.Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Models
	r.GET("/models", h.ListModels)
	r.POST("/models", h.CreateModel)
	r.GET("/models/:id", h.GetModel)
	r.DELETE("/models/:id", h.DeleteModel)

	// Model versions (nested under model)
	r.GET("/models/:id/versions", h.ListVersions)
	r.POST("/models/:id/versions", h.CreateVersion)

	// Model versions (direct access)
	r.GET("/versions/:id", h.GetVersion)
	r.POST("/versions/:id/activate", h.ActivateVersion)
	r.POST("/versions/:id/retire", h.RetireVersion)
}
