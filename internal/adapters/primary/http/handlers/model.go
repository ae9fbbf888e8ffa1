package handlers

import (
	"net/http"

	"model-registry/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListModels(c *gin.Context) {
	models := h.registry.ListModels(c.Request.Context())

	items := make([]dto.ModelResponse, 0, len(models))
	for _, m := range models {
		items = append(items, dto.ToModelResponse(m))
	}

	c.JSON(http.StatusOK, dto.ListModelsResponse{
		Items: items,
		Total: len(items),
	})
}

func (h *Handler) GetModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	model, err := h.registry.GetModel(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelResponse(model))
}

func (h *Handler) CreateModel(c *gin.Context) {
	var req dto.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, err := h.registry.CreateModel(c.Request.Context(), req.Name, req.Description, req.ModelType)
	if err != nil {
		log.WithError(err).Error("create model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelResponse(model))
}

func (h *Handler) DeleteModel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	if err := h.registry.DeleteModel(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("delete model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
