package handlers

import (
	"net/http"

	"model-registry/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListVersions(c *gin.Context) {
	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	versions, err := h.registry.ListVersions(c.Request.Context(), modelID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToModelVersionResponse(v))
	}

	c.JSON(http.StatusOK, dto.ListVersionsResponse{
		Items: items,
		Total: len(items),
	})
}

func (h *Handler) CreateVersion(c *gin.Context) {
	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	var req dto.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.registry.CreateVersion(c.Request.Context(), modelID, req.Payload)
	if err != nil {
		log.WithError(err).Error("create version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelVersionResponse(version))
}

func (h *Handler) GetVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	version, err := h.registry.GetVersion(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) ActivateVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	version, err := h.registry.ActivateVersion(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("activate version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) RetireVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	version, err := h.registry.RetireVersion(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("retire version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}
