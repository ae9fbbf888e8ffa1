package handlers

import (
	"errors"
	"net/http"

	"model-registry/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrVersionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrModelNameExists),
		errors.Is(err, domain.ErrModelHasActiveVersion),
		errors.Is(err, domain.ErrVersionRetired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidModelName),
		errors.Is(err, domain.ErrModelNameTooLong),
		errors.Is(err, domain.ErrMalformedModelName),
		errors.Is(err, domain.ErrUnsupportedModelType),
		errors.Is(err, domain.ErrInvalidModelID),
		errors.Is(err, domain.ErrInvalidVersionNumber),
		errors.Is(err, domain.ErrInvalidPayload),
		errors.Is(err, domain.ErrPayloadTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
