package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

// handleBindError отвечает на ошибку привязки запроса.
// Ошибки валидатора дают 422 с полями, остальное (битый JSON, форма) - 400.
func handleBindError(c *gin.Context, err error) {
	if fields, ok := apperrors.FromValidator(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  apperrors.ErrValidation.Error(),
			"fields": fields,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// handleError переводит ошибки сервисов в HTTP-ответ
func handleError(c *gin.Context, log *logger.Logger, err error) {
	var fields apperrors.FieldErrors
	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": apperrors.ErrValidation.Error(), "fields": fields})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrExpiredToken), errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvariant):
		log.Error("Invariant violation", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	default:
		log.Error("Unhandled error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
	_ = c.Error(err)
}
