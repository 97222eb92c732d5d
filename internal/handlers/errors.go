package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// respondError maps a service error onto an HTTP status and the standard error body
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		conflictErr   *models.ConflictError
		dependencyErr *models.DependencyError
	)

	entry := logger.WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"method": c.Request.Method,
	}).WithError(err)

	switch {
	case errors.As(err, &validationErr):
		entry.Warn("Request rejected")
		body := gin.H{
			"error":   "validation_error",
			"message": validationErr.Message,
			"code":    validationErr.Code,
		}
		if validationErr.Field != "" {
			body["field"] = validationErr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &notFoundErr):
		entry.Info("Resource not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": notFoundErr.Error(),
			"code":    notFoundErr.Code,
		})
	case errors.As(err, &conflictErr):
		entry.Warn("Request conflicts with current state")
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": conflictErr.Message,
			"code":    conflictErr.Code,
		})
	case errors.As(err, &dependencyErr):
		entry.Error("Dependency failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "service_unavailable",
			"message": "Service temporarily unavailable. Please try again.",
			"code":    dependencyErr.Code,
		})
	default:
		entry.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
			"code":    "INTERNAL_ERROR",
		})
	}
}

// badRequest writes a 400 for malformed input that never reached a service
func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
		"code":    code,
	})
}

// parseUUIDParam reads a path parameter as a UUID, writing a 400 when it is malformed
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, models.CodeInvalidRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
