package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/middleware"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// HistoryLister lists the tickets sold by an agent
type HistoryLister interface {
	ListHistory(ctx context.Context, agentID uuid.UUID, q *models.HistoryFilterQuery) (*models.HistoryResponse, error)
}

// HistoryHandler handles HTTP requests for an agent's sales history
type HistoryHandler struct {
	service HistoryLister
	logger  *logrus.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service HistoryLister, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger,
	}
}

// ListHistory handles GET /api/v1/agent/history
// Query: startDate, endDate (YYYY-MM-DD), origin, destination, paymentStatus (all|paid|pending), limit, offset
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
			"code":    "MISSING_USER_CONTEXT",
		})
		return
	}

	var query models.HistoryFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Warn("Invalid history query")
		badRequest(c, models.CodeInvalidRequest, "Invalid query parameters")
		return
	}

	response, err := h.service.ListHistory(c.Request.Context(), userCtx.UserID, &query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
