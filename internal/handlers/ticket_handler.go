package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/middleware"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
	"github.com/smarttransit/agent-ticketing-backend/internal/utils"
)

// TicketIssuer sells seats and loads printable tickets
type TicketIssuer interface {
	Issue(ctx context.Context, agentID uuid.UUID, req *models.IssueTicketRequest) (*models.IssueTicketResult, error)
	GetTicket(ctx context.Context, ticketID uuid.UUID) (*models.TicketDetail, error)
}

// TicketHandler handles HTTP requests for ticket sales
type TicketHandler struct {
	service TicketIssuer
	logger  *logrus.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(service TicketIssuer, logger *logrus.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		logger:  logger,
	}
}

// IssueTicket handles POST /api/v1/tickets.
// The selling agent is the authenticated user.
func (h *TicketHandler) IssueTicket(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
			"code":    "MISSING_USER_CONTEXT",
		})
		return
	}

	var req models.IssueTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid ticket request body")
		badRequest(c, models.CodeInvalidRequest, "Invalid request body")
		return
	}

	result, err := h.service.Issue(c.Request.Context(), userCtx.UserID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	device := utils.ParseUserAgent(utils.GetUserAgent(c))
	h.logger.WithFields(logrus.Fields{
		"agent_id":      userCtx.UserID,
		"ticket_number": result.TicketNumber,
		"trip_id":       req.TripID,
		"seat":          result.SeatNumber,
		"device_type":   device.DeviceType,
		"ip":            utils.GetRealIP(c),
	}).Info("Ticket sold")

	c.JSON(http.StatusCreated, result)
}

// GetTicket handles GET /api/v1/tickets/:ticketId
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, ok := parseUUIDParam(c, "ticketId")
	if !ok {
		return
	}

	detail, err := h.service.GetTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
