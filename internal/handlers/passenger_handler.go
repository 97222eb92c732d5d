package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// PassengerResolver finds or creates passengers by phone number
type PassengerResolver interface {
	Resolve(ctx context.Context, req *models.ResolvePassengerRequest) (*models.PassengerRef, error)
	Search(ctx context.Context, phone string) (*models.PassengerSearchResponse, error)
}

// PassengerHandler handles HTTP requests for passenger lookup and registration
type PassengerHandler struct {
	service PassengerResolver
	logger  *logrus.Logger
}

// NewPassengerHandler creates a new passenger handler
func NewPassengerHandler(service PassengerResolver, logger *logrus.Logger) *PassengerHandler {
	return &PassengerHandler{
		service: service,
		logger:  logger,
	}
}

// SearchPassenger handles GET /api/v1/passengers/search?phone=
func (h *PassengerHandler) SearchPassenger(c *gin.Context) {
	response, err := h.service.Search(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ResolvePassenger handles POST /api/v1/passengers.
// Returns 201 when a passenger was created and 200 when the phone was already known.
func (h *PassengerHandler) ResolvePassenger(c *gin.Context) {
	var req models.ResolvePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid passenger request body")
		badRequest(c, models.CodeInvalidRequest, "Invalid request body")
		return
	}

	ref, err := h.service.Resolve(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusCreated
	if ref.AlreadyExisted {
		status = http.StatusOK
	}
	c.JSON(status, ref)
}
