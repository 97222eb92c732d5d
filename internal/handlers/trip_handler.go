package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// TripFinder searches and loads trips with live availability
type TripFinder interface {
	SearchTrips(ctx context.Context, params *models.TripSearchParams) (*models.TripSearchResponse, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*models.TripSummary, error)
}

// SeatAvailabilityReader builds the annotated seat map of a trip
type SeatAvailabilityReader interface {
	GetSeatAvailability(ctx context.Context, tripID uuid.UUID) (*models.SeatAvailabilityResponse, error)
}

// TripHandler handles HTTP requests for trips and their seat maps
type TripHandler struct {
	trips  TripFinder
	seats  SeatAvailabilityReader
	logger *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips TripFinder, seats SeatAvailabilityReader, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		trips:  trips,
		seats:  seats,
		logger: logger,
	}
}

// SearchTrips handles GET /api/v1/trips/search?origin=&destination=&date=YYYY-MM-DD
func (h *TripHandler) SearchTrips(c *gin.Context) {
	var params models.TripSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.WithError(err).Warn("Invalid trip search query")
		badRequest(c, models.CodeInvalidRequest, "Invalid search parameters")
		return
	}

	response, err := h.trips.SearchTrips(c.Request.Context(), &params)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"origin":      params.Origin,
		"destination": params.Destination,
		"date":        params.Date,
		"results":     len(response.Trips),
	}).Debug("Trip search completed")

	c.JSON(http.StatusOK, response)
}

// GetTrip handles GET /api/v1/trips/:tripId
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, ok := parseUUIDParam(c, "tripId")
	if !ok {
		return
	}

	trip, err := h.trips.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// GetSeatMap handles GET /api/v1/trips/:tripId/seats
func (h *TripHandler) GetSeatMap(c *gin.Context) {
	tripID, ok := parseUUIDParam(c, "tripId")
	if !ok {
		return
	}

	availability, err := h.seats.GetSeatAvailability(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}
