package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/middleware"
	"github.com/smarttransit/agent-ticketing-backend/pkg/jwt"
)

// Handlers groups the handlers mounted by RegisterRoutes
type Handlers struct {
	Health     *HealthHandler
	Trips      *TripHandler
	Passengers *PassengerHandler
	Tickets    *TicketHandler
	History    *HistoryHandler
}

// RegisterRoutes mounts the public health check and the agent API under /api/v1
func RegisterRoutes(router *gin.Engine, h Handlers, jwtService *jwt.Service, logger *logrus.Logger) {
	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtService, logger))
	v1.Use(middleware.RequireRole(middleware.RoleAgent, middleware.RoleAdmin))
	{
		trips := v1.Group("/trips")
		{
			trips.GET("/search", h.Trips.SearchTrips)
			trips.GET("/:tripId", h.Trips.GetTrip)
			trips.GET("/:tripId/seats", h.Trips.GetSeatMap)
		}

		passengers := v1.Group("/passengers")
		{
			passengers.GET("/search", h.Passengers.SearchPassenger)
			passengers.POST("", h.Passengers.ResolvePassenger)
		}

		tickets := v1.Group("/tickets")
		{
			tickets.POST("", h.Tickets.IssueTicket)
			tickets.GET("/:ticketId", h.Tickets.GetTicket)
		}

		v1.GET("/agent/history", h.History.ListHistory)
	}
}
