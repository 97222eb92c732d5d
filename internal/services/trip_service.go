package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// TripService finds sellable trips and reports their real availability
type TripService struct {
	trips        TripStore
	occupancy    *OccupancyService
	exchangeRate decimal.Decimal
	logger       *logrus.Logger
}

// NewTripService creates a new trip service
func NewTripService(trips TripStore, occupancy *OccupancyService, exchangeRate decimal.Decimal, logger *logrus.Logger) *TripService {
	return &TripService{
		trips:        trips,
		occupancy:    occupancy,
		exchangeRate: exchangeRate,
		logger:       logger,
	}
}

// SearchTrips returns scheduled or boarding trips on the exact route that
// depart during the given UTC day, earliest first
func (s *TripService) SearchTrips(ctx context.Context, params *models.TripSearchParams) (*models.TripSearchResponse, error) {
	if err := validateRequest(params); err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", params.Date)
	if err != nil {
		return nil, &models.ValidationError{Code: models.CodeInvalidRequest, Field: "date", Message: "must be a date in 2006-01-02 format"}
	}

	trips, err := s.trips.Search(ctx, params.Origin, params.Destination, day, day.AddDate(0, 0, 1), models.SellableTripStatuses)
	if err != nil {
		return nil, models.NewDependencyError("search trips", err)
	}

	occupancies, err := s.occupancy.ForTrips(ctx, trips)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.TripSummary, len(trips))
	for i := range trips {
		summaries[i] = s.summarize(&trips[i], occupancies[trips[i].ID])
	}

	s.logger.WithFields(logrus.Fields{
		"origin":      params.Origin,
		"destination": params.Destination,
		"date":        params.Date,
		"found":       len(summaries),
	}).Debug("Trip search completed")

	return &models.TripSearchResponse{Trips: summaries}, nil
}

// GetTrip returns one trip with its real availability
func (s *TripService) GetTrip(ctx context.Context, tripID uuid.UUID) (*models.TripSummary, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, models.NewDependencyError("get trip", err)
	}
	if trip == nil {
		return nil, models.NewNotFoundError(models.CodeTripNotFound, "trip", tripID.String())
	}

	occupancy, err := s.occupancy.ForTrip(ctx, trip)
	if err != nil {
		return nil, err
	}

	summary := s.summarize(trip, occupancy)
	return &summary, nil
}

func (s *TripService) summarize(trip *models.Trip, occupancy *models.TripOccupancy) models.TripSummary {
	available := trip.Capacity
	if occupancy != nil {
		available = occupancy.AvailableSeats
	}
	if available < 0 {
		available = 0
	}
	return models.TripSummary{
		Trip:           *trip,
		AvailableSeats: available,
		PriceKz:        convertToKz(trip.PriceUSD, s.exchangeRate),
		Route:          trip.RouteLabel(),
	}
}
