package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// OccupancyService computes which seats of a trip cannot be sold right now.
// Occupied = seats of active/pending tickets ∪ seats of unexpired holds.
// The trip's stored available_seats counter is never consulted.
type OccupancyService struct {
	trips   TripStore
	tickets OccupiedSeatStore
	holds   HoldStore
	logger  *logrus.Logger
	now     func() time.Time
}

// NewOccupancyService creates a new occupancy service
func NewOccupancyService(trips TripStore, tickets OccupiedSeatStore, holds HoldStore, logger *logrus.Logger) *OccupancyService {
	return &OccupancyService{
		trips:   trips,
		tickets: tickets,
		holds:   holds,
		logger:  logger,
		now:     time.Now,
	}
}

// GetOccupancy returns the occupied seats and real availability of a trip
func (s *OccupancyService) GetOccupancy(ctx context.Context, tripID uuid.UUID) (*models.TripOccupancy, error) {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return s.ForTrip(ctx, trip)
}

// GetSeatAvailability returns the occupancy of a trip together with its annotated seat map
func (s *OccupancyService) GetSeatAvailability(ctx context.Context, tripID uuid.UUID) (*models.SeatAvailabilityResponse, error) {
	trip, err := s.loadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	rows, err := BuildSeatMap(trip.Capacity)
	if err != nil {
		return nil, err
	}

	occupancy, err := s.ForTrip(ctx, trip)
	if err != nil {
		return nil, err
	}

	return &models.SeatAvailabilityResponse{
		TripOccupancy: *occupancy,
		SeatMap:       AnnotateSeatMap(rows, occupancy),
	}, nil
}

// ForTrip computes occupancy for an already loaded trip
func (s *OccupancyService) ForTrip(ctx context.Context, trip *models.Trip) (*models.TripOccupancy, error) {
	result, err := s.ForTrips(ctx, []models.Trip{*trip})
	if err != nil {
		return nil, err
	}
	return result[trip.ID], nil
}

// ForTrips computes occupancy for several trips with one read per source
func (s *OccupancyService) ForTrips(ctx context.Context, trips []models.Trip) (map[uuid.UUID]*models.TripOccupancy, error) {
	result := make(map[uuid.UUID]*models.TripOccupancy, len(trips))
	if len(trips) == 0 {
		return result, nil
	}

	now := s.now()
	tripIDs := make([]uuid.UUID, len(trips))
	capacities := make(map[uuid.UUID]int, len(trips))
	for i, t := range trips {
		tripIDs[i] = t.ID
		capacities[t.ID] = t.Capacity
	}

	ticketSeats, err := s.tickets.ListOccupiedSeats(ctx, tripIDs)
	if err != nil {
		return nil, models.NewDependencyError("list ticketed seats", err)
	}
	holdSeats, err := s.holds.ListActiveSeats(ctx, tripIDs, now)
	if err != nil {
		return nil, models.NewDependencyError("list held seats", err)
	}

	occupied := make(map[uuid.UUID]map[int]struct{}, len(trips))
	for _, id := range tripIDs {
		occupied[id] = make(map[int]struct{})
	}

	add := func(source string, seats []models.SeatOccupant) {
		for _, o := range seats {
			set, ok := occupied[o.TripID]
			if !ok {
				continue
			}
			if o.SeatNumber < 1 || o.SeatNumber > capacities[o.TripID] {
				s.logger.WithFields(logrus.Fields{
					"trip_id":     o.TripID,
					"seat_number": o.SeatNumber,
					"capacity":    capacities[o.TripID],
					"source":      source,
				}).Warn("Ignoring seat outside trip capacity")
				continue
			}
			set[o.SeatNumber] = struct{}{}
		}
	}
	add("tickets", ticketSeats)
	add("online_bookings", holdSeats)

	for _, t := range trips {
		set := occupied[t.ID]
		seats := make([]int, 0, len(set))
		for seat := range set {
			seats = append(seats, seat)
		}
		sort.Ints(seats)

		result[t.ID] = &models.TripOccupancy{
			TripID:         t.ID,
			Capacity:       t.Capacity,
			OccupiedSeats:  seats,
			AvailableSeats: t.Capacity - len(seats),
			ComputedAt:     now,
		}
	}

	return result, nil
}

func (s *OccupancyService) loadTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, models.NewDependencyError("get trip", err)
	}
	if trip == nil {
		return nil, models.NewNotFoundError(models.CodeTripNotFound, "trip", tripID.String())
	}
	return trip, nil
}
