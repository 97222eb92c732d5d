package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// TripRepository handles trips database operations
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripSelect = `
	SELECT
		t.id, t.route_id, t.bus_id,
		r.origin_city, r.destination_city, r.origin_province, r.destination_province, r.distance_km,
		t.departure_time, t.arrival_time, t.seat_class, t.price_usd,
		b.capacity, b.license_plate,
		t.status, t.available_seats
	FROM trips t
	JOIN routes r ON r.id = t.route_id
	JOIN buses b ON b.id = t.bus_id`

// GetByID returns a trip with its route and bus, or nil if it does not exist
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.GetContext(ctx, &trip, tripSelect+` WHERE t.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// Search returns trips on the exact origin/destination departing in [from, until)
// with one of the given statuses, earliest first
func (r *TripRepository) Search(ctx context.Context, origin, destination string, from, until time.Time, statuses []models.TripStatus) ([]models.Trip, error) {
	statusValues := make([]string, len(statuses))
	for i, s := range statuses {
		statusValues[i] = string(s)
	}

	query, args, err := sqlx.In(tripSelect+`
		WHERE r.origin_city = ?
		  AND r.destination_city = ?
		  AND t.departure_time >= ?
		  AND t.departure_time < ?
		  AND t.status IN (?)
		ORDER BY t.departure_time ASC`,
		origin, destination, from, until, statusValues)
	if err != nil {
		return nil, fmt.Errorf("failed to build trip search query: %w", err)
	}

	trips := []models.Trip{}
	if err := r.db.SelectContext(ctx, &trips, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}
	return trips, nil
}
