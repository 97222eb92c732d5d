package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// ReservationHoldRepository reads the online channel's temporary seat holds.
// Holds are written elsewhere; this core only reads them.
type ReservationHoldRepository struct {
	db *sqlx.DB
}

// NewReservationHoldRepository creates a new ReservationHoldRepository
func NewReservationHoldRepository(db *sqlx.DB) *ReservationHoldRepository {
	return &ReservationHoldRepository{db: db}
}

// ListActiveSeats returns seats held on the given trips whose hold has not expired at now
func (r *ReservationHoldRepository) ListActiveSeats(ctx context.Context, tripIDs []uuid.UUID, now time.Time) ([]models.SeatOccupant, error) {
	if len(tripIDs) == 0 {
		return []models.SeatOccupant{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT trip_id, seat_number
		FROM online_bookings
		WHERE trip_id IN (?)
		  AND expires_at > ?`,
		tripIDs, now)
	if err != nil {
		return nil, fmt.Errorf("failed to build hold query: %w", err)
	}

	seats := []models.SeatOccupant{}
	if err := r.db.SelectContext(ctx, &seats, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list active holds: %w", err)
	}
	return seats, nil
}
