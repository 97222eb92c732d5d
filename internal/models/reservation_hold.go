package models

import (
	"time"

	"github.com/google/uuid"
)

// ReservationHold is a temporary seat hold placed by the online channel.
// It blocks the seat only while now < ExpiresAt.
type ReservationHold struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TripID     uuid.UUID `json:"trip_id" db:"trip_id"`
	SeatNumber int       `json:"seat_number" db:"seat_number"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
}

// IsActiveAt reports whether the hold still blocks its seat at t
func (h *ReservationHold) IsActiveAt(t time.Time) bool {
	return t.Before(h.ExpiresAt)
}
