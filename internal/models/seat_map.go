package models

import (
	"time"

	"github.com/google/uuid"
)

// SeatRow is one row of a capacity-derived seat layout.
// Regular rows fill LeftSeats and RightSeats (two each, aisle between);
// the trailing back bench fills BackSeats only.
type SeatRow struct {
	RowNumber  int    `json:"row_number"`
	RowLabel   string `json:"row_label"`
	LeftSeats  []int  `json:"left_seats,omitempty"`
	RightSeats []int  `json:"right_seats,omitempty"`
	BackSeats  []int  `json:"back_seats,omitempty"`
}

// IsBackBench reports whether the row is the trailing back bench
func (r SeatRow) IsBackBench() bool {
	return len(r.BackSeats) > 0
}

// Seats returns the seat numbers of the row in display order
func (r SeatRow) Seats() []int {
	seats := make([]int, 0, len(r.LeftSeats)+len(r.RightSeats)+len(r.BackSeats))
	seats = append(seats, r.LeftSeats...)
	seats = append(seats, r.RightSeats...)
	return append(seats, r.BackSeats...)
}

// SeatInfo represents seat information for display
type SeatInfo struct {
	SeatNumber int  `json:"seat_number"`
	Available  bool `json:"available"`
}

// SeatMapRow is a SeatRow annotated with per-seat availability
type SeatMapRow struct {
	RowNumber  int        `json:"row_number"`
	RowLabel   string     `json:"row_label"`
	LeftSeats  []SeatInfo `json:"left_seats,omitempty"`
	RightSeats []SeatInfo `json:"right_seats,omitempty"`
	BackSeats  []SeatInfo `json:"back_seats,omitempty"`
}

// TripOccupancy is the set of seats of a trip that cannot be sold right now
type TripOccupancy struct {
	TripID         uuid.UUID `json:"trip_id"`
	Capacity       int       `json:"capacity"`
	OccupiedSeats  []int     `json:"occupied_seats"`
	AvailableSeats int       `json:"available_seats"`
	ComputedAt     time.Time `json:"computed_at"`
}

// IsOccupied reports whether seat is in the occupied set
func (o *TripOccupancy) IsOccupied(seat int) bool {
	for _, s := range o.OccupiedSeats {
		if s == seat {
			return true
		}
	}
	return false
}

// SeatAvailabilityResponse is returned by the trip seats endpoint
type SeatAvailabilityResponse struct {
	TripOccupancy
	SeatMap []SeatMapRow `json:"seat_map"`
}

// SeatOccupant is one (trip, seat) row read from tickets or holds
type SeatOccupant struct {
	TripID     uuid.UUID `db:"trip_id"`
	SeatNumber int       `db:"seat_number"`
}
