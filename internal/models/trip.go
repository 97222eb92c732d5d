package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusBoarding  TripStatus = "boarding"
	TripStatusDeparted  TripStatus = "departed"
	TripStatusCancelled TripStatus = "cancelled"
)

// SellableTripStatuses lists the statuses under which seats can be sold
var SellableTripStatuses = []TripStatus{TripStatusScheduled, TripStatusBoarding}

// IsSellable reports whether tickets may be issued for a trip in this status
func (s TripStatus) IsSellable() bool {
	for _, st := range SellableTripStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Trip is a scheduled departure joined with its route and bus
type Trip struct {
	ID                  uuid.UUID           `json:"id" db:"id"`
	RouteID             uuid.UUID           `json:"route_id" db:"route_id"`
	BusID               uuid.UUID           `json:"bus_id" db:"bus_id"`
	OriginCity          string              `json:"origin_city" db:"origin_city"`
	DestinationCity     string              `json:"destination_city" db:"destination_city"`
	OriginProvince      *string             `json:"origin_province,omitempty" db:"origin_province"`
	DestinationProvince *string             `json:"destination_province,omitempty" db:"destination_province"`
	DistanceKm          decimal.NullDecimal `json:"distance_km" db:"distance_km"`
	DepartureTime       time.Time           `json:"departure_time" db:"departure_time"`
	ArrivalTime         *time.Time          `json:"arrival_time,omitempty" db:"arrival_time"`
	SeatClass           string              `json:"seat_class" db:"seat_class"`
	PriceUSD            decimal.Decimal     `json:"price_usd" db:"price_usd"`
	Capacity            int                 `json:"bus_capacity" db:"capacity"`
	LicensePlate        string              `json:"license_plate" db:"license_plate"`
	Status              TripStatus          `json:"status" db:"status"`

	// Denormalized counter maintained upstream. Never used for availability.
	StoredAvailableSeats int `json:"-" db:"available_seats"`
}

// RouteLabel returns "Origin → Destination" for display
func (t *Trip) RouteLabel() string {
	return t.OriginCity + " → " + t.DestinationCity
}

// TripSearchParams holds the criteria for a trip search
type TripSearchParams struct {
	Origin      string `form:"origin" validate:"required"`
	Destination string `form:"destination" validate:"required"`
	Date        string `form:"date" validate:"required,datetime=2006-01-02"`
}

// TripSummary is a trip annotated with real-time availability and local price
type TripSummary struct {
	Trip
	AvailableSeats int             `json:"available_seats"`
	PriceKz        decimal.Decimal `json:"price_kz"`
	Route          string          `json:"route"`
}

// TripSearchResponse is returned by the trip search endpoint
type TripSearchResponse struct {
	Trips []TripSummary `json:"trips"`
}
