package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryFilterQuery is the raw query string of the history endpoint
type HistoryFilterQuery struct {
	StartDate     string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Origin        string `form:"origin" validate:"omitempty,max=100"`
	Destination   string `form:"destination" validate:"omitempty,max=100"`
	PaymentStatus string `form:"paymentStatus" validate:"omitempty,oneof=all paid pending"`
	Limit         int    `form:"limit" validate:"omitempty,min=1"`
	Offset        int    `form:"offset" validate:"omitempty,min=0"`
}

// HistoryFilter is the parsed filter passed to the store.
// BookedFrom is inclusive; BookedUntil is exclusive.
type HistoryFilter struct {
	AgentID       uuid.UUID
	BookedFrom    *time.Time
	BookedUntil   *time.Time
	Origin        string
	Destination   string
	PaymentStatus *PaymentStatus
	Limit         int
	Offset        int
}

// HistoryRow is the joined read of one sold ticket
type HistoryRow struct {
	ID               uuid.UUID       `db:"id"`
	TicketNumber     string          `db:"ticket_number"`
	SeatNumber       int             `db:"seat_number"`
	PricePaidUSD     decimal.Decimal `db:"price_paid_usd"`
	PaymentMethod    PaymentMethod   `db:"payment_method"`
	PaymentStatus    PaymentStatus   `db:"payment_status"`
	PaymentReference *string         `db:"payment_reference"`
	BookingTime      time.Time       `db:"booking_time"`
	DepartureTime    time.Time       `db:"departure_time"`
	OriginCity       string          `db:"origin_city"`
	DestinationCity  string          `db:"destination_city"`
	FirstName        string          `db:"first_name"`
	LastName         string          `db:"last_name"`
}

// HistoryEntry is one line of an agent's sales history
type HistoryEntry struct {
	ID               uuid.UUID       `json:"id"`
	TicketNumber     string          `json:"ticket_number"`
	PassengerName    string          `json:"passenger_name"`
	Origin           string          `json:"origin"`
	Destination      string          `json:"destination"`
	DepartureTime    time.Time       `json:"departure_time"`
	SeatNumber       int             `json:"seat_number"`
	PriceKz          decimal.Decimal `json:"price_kz"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
	BookingTime      time.Time       `json:"booking_time"`
}

// HistoryResponse is returned by the agent history endpoint
type HistoryResponse struct {
	Tickets []HistoryEntry `json:"tickets"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}
