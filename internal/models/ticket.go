package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the passenger pays for a ticket
type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "cash"
	PaymentMethodReference PaymentMethod = "reference"
)

// ParsePaymentMethod accepts the canonical names and the "referencia" spelling used by the agent UI
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return PaymentMethodCash, true
	case "reference", "referencia", "referência":
		return PaymentMethodReference, true
	default:
		return "", false
	}
}

// DisplayName returns the label printed on tickets
func (m PaymentMethod) DisplayName() string {
	if m == PaymentMethodCash {
		return "Dinheiro"
	}
	return "Referência"
}

// PaymentStatus is the settlement state of a ticket
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// DisplayName returns the label shown in history and printouts
func (s PaymentStatus) DisplayName() string {
	if s == PaymentStatusPaid {
		return "Pago"
	}
	return "Pendente"
}

// TicketStatus is the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// OccupyingTicketStatuses are the ticket statuses that hold a seat
var OccupyingTicketStatuses = []TicketStatus{TicketStatusActive, TicketStatusPending}

// BookingSourceAgent marks tickets sold at the counter
const BookingSourceAgent = "agent"

// Ticket represents a row in the tickets table
type Ticket struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	TripID           uuid.UUID       `json:"trip_id" db:"trip_id"`
	PassengerID      uuid.UUID       `json:"passenger_id" db:"passenger_id"`
	BookedBy         uuid.UUID       `json:"booked_by" db:"booked_by"`
	BookingSource    string          `json:"booking_source" db:"booking_source"`
	SeatNumber       int             `json:"seat_number" db:"seat_number"`
	SeatClass        string          `json:"seat_class" db:"seat_class"`
	PricePaidUSD     decimal.Decimal `json:"price_paid_usd" db:"price_paid_usd"`
	PaymentMethod    PaymentMethod   `json:"payment_method" db:"payment_method"`
	PaymentStatus    PaymentStatus   `json:"payment_status" db:"payment_status"`
	PaymentReference *string         `json:"payment_reference" db:"payment_reference"`
	TicketNumber     string          `json:"ticket_number" db:"ticket_number"`
	QRCodeData       string          `json:"qr_code_data" db:"qr_code_data"`
	Status           TicketStatus    `json:"status" db:"status"`
	BookingTime      time.Time       `json:"booking_time" db:"booking_time"`
}

// FormatTicketNumber builds a ticket number from its booking date and sequence value.
// Format: TK-YYYYMMDD-NNNNNN
func FormatTicketNumber(bookedAt time.Time, seq int64) string {
	return fmt.Sprintf("TK-%s-%06d", bookedAt.Format("20060102"), seq)
}

// IssueTicketRequest is the payload for selling a seat
type IssueTicketRequest struct {
	TripID           string  `json:"trip_id" validate:"required,uuid"`
	PassengerID      string  `json:"passenger_id" validate:"required,uuid"`
	SeatNumber       int     `json:"seat_number" validate:"required,min=1"`
	PaymentMethod    string  `json:"payment_method" validate:"required"`
	PaymentReference *string `json:"payment_reference,omitempty" validate:"omitempty,number,max=32"`
}

// IssueTicketResult is returned after a ticket is persisted
type IssueTicketResult struct {
	TicketID         uuid.UUID       `json:"ticket_id"`
	TicketNumber     string          `json:"ticket_number"`
	PaymentReference *string         `json:"payment_reference"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	Status           TicketStatus    `json:"status"`
	SeatNumber       int             `json:"seat_number"`
	PricePaidUSD     decimal.Decimal `json:"price_paid_usd"`
	Currency         string          `json:"currency"`
	QRCodeData       string          `json:"qr_code_data"`
	BookingTime      time.Time       `json:"booking_time"`
}

// TicketDetailRow is the joined read used for printing
type TicketDetailRow struct {
	ID               uuid.UUID       `db:"id"`
	TicketNumber     string          `db:"ticket_number"`
	SeatNumber       int             `db:"seat_number"`
	PricePaidUSD     decimal.Decimal `db:"price_paid_usd"`
	PaymentMethod    PaymentMethod   `db:"payment_method"`
	PaymentStatus    PaymentStatus   `db:"payment_status"`
	PaymentReference *string         `db:"payment_reference"`
	QRCodeData       string          `db:"qr_code_data"`
	BookingTime      time.Time       `db:"booking_time"`
	BookedBy         uuid.UUID       `db:"booked_by"`
	DepartureTime    time.Time       `db:"departure_time"`
	ArrivalTime      *time.Time      `db:"arrival_time"`
	OriginCity       string          `db:"origin_city"`
	DestinationCity  string          `db:"destination_city"`
	FirstName        string          `db:"first_name"`
	LastName         string          `db:"last_name"`
	PhoneNumber      string          `db:"phone_number"`
}

// TicketDetail is the printable view of a ticket
type TicketDetail struct {
	ID               uuid.UUID       `json:"id"`
	TicketNumber     string          `json:"ticket_number"`
	PassengerName    string          `json:"passenger_name"`
	PassengerPhone   string          `json:"passenger_phone"`
	Origin           string          `json:"origin"`
	Destination      string          `json:"destination"`
	DepartureTime    string          `json:"departure_time"`
	SeatNumber       int             `json:"seat_number"`
	PriceKz          decimal.Decimal `json:"price_kz"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
	QRCodeData       string          `json:"qr_code_data"`
	BookingTime      time.Time       `json:"booking_time"`

	Payments []PaymentTransaction `json:"payments,omitempty"`
}
