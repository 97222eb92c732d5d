package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// The interfaces below are satisfied by the repositories in internal/database.

// TripStore reads trips joined with their route and bus
type TripStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	Search(ctx context.Context, origin, destination string, from, until time.Time, statuses []models.TripStatus) ([]models.Trip, error)
}

// OccupiedSeatStore reads seats held by issued tickets
type OccupiedSeatStore interface {
	ListOccupiedSeats(ctx context.Context, tripIDs []uuid.UUID) ([]models.SeatOccupant, error)
}

// HoldStore reads unexpired reservation holds
type HoldStore interface {
	ListActiveSeats(ctx context.Context, tripIDs []uuid.UUID, now time.Time) ([]models.SeatOccupant, error)
}

// PassengerStore reads and writes passenger identities
type PassengerStore interface {
	FindByPhone(ctx context.Context, phone string) (*models.Passenger, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Passenger, error)
	Create(ctx context.Context, profile *models.NewPassengerProfile) (*models.Passenger, error)
	UpsertExtension(ctx context.Context, id uuid.UUID, ext models.PassengerExtension) error
}

// TicketStore persists tickets
type TicketStore interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetDetail(ctx context.Context, id uuid.UUID) (*models.TicketDetailRow, error)
}

// HistoryStore lists tickets sold by an agent
type HistoryStore interface {
	ListHistory(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRow, int, error)
}

// PaymentTransactionStore appends and reads payment audit records
type PaymentTransactionStore interface {
	Create(ctx context.Context, txn *models.PaymentTransaction) error
	ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]models.PaymentTransaction, error)
}
