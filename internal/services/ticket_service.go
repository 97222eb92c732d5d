package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/database"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
	"github.com/smarttransit/agent-ticketing-backend/pkg/validator"
)

// ReferenceSource produces candidate payment reference codes
type ReferenceSource interface {
	Generate() string
}

// TicketServiceConfig holds configuration for ticket issuance
type TicketServiceConfig struct {
	Currency          string          // currency recorded on payment transactions (default USD)
	ReferenceAttempts int             // inserts tried with fresh generated references (default 3)
	ExchangeRate      decimal.Decimal // USD to Kz for printed prices
	DisplayLocation   *time.Location  // zone used to print departure times
}

// DefaultTicketServiceConfig returns default configuration
func DefaultTicketServiceConfig() TicketServiceConfig {
	loc, err := time.LoadLocation("Africa/Luanda")
	if err != nil {
		loc = time.FixedZone("WAT", 3600)
	}
	return TicketServiceConfig{
		Currency:          "USD",
		ReferenceAttempts: 3,
		ExchangeRate:      decimal.NewFromInt(1),
		DisplayLocation:   loc,
	}
}

// TicketService sells seats: it allocates the seat, persists the ticket and
// records the payment transaction
type TicketService struct {
	trips      TripStore
	passengers PassengerStore
	tickets    TicketStore
	payments   PaymentTransactionStore
	occupancy  *OccupancyService
	references ReferenceSource
	phones     *validator.PhoneNormalizer
	config     TicketServiceConfig
	logger     *logrus.Logger
	now        func() time.Time
	newQRCode  func() string
}

// NewTicketService creates a new ticket service
func NewTicketService(
	trips TripStore,
	passengers PassengerStore,
	tickets TicketStore,
	payments PaymentTransactionStore,
	occupancy *OccupancyService,
	references ReferenceSource,
	config TicketServiceConfig,
	logger *logrus.Logger,
) *TicketService {
	if config.ReferenceAttempts < 1 {
		config.ReferenceAttempts = 1
	}
	if config.DisplayLocation == nil {
		config.DisplayLocation = time.UTC
	}
	return &TicketService{
		trips:      trips,
		passengers: passengers,
		tickets:    tickets,
		payments:   payments,
		occupancy:  occupancy,
		references: references,
		phones:     validator.NewPhoneNormalizer(),
		config:     config,
		logger:     logger,
		now:        time.Now,
		newQRCode:  uuid.NewString,
	}
}

// ============================================================================
// ISSUE TICKET
// ============================================================================

// Issue sells one seat of a trip to a passenger on behalf of agentID.
//
// Cash sales are paid immediately. Reference sales stay pending and get a
// generated 11-digit reference when the caller supplies none. Seat class and
// price are copied from the trip at the time of sale.
func (s *TicketService) Issue(ctx context.Context, agentID uuid.UUID, req *models.IssueTicketRequest) (*models.IssueTicketResult, error) {
	// 1. Validate input before touching the store
	req.PaymentReference = optionalString(req.PaymentReference)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if agentID == uuid.Nil {
		return nil, &models.ValidationError{Code: models.CodeInvalidRequest, Field: "agent_id", Message: "is required"}
	}
	method, ok := models.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, &models.ValidationError{
			Code:    models.CodeInvalidPaymentMethod,
			Field:   "payment_method",
			Message: fmt.Sprintf("unsupported payment method %q (use cash or reference)", req.PaymentMethod),
		}
	}
	tripID := uuid.MustParse(req.TripID)
	passengerID := uuid.MustParse(req.PassengerID)

	// 2. Trip must exist and be on sale
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, models.NewDependencyError("get trip", err)
	}
	if trip == nil {
		return nil, models.NewNotFoundError(models.CodeTripNotFound, "trip", tripID.String())
	}
	if !trip.Status.IsSellable() {
		return nil, &models.ValidationError{
			Code:    models.CodeTripNotSellable,
			Field:   "trip_id",
			Message: fmt.Sprintf("trip is %s and no longer on sale", trip.Status),
		}
	}
	if req.SeatNumber > trip.Capacity {
		return nil, &models.ValidationError{
			Code:    models.CodeSeatOutOfRange,
			Field:   "seat_number",
			Message: fmt.Sprintf("seat must be between 1 and %d", trip.Capacity),
		}
	}

	// 3. Passenger must exist
	passenger, err := s.passengers.GetByID(ctx, passengerID)
	if err != nil {
		return nil, models.NewDependencyError("get passenger", err)
	}
	if passenger == nil {
		return nil, models.NewNotFoundError(models.CodePassengerNotFound, "passenger", passengerID.String())
	}

	// 4. Re-check availability now; the seat map the agent saw may be stale
	occupancy, err := s.occupancy.ForTrip(ctx, trip)
	if err != nil {
		return nil, err
	}
	if occupancy.IsOccupied(req.SeatNumber) {
		return nil, seatUnavailable(req.SeatNumber)
	}

	// 5. Build the ticket
	ticket := &models.Ticket{
		TripID:           trip.ID,
		PassengerID:      passenger.ID,
		BookedBy:         agentID,
		BookingSource:    models.BookingSourceAgent,
		SeatNumber:       req.SeatNumber,
		SeatClass:        trip.SeatClass,
		PricePaidUSD:     trip.PriceUSD,
		PaymentMethod:    method,
		PaymentReference: req.PaymentReference,
		QRCodeData:       s.newQRCode(),
		BookingTime:      s.now().UTC(),
	}
	if method == models.PaymentMethodCash {
		ticket.PaymentStatus = models.PaymentStatusPaid
		ticket.Status = models.TicketStatusActive
	} else {
		ticket.PaymentStatus = models.PaymentStatusPending
		ticket.Status = models.TicketStatusPending
	}

	generated := method == models.PaymentMethodReference && ticket.PaymentReference == nil

	// 6. Persist; the (trip, seat) unique index decides concurrent races
	if err := s.persist(ctx, ticket, generated); err != nil {
		return nil, err
	}

	// 7. Audit trail. The sale stands even if this write fails.
	s.recordPayment(ctx, ticket)

	s.logger.WithFields(logrus.Fields{
		"ticket_id":      ticket.ID,
		"ticket_number":  ticket.TicketNumber,
		"trip_id":        ticket.TripID,
		"seat_number":    ticket.SeatNumber,
		"agent_id":       agentID,
		"payment_method": ticket.PaymentMethod,
		"payment_status": ticket.PaymentStatus,
	}).Info("Ticket issued")

	return &models.IssueTicketResult{
		TicketID:         ticket.ID,
		TicketNumber:     ticket.TicketNumber,
		PaymentReference: ticket.PaymentReference,
		PaymentMethod:    ticket.PaymentMethod,
		PaymentStatus:    ticket.PaymentStatus,
		Status:           ticket.Status,
		SeatNumber:       ticket.SeatNumber,
		PricePaidUSD:     ticket.PricePaidUSD,
		Currency:         s.config.Currency,
		QRCodeData:       ticket.QRCodeData,
		BookingTime:      ticket.BookingTime,
	}, nil
}

// persist inserts the ticket, regenerating the reference when a generated
// one collides with an existing ticket
func (s *TicketService) persist(ctx context.Context, ticket *models.Ticket, generated bool) error {
	for attempt := 1; ; attempt++ {
		if generated {
			ref := s.references.Generate()
			ticket.PaymentReference = &ref
		}

		err := s.tickets.Create(ctx, ticket)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, database.ErrSeatTaken):
			return seatUnavailable(ticket.SeatNumber)
		case errors.Is(err, database.ErrPaymentReferenceTaken):
			if !generated {
				return models.NewConflictError(models.CodeReferenceTaken, "payment reference is already used by another ticket")
			}
			if attempt >= s.config.ReferenceAttempts {
				return models.NewConflictError(models.CodeReferenceExhausted, "could not allocate a unique payment reference, please retry")
			}
			s.logger.WithFields(logrus.Fields{
				"attempt":   attempt,
				"reference": *ticket.PaymentReference,
			}).Warn("Generated payment reference collided, regenerating")
		default:
			return models.NewDependencyError("create ticket", err)
		}
	}
}

func (s *TicketService) recordPayment(ctx context.Context, ticket *models.Ticket) {
	status := models.PaymentTransactionPending
	if ticket.PaymentStatus == models.PaymentStatusPaid {
		status = models.PaymentTransactionCompleted
	}

	txn := &models.PaymentTransaction{
		TicketID:      ticket.ID,
		AmountUSD:     ticket.PricePaidUSD,
		Currency:      s.config.Currency,
		PaymentMethod: ticket.PaymentMethod,
		TransactionID: ticket.PaymentReference,
		Status:        status,
		CreatedAt:     ticket.BookingTime,
	}
	if err := s.payments.Create(ctx, txn); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"ticket_id":     ticket.ID,
			"ticket_number": ticket.TicketNumber,
		}).Error("Failed to record payment transaction for issued ticket")
	}
}

func seatUnavailable(seat int) error {
	return models.NewConflictError(models.CodeSeatUnavailable, fmt.Sprintf("seat %d is no longer available", seat))
}

// ============================================================================
// TICKET DETAIL
// ============================================================================

// GetTicket returns the printable view of a ticket
func (s *TicketService) GetTicket(ctx context.Context, ticketID uuid.UUID) (*models.TicketDetail, error) {
	row, err := s.tickets.GetDetail(ctx, ticketID)
	if err != nil {
		return nil, models.NewDependencyError("get ticket", err)
	}
	if row == nil {
		return nil, models.NewNotFoundError(models.CodeTicketNotFound, "ticket", ticketID.String())
	}

	payments, err := s.payments.ListByTicket(ctx, ticketID)
	if err != nil {
		s.logger.WithError(err).WithField("ticket_id", ticketID).Warn("Failed to load payment transactions for ticket")
		payments = nil
	}

	return &models.TicketDetail{
		ID:               row.ID,
		TicketNumber:     row.TicketNumber,
		PassengerName:    row.FirstName + " " + row.LastName,
		PassengerPhone:   s.phones.Format(row.PhoneNumber),
		Origin:           row.OriginCity,
		Destination:      row.DestinationCity,
		DepartureTime:    row.DepartureTime.In(s.config.DisplayLocation).Format("02/01/2006, 15:04"),
		SeatNumber:       row.SeatNumber,
		PriceKz:          convertToKz(row.PricePaidUSD, s.config.ExchangeRate),
		PaymentStatus:    row.PaymentStatus.DisplayName(),
		PaymentMethod:    row.PaymentMethod.DisplayName(),
		PaymentReference: row.PaymentReference,
		QRCodeData:       row.QRCodeData,
		BookingTime:      row.BookingTime,
		Payments:         payments,
	}, nil
}
