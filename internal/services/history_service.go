package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// HistoryServiceConfig holds configuration for the sales history query
type HistoryServiceConfig struct {
	ExchangeRate decimal.Decimal
	DefaultLimit int
	MaxLimit     int
	Location     *time.Location // zone in which filter dates are whole days
}

// HistoryService lists the tickets an agent has sold
type HistoryService struct {
	store  HistoryStore
	config HistoryServiceConfig
	logger *logrus.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(store HistoryStore, config HistoryServiceConfig, logger *logrus.Logger) *HistoryService {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.DefaultLimit < 1 {
		config.DefaultLimit = 50
	}
	if config.MaxLimit < config.DefaultLimit {
		config.MaxLimit = config.DefaultLimit
	}
	return &HistoryService{
		store:  store,
		config: config,
		logger: logger,
	}
}

// ListHistory returns the agent's tickets matching q, newest booking first.
// startDate and endDate are whole days; endDate includes its last millisecond.
// paymentStatus "all" or empty applies no filter.
func (s *HistoryService) ListHistory(ctx context.Context, agentID uuid.UUID, q *models.HistoryFilterQuery) (*models.HistoryResponse, error) {
	if err := validateRequest(q); err != nil {
		return nil, err
	}

	filter, err := s.buildFilter(agentID, q)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.store.ListHistory(ctx, filter)
	if err != nil {
		return nil, models.NewDependencyError("list history", err)
	}

	entries := make([]models.HistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.HistoryEntry{
			ID:               row.ID,
			TicketNumber:     row.TicketNumber,
			PassengerName:    row.FirstName + " " + row.LastName,
			Origin:           row.OriginCity,
			Destination:      row.DestinationCity,
			DepartureTime:    row.DepartureTime,
			SeatNumber:       row.SeatNumber,
			PriceKz:          convertToKz(row.PricePaidUSD, s.config.ExchangeRate),
			PaymentStatus:    row.PaymentStatus.DisplayName(),
			PaymentMethod:    row.PaymentMethod,
			PaymentReference: row.PaymentReference,
			BookingTime:      row.BookingTime,
		}
	}

	s.logger.WithFields(logrus.Fields{
		"agent_id": agentID,
		"returned": len(entries),
		"total":    total,
	}).Debug("Agent history listed")

	return &models.HistoryResponse{
		Tickets: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

func (s *HistoryService) buildFilter(agentID uuid.UUID, q *models.HistoryFilterQuery) (models.HistoryFilter, error) {
	filter := models.HistoryFilter{
		AgentID:     agentID,
		Origin:      strings.TrimSpace(q.Origin),
		Destination: strings.TrimSpace(q.Destination),
		Limit:       q.Limit,
		Offset:      q.Offset,
	}

	if q.StartDate != "" {
		from, err := time.ParseInLocation("2006-01-02", q.StartDate, s.config.Location)
		if err != nil {
			return filter, &models.ValidationError{Code: models.CodeInvalidRequest, Field: "startDate", Message: "must be a date in 2006-01-02 format"}
		}
		filter.BookedFrom = &from
	}
	if q.EndDate != "" {
		day, err := time.ParseInLocation("2006-01-02", q.EndDate, s.config.Location)
		if err != nil {
			return filter, &models.ValidationError{Code: models.CodeInvalidRequest, Field: "endDate", Message: "must be a date in 2006-01-02 format"}
		}
		until := day.AddDate(0, 0, 1)
		filter.BookedUntil = &until
	}
	if filter.BookedFrom != nil && filter.BookedUntil != nil && !filter.BookedFrom.Before(*filter.BookedUntil) {
		return filter, &models.ValidationError{Code: models.CodeInvalidRequest, Field: "endDate", Message: "must not be before startDate"}
	}

	if q.PaymentStatus != "" && q.PaymentStatus != "all" {
		status := models.PaymentStatus(q.PaymentStatus)
		filter.PaymentStatus = &status
	}

	if filter.Limit <= 0 {
		filter.Limit = s.config.DefaultLimit
	}
	if filter.Limit > s.config.MaxLimit {
		filter.Limit = s.config.MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}
