package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var luanda = time.FixedZone("WAT", 3600)

func historyRow(number, origin, destination string, status models.PaymentStatus, bookedAt time.Time) models.HistoryRow {
	return models.HistoryRow{
		ID:              uuid.New(),
		TicketNumber:    number,
		SeatNumber:      1,
		PricePaidUSD:    decimal.RequireFromString("10.50"),
		PaymentMethod:   models.PaymentMethodCash,
		PaymentStatus:   status,
		BookingTime:     bookedAt,
		DepartureTime:   bookedAt.Add(48 * time.Hour),
		OriginCity:      origin,
		DestinationCity: destination,
		FirstName:       "Ana",
		LastName:        "Silva",
	}
}

func newTestHistoryService(store *fakeHistoryStore) *HistoryService {
	return NewHistoryService(store, HistoryServiceConfig{
		ExchangeRate: decimal.NewFromInt(900),
		DefaultLimit: 2,
		MaxLimit:     3,
		Location:     luanda,
	}, newTestLogger())
}

func newHistoryStore() *fakeHistoryStore {
	return &fakeHistoryStore{rows: []models.HistoryRow{
		historyRow("TK-1", "Luanda", "Cunene", models.PaymentStatusPaid, time.Date(2025, 10, 19, 22, 30, 0, 0, time.UTC)),  // 20th 23:30 local
		historyRow("TK-2", "Luanda", "Benguela", models.PaymentStatusPending, time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)), // 20th local
		historyRow("TK-3", "Huambo", "Luanda", models.PaymentStatusPaid, time.Date(2025, 10, 20, 22, 59, 0, 0, time.UTC)),    // 20th 23:59 local
		historyRow("TK-4", "Lubango", "Namibe", models.PaymentStatusPaid, time.Date(2025, 10, 20, 23, 0, 0, 0, time.UTC)),    // 21st local
	}}
}

func TestListHistory_DateRangeIsWholeLocalDays(t *testing.T) {
	store := newHistoryStore()
	service := newTestHistoryService(store)

	result, err := service.ListHistory(context.Background(), uuid.New(), &models.HistoryFilterQuery{
		StartDate: "2025-10-20",
		EndDate:   "2025-10-20",
		Limit:     3,
	})
	require.NoError(t, err)

	require.NotNil(t, store.lastFilter.BookedFrom)
	require.NotNil(t, store.lastFilter.BookedUntil)
	assert.True(t, store.lastFilter.BookedFrom.Equal(time.Date(2025, 10, 19, 23, 0, 0, 0, time.UTC)))
	assert.True(t, store.lastFilter.BookedUntil.Equal(time.Date(2025, 10, 20, 23, 0, 0, 0, time.UTC)))

	numbers := make([]string, len(result.Tickets))
	for i, entry := range result.Tickets {
		numbers[i] = entry.TicketNumber
	}
	assert.Equal(t, []string{"TK-3", "TK-2"}, numbers)
	assert.Equal(t, 2, result.Total)
}

func TestListHistory_Filters(t *testing.T) {
	tests := []struct {
		name     string
		query    models.HistoryFilterQuery
		expected []string
	}{
		{"No filters, default page", models.HistoryFilterQuery{}, []string{"TK-4", "TK-3"}},
		{"Status all", models.HistoryFilterQuery{PaymentStatus: "all", Limit: 3}, []string{"TK-4", "TK-3", "TK-2"}},
		{"Pending only", models.HistoryFilterQuery{PaymentStatus: "pending"}, []string{"TK-2"}},
		{"Origin substring, case-insensitive", models.HistoryFilterQuery{Origin: "lua", Limit: 3}, []string{"TK-2", "TK-1"}},
		{"Destination", models.HistoryFilterQuery{Destination: "Luanda"}, []string{"TK-3"}},
		{"Start date only", models.HistoryFilterQuery{StartDate: "2025-10-21"}, []string{"TK-4"}},
		{"Offset", models.HistoryFilterQuery{Offset: 3}, []string{"TK-1"}},
		{"Offset past end", models.HistoryFilterQuery{Offset: 10}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newHistoryStore()
			service := newTestHistoryService(store)

			result, err := service.ListHistory(context.Background(), uuid.New(), &tt.query)
			require.NoError(t, err)

			numbers := []string{}
			for _, entry := range result.Tickets {
				numbers = append(numbers, entry.TicketNumber)
			}
			assert.Equal(t, tt.expected, numbers)
		})
	}
}

func TestListHistory_LimitIsClamped(t *testing.T) {
	store := newHistoryStore()
	service := newTestHistoryService(store)

	result, err := service.ListHistory(context.Background(), uuid.New(), &models.HistoryFilterQuery{Limit: 500})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Limit)
	assert.Len(t, result.Tickets, 3)
	assert.Equal(t, 4, result.Total)
}

func TestListHistory_EntryShape(t *testing.T) {
	store := newHistoryStore()
	service := newTestHistoryService(store)
	agentID := uuid.New()

	result, err := service.ListHistory(context.Background(), agentID, &models.HistoryFilterQuery{PaymentStatus: "pending"})
	require.NoError(t, err)
	require.Len(t, result.Tickets, 1)

	entry := result.Tickets[0]
	assert.Equal(t, "Ana Silva", entry.PassengerName)
	assert.Equal(t, "Pendente", entry.PaymentStatus)
	assert.True(t, decimal.NewFromInt(9450).Equal(entry.PriceKz), entry.PriceKz.String())
	assert.Equal(t, agentID, store.lastFilter.AgentID)
	require.NotNil(t, store.lastFilter.PaymentStatus)
	assert.Equal(t, models.PaymentStatusPending, *store.lastFilter.PaymentStatus)
}

func TestListHistory_InvalidQueries(t *testing.T) {
	tests := []struct {
		name  string
		query models.HistoryFilterQuery
		field string
	}{
		{"Bad start date", models.HistoryFilterQuery{StartDate: "20/10/2025"}, "startDate"},
		{"Bad end date", models.HistoryFilterQuery{EndDate: "2025-13-01"}, "endDate"},
		{"End before start", models.HistoryFilterQuery{StartDate: "2025-10-21", EndDate: "2025-10-20"}, "endDate"},
		{"Unknown status", models.HistoryFilterQuery{PaymentStatus: "refunded"}, "paymentStatus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newHistoryStore()
			service := newTestHistoryService(store)

			_, err := service.ListHistory(context.Background(), uuid.New(), &tt.query)

			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestListHistory_StoreFailure(t *testing.T) {
	store := newHistoryStore()
	store.err = errors.New("statement timeout")
	service := newTestHistoryService(store)

	_, err := service.ListHistory(context.Background(), uuid.New(), &models.HistoryFilterQuery{})

	var depErr *models.DependencyError
	require.ErrorAs(t, err, &depErr)
}
