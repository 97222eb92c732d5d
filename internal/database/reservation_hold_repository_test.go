package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationHoldRepository_ListActiveSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationHoldRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		tripID := uuid.New()

		mock.ExpectQuery(`FROM online_bookings\s+WHERE trip_id IN \(\?\)\s+AND expires_at > \?`).
			WithArgs(tripID, now).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id", "seat_number"}).
				AddRow(tripID.String(), 13))

		seats, err := repo.ListActiveSeats(ctx, []uuid.UUID{tripID}, now)
		require.NoError(t, err)
		assert.Equal(t, []models.SeatOccupant{{TripID: tripID, SeatNumber: 13}}, seats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`FROM online_bookings`).
			WillReturnError(fmt.Errorf("connection reset"))

		seats, err := repo.ListActiveSeats(ctx, []uuid.UUID{uuid.New()}, now)
		assert.Error(t, err)
		assert.Nil(t, seats)
		assert.Contains(t, err.Error(), "failed to list active holds")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Trips", func(t *testing.T) {
		seats, err := repo.ListActiveSeats(ctx, []uuid.UUID{}, now)
		require.NoError(t, err)
		assert.Empty(t, seats)
	})
}
