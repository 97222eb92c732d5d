package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// TicketRepository handles tickets database operations
type TicketRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *sqlx.DB, logger *logrus.Logger) *TicketRepository {
	return &TicketRepository{db: db, logger: logger}
}

// Create assigns the ticket number from ticket_number_seq and inserts the ticket
// in one transaction. ID and TicketNumber are set on success.
// Returns ErrSeatTaken or ErrPaymentReferenceTaken when a uniqueness rule rejects the row.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.GetContext(ctx, &seq, `SELECT nextval('ticket_number_seq')`); err != nil {
		return fmt.Errorf("failed to allocate ticket number: %w", err)
	}
	ticketNumber := models.FormatTicketNumber(ticket.BookingTime, seq)

	var id uuid.UUID
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO tickets (
			trip_id, passenger_id, booked_by, booking_source,
			seat_number, seat_class, price_paid_usd,
			payment_method, payment_status, payment_reference,
			ticket_number, qr_code_data, status, booking_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING id`,
		ticket.TripID,
		ticket.PassengerID,
		ticket.BookedBy,
		ticket.BookingSource,
		ticket.SeatNumber,
		ticket.SeatClass,
		ticket.PricePaidUSD,
		ticket.PaymentMethod,
		ticket.PaymentStatus,
		ticket.PaymentReference,
		ticketNumber,
		ticket.QRCodeData,
		ticket.Status,
		ticket.BookingTime,
	).Scan(&id)
	if err != nil {
		if classified := classifyUniqueViolation(err); classified != err {
			return classified
		}
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ticket: %w", err)
	}

	ticket.ID = id
	ticket.TicketNumber = ticketNumber

	r.logger.WithFields(logrus.Fields{
		"ticket_id":     id,
		"ticket_number": ticketNumber,
		"trip_id":       ticket.TripID,
		"seat_number":   ticket.SeatNumber,
	}).Debug("Ticket inserted")

	return nil
}

// ListOccupiedSeats returns seats held by active or pending tickets on the given trips
func (r *TicketRepository) ListOccupiedSeats(ctx context.Context, tripIDs []uuid.UUID) ([]models.SeatOccupant, error) {
	if len(tripIDs) == 0 {
		return []models.SeatOccupant{}, nil
	}

	statuses := make([]string, len(models.OccupyingTicketStatuses))
	for i, s := range models.OccupyingTicketStatuses {
		statuses[i] = string(s)
	}

	query, args, err := sqlx.In(`
		SELECT trip_id, seat_number
		FROM tickets
		WHERE trip_id IN (?)
		  AND status IN (?)`,
		tripIDs, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to build occupied seats query: %w", err)
	}

	seats := []models.SeatOccupant{}
	if err := r.db.SelectContext(ctx, &seats, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list occupied seats: %w", err)
	}
	return seats, nil
}

// GetDetail returns the joined ticket view used for printing, or nil if it does not exist
func (r *TicketRepository) GetDetail(ctx context.Context, id uuid.UUID) (*models.TicketDetailRow, error) {
	var row models.TicketDetailRow
	err := r.db.GetContext(ctx, &row, `
		SELECT
			tk.id, tk.ticket_number, tk.seat_number, tk.price_paid_usd,
			tk.payment_method, tk.payment_status, tk.payment_reference,
			tk.qr_code_data, tk.booking_time, tk.booked_by,
			t.departure_time, t.arrival_time,
			r.origin_city, r.destination_city,
			p.first_name, p.last_name, COALESCE(p.phone_number, '') AS phone_number
		FROM tickets tk
		JOIN trips t ON t.id = tk.trip_id
		JOIN routes r ON r.id = t.route_id
		JOIN profiles p ON p.id = tk.passenger_id
		WHERE tk.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &row, nil
}

// ListHistory returns one page of tickets sold by filter.AgentID, newest first,
// together with the total number of matching tickets
func (r *TicketRepository) ListHistory(ctx context.Context, filter models.HistoryFilter) ([]models.HistoryRow, int, error) {
	conditions := []string{"tk.booked_by = ?"}
	args := []interface{}{filter.AgentID}

	if filter.BookedFrom != nil {
		conditions = append(conditions, "tk.booking_time >= ?")
		args = append(args, *filter.BookedFrom)
	}
	if filter.BookedUntil != nil {
		conditions = append(conditions, "tk.booking_time < ?")
		args = append(args, *filter.BookedUntil)
	}
	if filter.Origin != "" {
		conditions = append(conditions, "r.origin_city ILIKE ?")
		args = append(args, "%"+escapeLike(filter.Origin)+"%")
	}
	if filter.Destination != "" {
		conditions = append(conditions, "r.destination_city ILIKE ?")
		args = append(args, "%"+escapeLike(filter.Destination)+"%")
	}
	if filter.PaymentStatus != nil {
		conditions = append(conditions, "tk.payment_status = ?")
		args = append(args, string(*filter.PaymentStatus))
	}

	from := `
		FROM tickets tk
		JOIN trips t ON t.id = tk.trip_id
		JOIN routes r ON r.id = t.route_id
		JOIN profiles p ON p.id = tk.passenger_id
		WHERE ` + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*)`+from), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	rows := []models.HistoryRow{}
	if total == 0 {
		return rows, 0, nil
	}

	query := `
		SELECT
			tk.id, tk.ticket_number, tk.seat_number, tk.price_paid_usd,
			tk.payment_method, tk.payment_status, tk.payment_reference, tk.booking_time,
			t.departure_time, r.origin_city, r.destination_city,
			p.first_name, p.last_name` + from + `
		ORDER BY tk.booking_time DESC
		LIMIT ? OFFSET ?`
	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset)

	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list history: %w", err)
	}
	return rows, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
