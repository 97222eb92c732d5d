package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Constraint names declared in the schema migrations
const (
	ConstraintTripSeatActive   = "tickets_trip_seat_active_key"
	ConstraintPassengerPhone   = "profiles_passenger_phone_key"
	ConstraintPaymentReference = "tickets_payment_reference_key"
)

const sqlStateUniqueViolation = "23505"

var (
	// ErrSeatTaken indicates a non-cancelled ticket already exists for the trip seat
	ErrSeatTaken = errors.New("seat already sold for this trip")

	// ErrPassengerPhoneTaken indicates another passenger owns the phone number
	ErrPassengerPhoneTaken = errors.New("passenger phone number already registered")

	// ErrPaymentReferenceTaken indicates the payment reference is already in use
	ErrPaymentReferenceTaken = errors.New("payment reference already in use")
)

// uniqueViolation returns the violated constraint name when err is a
// unique violation from either pgx or lib/pq
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation {
		return pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == sqlStateUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// classifyUniqueViolation maps known unique violations to sentinel errors.
// Other errors are returned unchanged.
func classifyUniqueViolation(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case ConstraintTripSeatActive:
		return ErrSeatTaken
	case ConstraintPassengerPhone:
		return ErrPassengerPhoneTaken
	case ConstraintPaymentReference:
		return ErrPaymentReferenceTaken
	default:
		return err
	}
}
