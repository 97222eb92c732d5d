package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// PassengerRepository handles profiles (role = passenger) and passengers database operations
type PassengerRepository struct {
	db *sqlx.DB
}

// NewPassengerRepository creates a new PassengerRepository
func NewPassengerRepository(db *sqlx.DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

const passengerSelect = `
	SELECT
		p.id, p.first_name, p.last_name, p.phone_number,
		p.national_id, p.date_of_birth,
		x.emergency_contact_name, x.emergency_contact_phone,
		x.passport_number, x.nationality,
		p.created_at
	FROM profiles p
	LEFT JOIN passengers x ON x.id = p.id`

// FindByPhone returns the passenger with the given normalized phone, or nil if none exists
func (r *PassengerRepository) FindByPhone(ctx context.Context, phone string) (*models.Passenger, error) {
	var passenger models.Passenger
	err := r.db.GetContext(ctx, &passenger,
		passengerSelect+` WHERE p.role = $1 AND p.phone_number = $2 LIMIT 1`,
		models.RolePassenger, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find passenger by phone: %w", err)
	}
	return &passenger, nil
}

// GetByID returns the passenger with the given id, or nil if none exists
func (r *PassengerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Passenger, error) {
	var passenger models.Passenger
	err := r.db.GetContext(ctx, &passenger,
		passengerSelect+` WHERE p.role = $1 AND p.id = $2`,
		models.RolePassenger, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get passenger: %w", err)
	}
	return &passenger, nil
}

// Create inserts the profile and its extension row in one transaction.
// Returns ErrPassengerPhoneTaken if a concurrent request registered the phone first.
func (r *PassengerRepository) Create(ctx context.Context, profile *models.NewPassengerProfile) (*models.Passenger, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	passenger := &models.Passenger{
		ID:                    profile.ID,
		FirstName:             profile.FirstName,
		LastName:              profile.LastName,
		PhoneNumber:           profile.PhoneNumber,
		NationalID:            profile.NationalID,
		DateOfBirth:           profile.DateOfBirth,
		EmergencyContactName:  profile.Extension.EmergencyContactName,
		EmergencyContactPhone: profile.Extension.EmergencyContactPhone,
		PassportNumber:        profile.Extension.PassportNumber,
		Nationality:           profile.Extension.Nationality,
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO profiles (id, role, first_name, last_name, phone_number, national_id, date_of_birth)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		profile.ID, models.RolePassenger, profile.FirstName, profile.LastName,
		profile.PhoneNumber, profile.NationalID, profile.DateOfBirth,
	).Scan(&passenger.CreatedAt)
	if err != nil {
		if classified := classifyUniqueViolation(err); classified != err {
			return nil, classified
		}
		return nil, fmt.Errorf("failed to insert passenger profile: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO passengers (id, emergency_contact_name, emergency_contact_phone, passport_number, nationality)
		VALUES ($1, $2, $3, $4, $5)`,
		profile.ID,
		profile.Extension.EmergencyContactName,
		profile.Extension.EmergencyContactPhone,
		profile.Extension.PassportNumber,
		profile.Extension.Nationality,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert passenger details: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if classified := classifyUniqueViolation(err); classified != err {
			return nil, classified
		}
		return nil, fmt.Errorf("failed to commit passenger: %w", err)
	}

	return passenger, nil
}

// UpsertExtension creates the passengers row if missing; existing values are only
// replaced by fields that are non-nil in ext
func (r *PassengerRepository) UpsertExtension(ctx context.Context, id uuid.UUID, ext models.PassengerExtension) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO passengers (id, emergency_contact_name, emergency_contact_phone, passport_number, nationality)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			emergency_contact_name  = COALESCE(EXCLUDED.emergency_contact_name, passengers.emergency_contact_name),
			emergency_contact_phone = COALESCE(EXCLUDED.emergency_contact_phone, passengers.emergency_contact_phone),
			passport_number         = COALESCE(EXCLUDED.passport_number, passengers.passport_number),
			nationality             = COALESCE(EXCLUDED.nationality, passengers.nationality),
			updated_at              = NOW()`,
		id,
		ext.EmergencyContactName,
		ext.EmergencyContactPhone,
		ext.PassportNumber,
		ext.Nationality,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert passenger details: %w", err)
	}
	return nil
}
