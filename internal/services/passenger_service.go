package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/database"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
	"github.com/smarttransit/agent-ticketing-backend/pkg/validator"
)

// PassengerService resolves passenger identities by normalized phone number.
// Resolving the same phone twice yields the same passenger.
type PassengerService struct {
	store  PassengerStore
	phones *validator.PhoneNormalizer
	logger *logrus.Logger
}

// NewPassengerService creates a new passenger service
func NewPassengerService(store PassengerStore, phones *validator.PhoneNormalizer, logger *logrus.Logger) *PassengerService {
	return &PassengerService{
		store:  store,
		phones: phones,
		logger: logger,
	}
}

// Resolve finds the passenger owning the request's phone number, refreshing
// their optional details, or creates a new passenger when none exists
func (s *PassengerService) Resolve(ctx context.Context, req *models.ResolvePassengerRequest) (*models.PassengerRef, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	phone := s.phones.Normalize(req.PhoneNumber)
	if phone == "" {
		return nil, &models.ValidationError{Code: models.CodeInvalidPhone, Field: "phone_number", Message: validator.ErrEmptyPhone.Error()}
	}

	ext := models.PassengerExtension{
		EmergencyContactName:  optionalString(req.EmergencyContactName),
		EmergencyContactPhone: s.phones.NormalizeOptional(req.EmergencyContactPhone),
		PassportNumber:        optionalString(req.PassportNumber),
		Nationality:           optionalString(req.Nationality),
	}

	existing, err := s.store.FindByPhone(ctx, phone)
	if err != nil {
		return nil, models.NewDependencyError("find passenger", err)
	}
	if existing != nil {
		return s.refreshExisting(ctx, existing, ext)
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, &models.ValidationError{
			Code:    models.CodeMissingPassengerName,
			Message: "first_name and last_name are required to register a new passenger",
		}
	}

	// Numbers already on file resolve whatever their length; only new ones are checked
	if _, err := s.phones.Check(phone); err != nil {
		return nil, &models.ValidationError{Code: models.CodeInvalidPhone, Field: "phone_number", Message: err.Error()}
	}

	profile := &models.NewPassengerProfile{
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: phone,
		NationalID:  optionalString(req.NationalID),
		Extension:   ext,
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, &models.ValidationError{Code: models.CodeInvalidRequest, Field: "date_of_birth", Message: "must be a date in 2006-01-02 format"}
		}
		profile.DateOfBirth = &dob
	}

	created, err := s.store.Create(ctx, profile)
	if errors.Is(err, database.ErrPassengerPhoneTaken) {
		// A concurrent request registered this phone first; continue as found
		winner, findErr := s.store.FindByPhone(ctx, phone)
		if findErr != nil {
			return nil, models.NewDependencyError("find passenger after conflict", findErr)
		}
		if winner == nil {
			return nil, models.NewDependencyError("find passenger after conflict", err)
		}
		s.logger.WithFields(logrus.Fields{
			"passenger_id": winner.ID,
		}).Info("Passenger created concurrently, reusing existing identity")
		return s.refreshExisting(ctx, winner, ext)
	}
	if err != nil {
		return nil, models.NewDependencyError("create passenger", err)
	}

	s.logger.WithFields(logrus.Fields{
		"passenger_id": created.ID,
	}).Info("Passenger registered")

	return &models.PassengerRef{
		PassengerID:    created.ID,
		FirstName:      created.FirstName,
		LastName:       created.LastName,
		PhoneNumber:    created.PhoneNumber,
		AlreadyExisted: false,
	}, nil
}

// Search looks up a passenger by phone number without creating anything
func (s *PassengerService) Search(ctx context.Context, phone string) (*models.PassengerSearchResponse, error) {
	normalized := s.phones.Normalize(phone)
	if normalized == "" {
		return nil, &models.ValidationError{Code: models.CodeInvalidPhone, Field: "phone", Message: validator.ErrEmptyPhone.Error()}
	}

	passenger, err := s.store.FindByPhone(ctx, normalized)
	if err != nil {
		return nil, models.NewDependencyError("find passenger", err)
	}

	return &models.PassengerSearchResponse{
		Found:     passenger != nil,
		Passenger: passenger,
	}, nil
}

// refreshExisting upserts the optional details onto an existing passenger.
// Names are never overwritten.
func (s *PassengerService) refreshExisting(ctx context.Context, existing *models.Passenger, ext models.PassengerExtension) (*models.PassengerRef, error) {
	if err := s.store.UpsertExtension(ctx, existing.ID, ext); err != nil {
		return nil, models.NewDependencyError("update passenger details", err)
	}

	return &models.PassengerRef{
		PassengerID:    existing.ID,
		FirstName:      existing.FirstName,
		LastName:       existing.LastName,
		PhoneNumber:    existing.PhoneNumber,
		AlreadyExisted: true,
	}, nil
}
