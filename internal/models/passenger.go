package models

import (
	"time"

	"github.com/google/uuid"
)

// RolePassenger is the profile role of a ticket holder
const RolePassenger = "passenger"

// Passenger is a passenger profile joined with its extension row
type Passenger struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	FirstName             string     `json:"first_name" db:"first_name"`
	LastName              string     `json:"last_name" db:"last_name"`
	PhoneNumber           string     `json:"phone_number" db:"phone_number"`
	NationalID            *string    `json:"national_id,omitempty" db:"national_id"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	EmergencyContactName  *string    `json:"emergency_contact_name,omitempty" db:"emergency_contact_name"`
	EmergencyContactPhone *string    `json:"emergency_contact_phone,omitempty" db:"emergency_contact_phone"`
	PassportNumber        *string    `json:"passport_number,omitempty" db:"passport_number"`
	Nationality           *string    `json:"nationality,omitempty" db:"nationality"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// FullName returns "First Last"
func (p *Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PassengerExtension holds the optional fields kept in the passengers table
type PassengerExtension struct {
	EmergencyContactName  *string
	EmergencyContactPhone *string
	PassportNumber        *string
	Nationality           *string
}

// ResolvePassengerRequest is the payload for finding or creating a passenger.
// Names are only required when the phone number is unknown.
type ResolvePassengerRequest struct {
	FirstName             string  `json:"first_name" validate:"omitempty,max=100"`
	LastName              string  `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber           string  `json:"phone_number" validate:"required,max=32"`
	NationalID            *string `json:"national_id,omitempty" validate:"omitempty,max=32"`
	DateOfBirth           *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty" validate:"omitempty,max=32"`
	PassportNumber        *string `json:"passport_number,omitempty" validate:"omitempty,max=32"`
	Nationality           *string `json:"nationality,omitempty" validate:"omitempty,max=64"`
}

// NewPassengerProfile is the data written when a passenger is created
type NewPassengerProfile struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	PhoneNumber string
	NationalID  *string
	DateOfBirth *time.Time
	Extension   PassengerExtension
}

// PassengerRef is the result of resolving a passenger
type PassengerRef struct {
	PassengerID    uuid.UUID `json:"passenger_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PhoneNumber    string    `json:"phone_number"`
	AlreadyExisted bool      `json:"already_existed"`
}

// PassengerSearchResponse is returned by the passenger lookup endpoint
type PassengerSearchResponse struct {
	Found     bool       `json:"found"`
	Passenger *Passenger `json:"passenger"`
}
