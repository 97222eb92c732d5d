package models

import "fmt"

// ValidationError is returned when input is malformed or breaks a business rule.
// Nothing has been written when it is returned.
type ValidationError struct {
	Code    string
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// NotFoundError is returned when a referenced trip, passenger or ticket does not exist
type NotFoundError struct {
	Code     string
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, resource, id string) *NotFoundError {
	return &NotFoundError{Code: code, Resource: resource, ID: id}
}

// ConflictError is returned when a uniqueness rule loses a race,
// e.g. the chosen seat was taken between display and submit.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a new conflict error
func NewConflictError(code, message string) *ConflictError {
	return &ConflictError{Code: code, Message: message}
}

// DependencyError wraps a failure of the store or another collaborator
type DependencyError struct {
	Code string
	Op   string
	Err  error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// NewDependencyError wraps err as a dependency failure of operation op
func NewDependencyError(op string, err error) *DependencyError {
	return &DependencyError{Code: "STORE_UNAVAILABLE", Op: op, Err: err}
}

// Error codes surfaced to clients
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidPhone         = "INVALID_PHONE"
	CodeMissingPassengerName = "MISSING_PASSENGER_NAME"
	CodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	CodeInvalidCapacity      = "INVALID_CAPACITY"
	CodeSeatOutOfRange       = "SEAT_OUT_OF_RANGE"
	CodeTripNotSellable      = "TRIP_NOT_SELLABLE"
	CodeTripNotFound         = "TRIP_NOT_FOUND"
	CodePassengerNotFound    = "PASSENGER_NOT_FOUND"
	CodeTicketNotFound       = "TICKET_NOT_FOUND"
	CodeSeatUnavailable      = "SEAT_UNAVAILABLE"
	CodeReferenceTaken       = "PAYMENT_REFERENCE_TAKEN"
	CodeReferenceExhausted   = "PAYMENT_REFERENCE_EXHAUSTED"
)
