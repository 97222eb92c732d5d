package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentTransactionStatus is the state of an audit record
type PaymentTransactionStatus string

const (
	PaymentTransactionCompleted PaymentTransactionStatus = "completed"
	PaymentTransactionPending   PaymentTransactionStatus = "pending"
)

// PaymentTransaction is an append-only audit record of a ticket payment
type PaymentTransaction struct {
	ID            uuid.UUID                `json:"id" db:"id"`
	TicketID      uuid.UUID                `json:"ticket_id" db:"ticket_id"`
	AmountUSD     decimal.Decimal          `json:"amount_usd" db:"amount_usd"`
	Currency      string                   `json:"currency" db:"currency"`
	PaymentMethod PaymentMethod            `json:"payment_method" db:"payment_method"`
	TransactionID *string                  `json:"transaction_id,omitempty" db:"transaction_id"`
	Status        PaymentTransactionStatus `json:"status" db:"status"`
	CreatedAt     time.Time                `json:"created_at" db:"created_at"`
}
