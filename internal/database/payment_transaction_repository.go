package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/models"
)

// PaymentTransactionRepository appends payment audit records
type PaymentTransactionRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPaymentTransactionRepository creates a new payment transaction repository
func NewPaymentTransactionRepository(db *sqlx.DB, logger *logrus.Logger) *PaymentTransactionRepository {
	return &PaymentTransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a payment transaction. Records are never updated.
func (r *PaymentTransactionRepository) Create(ctx context.Context, txn *models.PaymentTransaction) error {
	if txn == nil {
		return fmt.Errorf("payment transaction cannot be nil")
	}

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_transactions (
			id, ticket_id, amount_usd, currency,
			payment_method, transaction_id, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.TicketID, txn.AmountUSD, txn.Currency,
		txn.PaymentMethod, txn.TransactionID, txn.Status, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment transaction: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"ticket_id":      txn.TicketID,
		"status":         txn.Status,
		"amount_usd":     txn.AmountUSD.String(),
	}).Info("Payment transaction recorded")

	return nil
}

// ListByTicket returns the audit trail of a ticket, oldest first
func (r *PaymentTransactionRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]models.PaymentTransaction, error) {
	txns := []models.PaymentTransaction{}
	err := r.db.SelectContext(ctx, &txns, `
		SELECT id, ticket_id, amount_usd, currency, payment_method, transaction_id, status, created_at
		FROM payment_transactions
		WHERE ticket_id = $1
		ORDER BY created_at ASC`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}
	return txns, nil
}
