package repository

import (
	"context"
	"errors"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TransactionStatus) error
}

type transactionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTransactionRepository(db database.Querier, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, booking_id, amount, payment_reference, payment_method, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		txn.ID,
		txn.BookingID,
		txn.Amount,
		txn.PaymentReference,
		txn.PaymentMethod,
		txn.Status,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("booking_id", txn.BookingID.String()),
			zap.String("payment_reference", txn.PaymentReference),
		)
		return fmt.Errorf("create transaction for booking %s: %w", txn.BookingID.String(), err)
	}

	return nil
}

func (r *transactionRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Transaction, error) {
	query := `
		SELECT id, booking_id, amount, payment_reference, payment_method, status, created_at, updated_at
		FROM transactions
		WHERE booking_id = $1
	`

	var txn entity.Transaction
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&txn.ID,
		&txn.BookingID,
		&txn.Amount,
		&txn.PaymentReference,
		&txn.PaymentMethod,
		&txn.Status,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find transaction by booking ID %s: %w", bookingID.String(), err)
	}

	return &txn, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TransactionStatus) error {
	query := `UPDATE transactions SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update transaction status",
			zap.Error(err),
			zap.String("transaction_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update transaction %s status to %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found", id.String())
	}

	return nil
}
