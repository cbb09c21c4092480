package repository

import (
	"context"
	"errors"

	"court-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrBookingOverlap is raised by the bookings_no_overlap exclusion constraint
	ErrBookingOverlap = errors.New("booking overlaps an existing booking")
	// ErrDuplicateCode is raised when a voucher code is already taken
	ErrDuplicateCode = errors.New("voucher code already exists")
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

type Repository struct {
	Court        CourtRepository
	Booking      BookingRepository
	Transaction  TransactionRepository
	PricingRule  PricingRuleRepository
	Voucher      VoucherRepository
	VoucherUsage VoucherUsageRepository
	Tx           Transactor
}

// Transactor runs fn against repositories bound to a single transaction.
// An error from fn rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.Tx = &pgxTransactor{db: db, log: log}
	return repo
}

func newRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Court:        NewCourtRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Transaction:  NewTransactionRepository(db, log),
		PricingRule:  NewPricingRuleRepository(db, log),
		Voucher:      NewVoucherRepository(db, log),
		VoucherUsage: NewVoucherUsageRepository(db, log),
	}
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	return database.InTx(ctx, t.db, func(tx pgx.Tx) error {
		txRepo := newRepository(tx, t.log)
		txRepo.Tx = joinedTx{repo: txRepo}
		return fn(txRepo)
	})
}

// joinedTx reuses the already open transaction for nested calls
type joinedTx struct {
	repo *Repository
}

func (j joinedTx) WithinTx(_ context.Context, fn func(repo *Repository) error) error {
	return fn(j.repo)
}
