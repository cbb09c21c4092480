package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingScope splits a user's bookings around now
type BookingScope string

const (
	ScopeAll      BookingScope = "all"
	ScopeUpcoming BookingScope = "upcoming"
	ScopePast     BookingScope = "past"
)

// BookingFilter narrows admin listings; nil fields match everything
type BookingFilter struct {
	CourtID *uuid.UUID
	UserID  *uuid.UUID
	Status  *entity.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// Availability queries only ever consider non-cancelled bookings
	FindOverlapping(ctx context.Context, courtID uuid.UUID, start, end time.Time) ([]*entity.Booking, error)
	FindByCourtInRange(ctx context.Context, courtID uuid.UUID, from, to time.Time) ([]*entity.Booking, error)

	// LockCourt serialises writers on a court until the surrounding transaction ends
	LockCourt(ctx context.Context, courtID uuid.UUID) error

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
	// TransitionStatus updates only when the current status is from
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error)

	FindByUserID(ctx context.Context, userID uuid.UUID, scope BookingScope, now time.Time, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, scope BookingScope, now time.Time) (int64, error)
	List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, court_id, start_time, end_time, status, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CourtID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.CourtID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if pgErrCode(err) == pgExclusionViolation {
		r.log.Warn("Booking rejected by overlap constraint",
			zap.String("court_id", booking.CourtID.String()),
			zap.Time("start_time", booking.StartTime),
			zap.Time("end_time", booking.EndTime),
		)
		return ErrBookingOverlap
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("court_id", booking.CourtID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, courtID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE court_id = $1
		  AND status <> 'cancelled'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, courtID, start, end)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("find overlapping bookings for court %s: %w", courtID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) FindByCourtInRange(ctx context.Context, courtID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	return r.FindOverlapping(ctx, courtID, from, to)
}

func (r *bookingRepository) LockCourt(ctx context.Context, courtID uuid.UUID) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended('court:' || $1::text, 0))`

	if _, err := r.db.Exec(ctx, query, courtID.String()); err != nil {
		r.log.Error("Failed to lock court",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return fmt.Errorf("lock court %s: %w", courtID.String(), err)
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to transition booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("transition booking %s from %s to %s: %w", id.String(), from, to, err)
	}

	return result.RowsAffected() == 1, nil
}

// scopeClause keeps $1 = user_id and $2 = now
func scopeClause(scope BookingScope) (where, order string) {
	switch scope {
	case ScopeUpcoming:
		return `user_id = $1 AND end_time >= $2`, `start_time ASC`
	case ScopePast:
		return `user_id = $1 AND end_time < $2`, `start_time DESC`
	default:
		return `user_id = $1 AND $2::timestamptz IS NOT NULL`, `start_time DESC`
	}
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, scope BookingScope, now time.Time, limit, offset int) ([]*entity.Booking, error) {
	where, order := scopeClause(scope)
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + where + `
		ORDER BY ` + order + `, id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, now, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("scope", string(scope)),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID, scope BookingScope, now time.Time) (int64, error) {
	where, _ := scopeClause(scope)
	query := `SELECT COUNT(*) FROM bookings WHERE ` + where

	var count int64
	if err := r.db.QueryRow(ctx, query, userID, now).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

const bookingFilterClause = `
		($1::uuid IS NULL OR court_id = $1)
		AND ($2::uuid IS NULL OR user_id = $2)
		AND ($3::text IS NULL OR status = $3)`

func (f BookingFilter) args() []any {
	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}
	return []any{f.CourtID, f.UserID, status}
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + bookingFilterClause + `
		ORDER BY start_time DESC, id
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.Query(ctx, query, append(filter.args(), limit, offset)...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE ` + bookingFilterClause

	var count int64
	if err := r.db.QueryRow(ctx, query, filter.args()...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}
