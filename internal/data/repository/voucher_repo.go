package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VoucherRepository interface {
	Create(ctx context.Context, voucher *entity.Voucher) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error)
	FindByCode(ctx context.Context, code string) (*entity.Voucher, error)
	// FindByCodeForUpdate row-locks the voucher; call inside a transaction
	FindByCodeForUpdate(ctx context.Context, code string) (*entity.Voucher, error)
	// IncrementUsage bumps current_uses and marks the voucher depleted once full
	IncrementUsage(ctx context.Context, id uuid.UUID) (*entity.Voucher, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VoucherStatus) error
	List(ctx context.Context, limit, offset int) ([]*entity.Voucher, error)
	Count(ctx context.Context) (int64, error)
}

type voucherRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewVoucherRepository(db database.Querier, log *zap.Logger) VoucherRepository {
	return &voucherRepository{
		db:  db,
		log: log.With(zap.String("repository", "voucher")),
	}
}

const voucherColumns = `id, code, value, court_id, creator_id, max_uses, current_uses,
		valid_from, valid_until, status, created_at, updated_at`

func scanVoucher(row pgx.Row) (*entity.Voucher, error) {
	var v entity.Voucher
	err := row.Scan(
		&v.ID,
		&v.Code,
		&v.Value,
		&v.CourtID,
		&v.CreatorID,
		&v.MaxUses,
		&v.CurrentUses,
		&v.ValidFrom,
		&v.ValidUntil,
		&v.Status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		voucher.ID,
		strings.ToUpper(voucher.Code),
		voucher.Value,
		voucher.CourtID,
		voucher.CreatorID,
		voucher.MaxUses,
		voucher.CurrentUses,
		voucher.ValidFrom,
		voucher.ValidUntil,
		voucher.Status,
		voucher.CreatedAt,
		voucher.UpdatedAt,
	)
	if pgErrCode(err) == pgUniqueViolation {
		return ErrDuplicateCode
	}
	if err != nil {
		r.log.Error("Failed to create voucher",
			zap.Error(err),
			zap.String("code", voucher.Code),
		)
		return fmt.Errorf("create voucher %s: %w", voucher.Code, err)
	}

	return nil
}

func (r *voucherRepository) findOne(ctx context.Context, query string, arg any) (*entity.Voucher, error) {
	voucher, err := scanVoucher(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find voucher",
			zap.Error(err),
			zap.Any("key", arg),
		)
		return nil, fmt.Errorf("find voucher %v: %w", arg, err)
	}
	return voucher, nil
}

func (r *voucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	return r.findOne(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id)
}

func (r *voucherRepository) FindByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	return r.findOne(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE code = $1`,
		strings.ToUpper(strings.TrimSpace(code)))
}

func (r *voucherRepository) FindByCodeForUpdate(ctx context.Context, code string) (*entity.Voucher, error) {
	return r.findOne(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE code = $1 FOR UPDATE`,
		strings.ToUpper(strings.TrimSpace(code)))
}

func (r *voucherRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	query := `
		UPDATE vouchers
		SET current_uses = current_uses + 1,
		    status = CASE WHEN current_uses + 1 >= max_uses THEN 'depleted' ELSE status END,
		    updated_at = NOW()
		WHERE id = $1 AND current_uses < max_uses
		RETURNING ` + voucherColumns

	voucher, err := scanVoucher(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("voucher %s has no remaining uses", id.String())
	}
	if err != nil {
		r.log.Error("Failed to increment voucher usage",
			zap.Error(err),
			zap.String("voucher_id", id.String()),
		)
		return nil, fmt.Errorf("increment voucher %s usage: %w", id.String(), err)
	}

	return voucher, nil
}

func (r *voucherRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VoucherStatus) error {
	query := `UPDATE vouchers SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update voucher status",
			zap.Error(err),
			zap.String("voucher_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update voucher %s status to %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("voucher %s not found", id.String())
	}

	return nil
}

func (r *voucherRepository) List(ctx context.Context, limit, offset int) ([]*entity.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list vouchers", zap.Error(err))
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []*entity.Voucher
	for rows.Next() {
		voucher, err := scanVoucher(rows)
		if err != nil {
			r.log.Error("Failed to scan voucher row", zap.Error(err))
			return nil, fmt.Errorf("scan voucher row: %w", err)
		}
		vouchers = append(vouchers, voucher)
	}

	return vouchers, rows.Err()
}

func (r *voucherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers`).Scan(&count); err != nil {
		r.log.Error("Failed to count vouchers", zap.Error(err))
		return 0, fmt.Errorf("count vouchers: %w", err)
	}
	return count, nil
}
