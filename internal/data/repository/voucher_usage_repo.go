package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VoucherUsageRepository is append-only
type VoucherUsageRepository interface {
	Create(ctx context.Context, usage *entity.VoucherUsage) error
	FindByVoucherID(ctx context.Context, voucherID uuid.UUID) ([]*entity.VoucherUsage, error)
}

type voucherUsageRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewVoucherUsageRepository(db database.Querier, log *zap.Logger) VoucherUsageRepository {
	return &voucherUsageRepository{
		db:  db,
		log: log.With(zap.String("repository", "voucher_usage")),
	}
}

func (r *voucherUsageRepository) Create(ctx context.Context, usage *entity.VoucherUsage) error {
	query := `
		INSERT INTO voucher_usages (id, voucher_id, booking_id, user_id, used_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		usage.ID,
		usage.VoucherID,
		usage.BookingID,
		usage.UserID,
		usage.UsedAt,
	)
	if err != nil {
		r.log.Error("Failed to record voucher usage",
			zap.Error(err),
			zap.String("voucher_id", usage.VoucherID.String()),
			zap.String("booking_id", usage.BookingID.String()),
		)
		return fmt.Errorf("record usage of voucher %s: %w", usage.VoucherID.String(), err)
	}

	return nil
}

func (r *voucherUsageRepository) FindByVoucherID(ctx context.Context, voucherID uuid.UUID) ([]*entity.VoucherUsage, error) {
	query := `
		SELECT id, voucher_id, booking_id, user_id, used_at
		FROM voucher_usages
		WHERE voucher_id = $1
		ORDER BY used_at
	`

	rows, err := r.db.Query(ctx, query, voucherID)
	if err != nil {
		r.log.Error("Failed to find voucher usages",
			zap.Error(err),
			zap.String("voucher_id", voucherID.String()),
		)
		return nil, fmt.Errorf("find usages of voucher %s: %w", voucherID.String(), err)
	}
	defer rows.Close()

	var usages []*entity.VoucherUsage
	for rows.Next() {
		var u entity.VoucherUsage
		if err := rows.Scan(&u.ID, &u.VoucherID, &u.BookingID, &u.UserID, &u.UsedAt); err != nil {
			r.log.Error("Failed to scan voucher usage row", zap.Error(err))
			return nil, fmt.Errorf("scan voucher usage row: %w", err)
		}
		usages = append(usages, &u)
	}

	return usages, rows.Err()
}
