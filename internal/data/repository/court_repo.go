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

type CourtRepository interface {
	Create(ctx context.Context, court *entity.Court) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error)
	Update(ctx context.Context, court *entity.Court) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.CourtStatus) error

	// activeOnly restricts to status = 'active'
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Court, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type courtRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCourtRepository(db database.Querier, log *zap.Logger) CourtRepository {
	return &courtRepository{
		db:  db,
		log: log.With(zap.String("repository", "court")),
	}
}

const courtColumns = `id, name, court_type, indoor, has_lighting, description, base_price_per_hour,
		status, open_hour, close_hour, created_at, updated_at`

func scanCourt(row pgx.Row) (*entity.Court, error) {
	var court entity.Court
	err := row.Scan(
		&court.ID,
		&court.Name,
		&court.CourtType,
		&court.Indoor,
		&court.HasLighting,
		&court.Description,
		&court.BasePricePerHour,
		&court.Status,
		&court.OpenHour,
		&court.CloseHour,
		&court.CreatedAt,
		&court.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &court, nil
}

func (r *courtRepository) Create(ctx context.Context, court *entity.Court) error {
	query := `
		INSERT INTO courts (` + courtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		court.ID,
		court.Name,
		court.CourtType,
		court.Indoor,
		court.HasLighting,
		court.Description,
		court.BasePricePerHour,
		court.Status,
		court.OpenHour,
		court.CloseHour,
		court.CreatedAt,
		court.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create court",
			zap.Error(err),
			zap.String("name", court.Name),
		)
		return fmt.Errorf("create court %s: %w", court.Name, err)
	}

	return nil
}

func (r *courtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE id = $1`

	court, err := scanCourt(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find court by ID",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return nil, fmt.Errorf("find court by ID %s: %w", id.String(), err)
	}

	return court, nil
}

func (r *courtRepository) Update(ctx context.Context, court *entity.Court) error {
	query := `
		UPDATE courts
		SET name = $2, court_type = $3, indoor = $4, has_lighting = $5, description = $6,
		    base_price_per_hour = $7, status = $8, open_hour = $9, close_hour = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		court.ID,
		court.Name,
		court.CourtType,
		court.Indoor,
		court.HasLighting,
		court.Description,
		court.BasePricePerHour,
		court.Status,
		court.OpenHour,
		court.CloseHour,
		court.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update court",
			zap.Error(err),
			zap.String("court_id", court.ID.String()),
		)
		return fmt.Errorf("update court %s: %w", court.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s not found", court.ID.String())
	}

	return nil
}

func (r *courtRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.CourtStatus) error {
	query := `UPDATE courts SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update court status",
			zap.Error(err),
			zap.String("court_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update court %s status to %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s not found", id.String())
	}

	return nil
}

func (r *courtRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Court, error) {
	query := `
		SELECT ` + courtColumns + `
		FROM courts
		WHERE (NOT $1::boolean OR status = 'active')
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, activeOnly, limit, offset)
	if err != nil {
		r.log.Error("Failed to list courts", zap.Error(err))
		return nil, fmt.Errorf("list courts: %w", err)
	}
	defer rows.Close()

	var courts []*entity.Court
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			r.log.Error("Failed to scan court row", zap.Error(err))
			return nil, fmt.Errorf("scan court row: %w", err)
		}
		courts = append(courts, court)
	}

	return courts, rows.Err()
}

func (r *courtRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM courts WHERE (NOT $1::boolean OR status = 'active')`

	var count int64
	if err := r.db.QueryRow(ctx, query, activeOnly).Scan(&count); err != nil {
		r.log.Error("Failed to count courts", zap.Error(err))
		return 0, fmt.Errorf("count courts: %w", err)
	}

	return count, nil
}
