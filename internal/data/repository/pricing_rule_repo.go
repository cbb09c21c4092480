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

type PricingRuleRepository interface {
	Create(ctx context.Context, rule *entity.PricingRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error)
	// FindCandidates returns active rules for the court plus global rules, in
	// application order: specificity desc, created_at asc, id asc.
	FindCandidates(ctx context.Context, courtID uuid.UUID) ([]*entity.PricingRule, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RuleStatus) error
	List(ctx context.Context, courtID *uuid.UUID, limit, offset int) ([]*entity.PricingRule, error)
	Count(ctx context.Context, courtID *uuid.UUID) (int64, error)
}

type pricingRuleRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPricingRuleRepository(db database.Querier, log *zap.Logger) PricingRuleRepository {
	return &pricingRuleRepository{
		db:  db,
		log: log.With(zap.String("repository", "pricing_rule")),
	}
}

const pricingRuleColumns = `id, name, court_id, COALESCE(days_of_week, '{}'), start_hour, end_hour,
		modifier_type, modifier_value, specificity, is_final, valid_from, valid_until, status,
		created_at, updated_at`

func scanPricingRule(row pgx.Row) (*entity.PricingRule, error) {
	var rule entity.PricingRule
	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.CourtID,
		&rule.DaysOfWeek,
		&rule.StartHour,
		&rule.EndHour,
		&rule.ModifierType,
		&rule.ModifierValue,
		&rule.Specificity,
		&rule.IsFinal,
		&rule.ValidFrom,
		&rule.ValidUntil,
		&rule.Status,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *pricingRuleRepository) collect(rows pgx.Rows) ([]*entity.PricingRule, error) {
	defer rows.Close()

	var rules []*entity.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			r.log.Error("Failed to scan pricing rule row", zap.Error(err))
			return nil, fmt.Errorf("scan pricing rule row: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func (r *pricingRuleRepository) Create(ctx context.Context, rule *entity.PricingRule) error {
	query := `
		INSERT INTO pricing_rules (id, name, court_id, days_of_week, start_hour, end_hour,
			modifier_type, modifier_value, specificity, is_final, valid_from, valid_until, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	days := rule.DaysOfWeek
	if days == nil {
		days = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		rule.ID,
		rule.Name,
		rule.CourtID,
		days,
		rule.StartHour,
		rule.EndHour,
		rule.ModifierType,
		rule.ModifierValue,
		rule.Specificity,
		rule.IsFinal,
		rule.ValidFrom,
		rule.ValidUntil,
		rule.Status,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create pricing rule",
			zap.Error(err),
			zap.String("name", rule.Name),
		)
		return fmt.Errorf("create pricing rule %s: %w", rule.Name, err)
	}

	return nil
}

func (r *pricingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE id = $1`

	rule, err := scanPricingRule(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pricing rule by ID",
			zap.Error(err),
			zap.String("rule_id", id.String()),
		)
		return nil, fmt.Errorf("find pricing rule by ID %s: %w", id.String(), err)
	}

	return rule, nil
}

func (r *pricingRuleRepository) FindCandidates(ctx context.Context, courtID uuid.UUID) ([]*entity.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE (court_id IS NULL OR court_id = $1)
		  AND status = 'active'
		ORDER BY specificity DESC, created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, courtID)
	if err != nil {
		r.log.Error("Failed to find pricing rule candidates",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("find pricing rules for court %s: %w", courtID.String(), err)
	}

	return r.collect(rows)
}

func (r *pricingRuleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RuleStatus) error {
	query := `UPDATE pricing_rules SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update pricing rule status",
			zap.Error(err),
			zap.String("rule_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update pricing rule %s status to %s: %w", id.String(), status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pricing rule %s not found", id.String())
	}

	return nil
}

func (r *pricingRuleRepository) List(ctx context.Context, courtID *uuid.UUID, limit, offset int) ([]*entity.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE ($1::uuid IS NULL OR court_id = $1)
		ORDER BY specificity DESC, created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, courtID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list pricing rules", zap.Error(err))
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}

	return r.collect(rows)
}

func (r *pricingRuleRepository) Count(ctx context.Context, courtID *uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM pricing_rules WHERE ($1::uuid IS NULL OR court_id = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, courtID).Scan(&count); err != nil {
		r.log.Error("Failed to count pricing rules", zap.Error(err))
		return 0, fmt.Errorf("count pricing rules: %w", err)
	}

	return count, nil
}
