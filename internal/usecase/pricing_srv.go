package usecase

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/money"
	"court-booking/pkg/telemetry"
	"court-booking/pkg/timerange"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type PricingService interface {
	CalculatePrice(ctx context.Context, courtID uuid.UUID, start, end time.Time) (money.Money, error)
	QuotePrice(ctx context.Context, courtID string, req *request.QuoteRequest) (*response.QuoteResponse, error)

	// Admin endpoints
	CreateRule(ctx context.Context, req *request.CreatePricingRuleRequest) (*response.PricingRuleResponse, error)
	UpdateRuleStatus(ctx context.Context, ruleID string, req *request.UpdateRuleStatusRequest) (*response.PricingRuleResponse, error)
	ListRules(ctx context.Context, req *request.PricingRuleListRequest) (*response.PaginatedResponse[response.PricingRuleResponse], error)
}

type pricingService struct {
	repo *repository.Repository
	loc  *time.Location
	now  func() time.Time
	log  *zap.Logger
}

func NewPricingService(repo *repository.Repository, config *utils.Config, log *zap.Logger) PricingService {
	return &pricingService{
		repo: repo,
		loc:  config.App.Location(),
		now:  time.Now,
		log:  log.With(zap.String("service", "pricing")),
	}
}

// sortRules orders rules by specificity desc, then creation time and id asc
func sortRules(rules []*entity.PricingRule) {
	slices.SortStableFunc(rules, func(a, b *entity.PricingRule) int {
		if a.Specificity != b.Specificity {
			return b.Specificity - a.Specificity
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}

// applyModifier returns the new running price. Percentage values are
// hundredths of a percent, fixed values are cents.
func applyModifier(price *big.Rat, rule *entity.PricingRule) *big.Rat {
	switch rule.ModifierType {
	case entity.ModifierPercentage:
		factor := new(big.Rat).Add(big.NewRat(1, 1), new(big.Rat).SetFrac64(rule.ModifierValue, 10000))
		return new(big.Rat).Mul(price, factor)
	case entity.ModifierFixed:
		return new(big.Rat).Add(price, money.Hundredths(rule.ModifierValue))
	default:
		return price
	}
}

// resolvePrice cascades the applicable rules over base * hours and rounds once
func resolvePrice(basePerHour money.Money, r timerange.Range, rules []*entity.PricingRule, loc *time.Location) money.Money {
	price := new(big.Rat).Mul(basePerHour.Rat(), r.Hours())

	ordered := slices.Clone(rules)
	sortRules(ordered)

	start := r.Start.In(loc)
	for _, rule := range ordered {
		if !rule.AppliesTo(start) {
			continue
		}
		price = applyModifier(price, rule)
		if rule.IsFinal {
			break
		}
	}

	return money.Round(price)
}

func (s *pricingService) CalculatePrice(ctx context.Context, courtID uuid.UUID, start, end time.Time) (money.Money, error) {
	r, err := timerange.New(start, end)
	if err != nil {
		return money.Zero, wrapError(ErrInvalidInput, err, "Start time must be before end time")
	}

	court, err := s.repo.Court.FindByID(ctx, courtID)
	if err != nil {
		return money.Zero, fmt.Errorf("get court: %w", err)
	}
	if court == nil {
		return money.Zero, newError(ErrNotFound, "Court not found")
	}

	return s.priceFor(ctx, court, r)
}

func (s *pricingService) priceFor(ctx context.Context, court *entity.Court, r timerange.Range) (money.Money, error) {
	rules, err := s.repo.PricingRule.FindCandidates(ctx, court.ID)
	if err != nil {
		s.log.Error("Failed to load pricing rules",
			zap.Error(err),
			zap.String("court_id", court.ID.String()))
		return money.Zero, fmt.Errorf("load pricing rules: %w", err)
	}

	price := resolvePrice(court.BasePricePerHour, r, rules, s.loc)

	s.log.Debug("Price calculated",
		zap.String("court_id", court.ID.String()),
		zap.Int("rules", len(rules)),
		zap.Stringer("price", price))

	return price, nil
}

func (s *pricingService) QuotePrice(ctx context.Context, courtID string, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "PricingService.QuotePrice")
	defer span.End()

	id, err := parseID("court", courtID)
	if err != nil {
		return nil, err
	}

	r, err := parseRange(req.StartTime, req.EndTime, s.loc)
	if err != nil {
		return nil, err
	}

	court, err := s.repo.Court.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get court: %w", err)
	}
	if court == nil {
		return nil, newError(ErrNotFound, "Court not found")
	}

	price, err := s.priceFor(ctx, court, r)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	available, err := checkAvailability(ctx, s.repo.Booking, court, r.Start, r.End)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	telemetry.SetSpanAttributes(ctx,
		attribute.String("court.id", courtID),
		attribute.Int64("price.cents", price.Cents()))

	hours, _ := r.Hours().Float64()
	return &response.QuoteResponse{
		CourtID:       court.ID.String(),
		Start:         r.Start,
		End:           r.End,
		DurationHours: hours,
		Price:         price,
		Available:     available && r.Start.After(s.now()),
	}, nil
}

// parseRange reads a start/end pair and rejects empty or inverted ranges
func parseRange(rawStart, rawEnd string, loc *time.Location) (timerange.Range, error) {
	start, err := utils.ParseTime(rawStart, loc)
	if err != nil {
		return timerange.Range{}, wrapError(ErrInvalidInput, err, "Invalid start time %q", rawStart)
	}
	end, err := utils.ParseTime(rawEnd, loc)
	if err != nil {
		return timerange.Range{}, wrapError(ErrInvalidInput, err, "Invalid end time %q", rawEnd)
	}

	r, err := timerange.New(start, end)
	if err != nil {
		return timerange.Range{}, wrapError(ErrInvalidInput, err, "Start time must be before end time")
	}
	return r, nil
}

func (s *pricingService) CreateRule(ctx context.Context, req *request.CreatePricingRuleRequest) (*response.PricingRuleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create pricing rule validation failed", zap.Any("errors", errs))
		return nil, newError(ErrInvalidInput, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	courtID, err := parseOptionalID("court", req.CourtID)
	if err != nil {
		return nil, err
	}
	if courtID != nil {
		court, err := s.repo.Court.FindByID(ctx, *courtID)
		if err != nil {
			return nil, fmt.Errorf("get court: %w", err)
		}
		if court == nil {
			return nil, newError(ErrNotFound, "Court not found")
		}
	}

	if (req.StartHour == nil) != (req.EndHour == nil) {
		return nil, newError(ErrInvalidInput, "start_hour and end_hour must be set together")
	}
	if req.StartHour != nil && *req.StartHour >= *req.EndHour {
		return nil, newError(ErrInvalidInput, "start_hour must be before end_hour")
	}

	value, err := money.ParseHundredths(req.ModifierValue.String())
	if err != nil {
		return nil, wrapError(ErrInvalidInput, err, "invalid modifier_value %q", req.ModifierValue.String())
	}

	validFrom, err := parseOptionalDate("valid_from", req.ValidFrom, s.loc)
	if err != nil {
		return nil, err
	}
	validUntil, err := parseOptionalDate("valid_until", req.ValidUntil, s.loc)
	if err != nil {
		return nil, err
	}
	if validFrom != nil && validUntil != nil && validUntil.Before(*validFrom) {
		return nil, newError(ErrInvalidInput, "valid_until must not be before valid_from")
	}

	specificity := defaultSpecificity(courtID != nil, len(req.DaysOfWeek) > 0, req.StartHour != nil)
	if req.Specificity != nil {
		specificity = *req.Specificity
	}

	rule := &entity.PricingRule{
		Base:          entity.NewBase(s.now()),
		Name:          req.Name,
		CourtID:       courtID,
		DaysOfWeek:    req.DaysOfWeek,
		StartHour:     req.StartHour,
		EndHour:       req.EndHour,
		ModifierType:  entity.ModifierType(req.ModifierType),
		ModifierValue: value,
		Specificity:   specificity,
		IsFinal:       req.IsFinal,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
		Status:        entity.RuleStatusActive,
	}

	if err := s.repo.PricingRule.Create(ctx, rule); err != nil {
		s.log.Error("Failed to create pricing rule", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create pricing rule: %w", err)
	}

	s.log.Info("Pricing rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("type", req.ModifierType),
		zap.Int("specificity", specificity))

	resp := response.PricingRuleToResponse(rule)
	return &resp, nil
}

// defaultSpecificity counts the constraints a rule carries
func defaultSpecificity(court, days, hours bool) int {
	n := 0
	for _, set := range []bool{court, days, hours} {
		if set {
			n++
		}
	}
	return n
}

func parseOptionalDate(name string, raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(*raw, loc)
	if err != nil {
		return nil, wrapError(ErrInvalidInput, err, "invalid %s %q, use YYYY-MM-DD", name, *raw)
	}
	return &t, nil
}

func (s *pricingService) UpdateRuleStatus(ctx context.Context, ruleID string, req *request.UpdateRuleStatusRequest) (*response.PricingRuleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newError(ErrInvalidInput, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := parseID("pricing rule", ruleID)
	if err != nil {
		return nil, err
	}

	rule, err := s.repo.PricingRule.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get pricing rule: %w", err)
	}
	if rule == nil {
		return nil, newError(ErrNotFound, "Pricing rule not found")
	}

	status := entity.RuleStatus(req.Status)
	if err := s.repo.PricingRule.UpdateStatus(ctx, id, status); err != nil {
		s.log.Error("Failed to update pricing rule status", zap.Error(err), zap.String("rule_id", ruleID))
		return nil, fmt.Errorf("update pricing rule status: %w", err)
	}
	rule.Status = status
	rule.UpdatedAt = s.now()

	s.log.Info("Pricing rule status updated", zap.String("rule_id", ruleID), zap.String("status", req.Status))

	resp := response.PricingRuleToResponse(rule)
	return &resp, nil
}

func (s *pricingService) ListRules(ctx context.Context, req *request.PricingRuleListRequest) (*response.PaginatedResponse[response.PricingRuleResponse], error) {
	var courtID *uuid.UUID
	if req.CourtID != "" {
		id, err := parseID("court", req.CourtID)
		if err != nil {
			return nil, err
		}
		courtID = &id
	}

	rules, err := s.repo.PricingRule.List(ctx, courtID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}

	total, err := s.repo.PricingRule.Count(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("count pricing rules: %w", err)
	}

	data := make([]response.PricingRuleResponse, 0, len(rules))
	for _, r := range rules {
		data = append(data, response.PricingRuleToResponse(r))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}
