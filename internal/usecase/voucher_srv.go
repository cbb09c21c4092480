package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/telemetry"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	defaultVoucherMaxUses = 1
	voucherCodeAttempts   = 5
)

type VoucherService interface {
	// Redeem locks the voucher, re-checks it and records one use atomically
	Redeem(ctx context.Context, code string, bookingID, userID uuid.UUID, courtID *uuid.UUID) (*entity.Voucher, error)
	VerifyVoucher(ctx context.Context, req *request.VerifyVoucherRequest) (*response.VerifyVoucherResponse, error)

	// Admin endpoints
	CreateVoucher(ctx context.Context, actor utils.Actor, req *request.CreateVoucherRequest) (*response.VoucherResponse, error)
	DeactivateVoucher(ctx context.Context, voucherID string) (*response.VoucherResponse, error)
	ListVouchers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.VoucherResponse], error)
}

type voucherService struct {
	repo *repository.Repository
	loc  *time.Location
	now  func() time.Time
	log  *zap.Logger
}

func NewVoucherService(repo *repository.Repository, config *utils.Config, log *zap.Logger) VoucherService {
	return &voucherService{
		repo: repo,
		loc:  config.App.Location(),
		now:  time.Now,
		log:  log.With(zap.String("service", "voucher")),
	}
}

// IsValid reports whether the voucher can be redeemed for courtID at now
func IsValid(v *entity.Voucher, courtID *uuid.UUID, now time.Time) bool {
	return InvalidReason(v, courtID, now) == ""
}

// InvalidReason returns the first failing check as a message, or "" when valid
func InvalidReason(v *entity.Voucher, courtID *uuid.UUID, now time.Time) string {
	switch {
	case v.Status != entity.VoucherStatusActive:
		return "This voucher is no longer active"
	case v.CurrentUses >= v.MaxUses:
		return "This voucher has reached its usage limit"
	case v.ValidUntil != nil && now.After(*v.ValidUntil):
		return "This voucher has expired"
	case v.ValidFrom != nil && now.Before(*v.ValidFrom):
		return "This voucher is not valid yet"
	case v.CourtID != nil && courtID != nil && *v.CourtID != *courtID:
		return "This voucher is not valid for this court"
	}
	return ""
}

// redeemVoucher does the redemption against repositories already bound to a
// transaction.
func redeemVoucher(ctx context.Context, repo *repository.Repository, code string, bookingID, userID uuid.UUID, courtID *uuid.UUID, now time.Time) (*entity.Voucher, error) {
	voucher, err := repo.Voucher.FindByCodeForUpdate(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lock voucher: %w", err)
	}
	if voucher == nil {
		return nil, newError(ErrNotFound, "Invalid voucher code")
	}

	if reason := InvalidReason(voucher, courtID, now); reason != "" {
		return nil, newError(ErrConflict, "%s", reason)
	}

	usage := &entity.VoucherUsage{
		ID:        uuid.New(),
		VoucherID: voucher.ID,
		BookingID: bookingID,
		UserID:    userID,
		UsedAt:    now,
	}
	if err := repo.VoucherUsage.Create(ctx, usage); err != nil {
		return nil, fmt.Errorf("record voucher usage: %w", err)
	}

	updated, err := repo.Voucher.IncrementUsage(ctx, voucher.ID)
	if err != nil {
		return nil, fmt.Errorf("increment voucher usage: %w", err)
	}

	return updated, nil
}

func (s *voucherService) Redeem(ctx context.Context, code string, bookingID, userID uuid.UUID, courtID *uuid.UUID) (*entity.Voucher, error) {
	ctx, span := telemetry.StartSpan(ctx, "VoucherService.Redeem")
	defer span.End()

	var redeemed *entity.Voucher
	err := s.repo.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		v, err := redeemVoucher(ctx, repo, code, bookingID, userID, courtID, s.now())
		if err != nil {
			return err
		}
		redeemed = v
		return nil
	})
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		s.log.Warn("Voucher redemption failed",
			zap.Error(err),
			zap.String("code", code),
			zap.String("booking_id", bookingID.String()))
		return nil, err
	}

	s.log.Info("Voucher redeemed",
		zap.String("voucher_id", redeemed.ID.String()),
		zap.Int("current_uses", redeemed.CurrentUses),
		zap.String("status", string(redeemed.Status)))

	return redeemed, nil
}

func (s *voucherService) VerifyVoucher(ctx context.Context, req *request.VerifyVoucherRequest) (*response.VerifyVoucherResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return &response.VerifyVoucherResponse{Valid: false, Message: "Please enter a voucher code"}, nil
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newError(ErrInvalidInput, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	courtID, err := parseOptionalID("court", req.CourtID)
	if err != nil {
		return nil, err
	}

	voucher, err := s.repo.Voucher.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if voucher == nil {
		return &response.VerifyVoucherResponse{Valid: false, Code: code, Message: "Invalid voucher code"}, nil
	}

	if reason := InvalidReason(voucher, courtID, s.now()); reason != "" {
		return &response.VerifyVoucherResponse{Valid: false, Code: voucher.Code, Message: reason}, nil
	}

	value := voucher.Value
	return &response.VerifyVoucherResponse{
		Valid:   true,
		Code:    voucher.Code,
		Value:   &value,
		Message: fmt.Sprintf("Voucher applied: $%s discount", value),
	}, nil
}

func (s *voucherService) CreateVoucher(ctx context.Context, actor utils.Actor, req *request.CreateVoucherRequest) (*response.VoucherResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create voucher validation failed", zap.Any("errors", errs))
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

	validFrom, err := s.parseBound("valid_from", req.ValidFrom, false)
	if err != nil {
		return nil, err
	}
	validUntil, err := s.parseBound("valid_until", req.ValidUntil, true)
	if err != nil {
		return nil, err
	}
	if validFrom != nil && validUntil != nil && !validFrom.Before(*validUntil) {
		return nil, newError(ErrInvalidInput, "valid_from must be before valid_until")
	}

	maxUses := defaultVoucherMaxUses
	if req.MaxUses != nil {
		maxUses = *req.MaxUses
	}

	creator := actor.UserID
	voucher := &entity.Voucher{
		Base:       entity.NewBase(s.now()),
		Value:      req.Value,
		CourtID:    courtID,
		CreatorID:  &creator,
		MaxUses:    maxUses,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
		Status:     entity.VoucherStatusActive,
	}

	for attempt := 1; ; attempt++ {
		code, err := utils.GenerateVoucherCode()
		if err != nil {
			return nil, fmt.Errorf("generate voucher code: %w", err)
		}
		voucher.Code = code

		err = s.repo.Voucher.Create(ctx, voucher)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateCode) && attempt < voucherCodeAttempts {
			s.log.Debug("Voucher code collision, retrying", zap.Int("attempt", attempt))
			continue
		}
		return nil, fmt.Errorf("create voucher: %w", err)
	}

	s.log.Info("Voucher created",
		zap.String("voucher_id", voucher.ID.String()),
		zap.String("code", voucher.Code),
		zap.Stringer("value", voucher.Value),
		zap.Int("max_uses", maxUses))

	telemetry.SetSpanAttributes(ctx, attribute.String("voucher.code", voucher.Code))

	resp := response.VoucherToResponse(voucher)
	return &resp, nil
}

// parseBound reads an RFC3339 or date-only bound. A date-only upper bound
// covers the whole day.
func (s *voucherService) parseBound(name string, raw *string, upper bool) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if d, err := utils.ParseDate(*raw, s.loc); err == nil {
		if upper {
			d = utils.EndOfDay(d)
		}
		return &d, nil
	}
	t, err := utils.ParseTime(*raw, s.loc)
	if err != nil {
		return nil, wrapError(ErrInvalidInput, err, "invalid %s %q", name, *raw)
	}
	return &t, nil
}

func (s *voucherService) DeactivateVoucher(ctx context.Context, voucherID string) (*response.VoucherResponse, error) {
	id, err := parseID("voucher", voucherID)
	if err != nil {
		return nil, err
	}

	voucher, err := s.repo.Voucher.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if voucher == nil {
		return nil, newError(ErrNotFound, "Voucher not found")
	}

	if err := s.repo.Voucher.UpdateStatus(ctx, id, entity.VoucherStatusInactive); err != nil {
		return nil, fmt.Errorf("deactivate voucher: %w", err)
	}
	voucher.Status = entity.VoucherStatusInactive
	voucher.UpdatedAt = s.now()

	s.log.Info("Voucher deactivated", zap.String("voucher_id", voucherID))

	resp := response.VoucherToResponse(voucher)
	return &resp, nil
}

func (s *voucherService) ListVouchers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.VoucherResponse], error) {
	vouchers, err := s.repo.Voucher.List(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}

	total, err := s.repo.Voucher.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count vouchers: %w", err)
	}

	data := make([]response.VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		data = append(data, response.VoucherToResponse(v))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}
