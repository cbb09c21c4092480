package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

const defaultCourtType = "hard"

type CourtService interface {
	// Public endpoints
	GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error)
	ListCourts(ctx context.Context, req *request.CourtListRequest) (*response.PaginatedResponse[response.CourtResponse], error)

	// Admin endpoints
	CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error)
	UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error)
	DeactivateCourt(ctx context.Context, courtID string) (*response.CourtResponse, error)
}

type courtService struct {
	repo   *repository.Repository
	config *utils.Config
	now    func() time.Time
	log    *zap.Logger
}

func NewCourtService(repo *repository.Repository, config *utils.Config, log *zap.Logger) CourtService {
	return &courtService{
		repo:   repo,
		config: config,
		now:    time.Now,
		log:    log.With(zap.String("service", "court")),
	}
}

func validHours(openHour, closeHour int) bool {
	return openHour >= 0 && closeHour <= 24 && openHour < closeHour
}

func (s *courtService) CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create court validation failed", zap.Any("errors", errs))
		return nil, newError(ErrInvalidInput, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	openHour, closeHour := s.config.Booking.OpenHour, s.config.Booking.CloseHour
	if !validHours(openHour, closeHour) {
		openHour, closeHour = entity.DefaultOpenHour, entity.DefaultCloseHour
	}
	if req.OpenHour != nil {
		openHour = *req.OpenHour
	}
	if req.CloseHour != nil {
		closeHour = *req.CloseHour
	}
	if !validHours(openHour, closeHour) {
		return nil, newError(ErrInvalidInput, "open_hour must be before close_hour")
	}

	courtType := req.CourtType
	if courtType == "" {
		courtType = defaultCourtType
	}

	court := &entity.Court{
		Base:             entity.NewBase(s.now()),
		Name:             req.Name,
		CourtType:        courtType,
		Indoor:           req.Indoor,
		HasLighting:      req.HasLighting,
		Description:      req.Description,
		BasePricePerHour: req.BasePricePerHour,
		Status:           entity.CourtStatusActive,
		OpenHour:         openHour,
		CloseHour:        closeHour,
	}

	if err := s.repo.Court.Create(ctx, court); err != nil {
		s.log.Error("Failed to create court", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create court: %w", err)
	}

	s.log.Info("Court created",
		zap.String("court_id", court.ID.String()),
		zap.String("name", court.Name),
		zap.Stringer("base_price_per_hour", court.BasePricePerHour))

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) findCourt(ctx context.Context, courtID string) (*entity.Court, error) {
	id, err := parseID("court", courtID)
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
	return court, nil
}

func (s *courtService) UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newError(ErrInvalidInput, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		court.Name = *req.Name
	}
	if req.CourtType != nil {
		court.CourtType = *req.CourtType
	}
	if req.Indoor != nil {
		court.Indoor = *req.Indoor
	}
	if req.HasLighting != nil {
		court.HasLighting = *req.HasLighting
	}
	if req.Description != nil {
		court.Description = req.Description
	}
	if req.BasePricePerHour != nil {
		court.BasePricePerHour = *req.BasePricePerHour
	}
	if req.Status != nil {
		court.Status = entity.CourtStatus(*req.Status)
	}
	if req.OpenHour != nil {
		court.OpenHour = *req.OpenHour
	}
	if req.CloseHour != nil {
		court.CloseHour = *req.CloseHour
	}
	if !validHours(court.OpenHour, court.CloseHour) {
		return nil, newError(ErrInvalidInput, "open_hour must be before close_hour")
	}
	court.UpdatedAt = s.now()

	if err := s.repo.Court.Update(ctx, court); err != nil {
		s.log.Error("Failed to update court", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("update court: %w", err)
	}

	s.log.Info("Court updated", zap.String("court_id", courtID))

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) DeactivateCourt(ctx context.Context, courtID string) (*response.CourtResponse, error) {
	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Court.UpdateStatus(ctx, court.ID, entity.CourtStatusInactive); err != nil {
		s.log.Error("Failed to deactivate court", zap.Error(err), zap.String("court_id", courtID))
		return nil, fmt.Errorf("deactivate court: %w", err)
	}
	court.Status = entity.CourtStatusInactive
	court.UpdatedAt = s.now()

	s.log.Info("Court deactivated", zap.String("court_id", courtID))

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error) {
	court, err := s.findCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) ListCourts(ctx context.Context, req *request.CourtListRequest) (*response.PaginatedResponse[response.CourtResponse], error) {
	activeOnly := !req.IncludeInactive

	courts, err := s.repo.Court.List(ctx, activeOnly, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list courts", zap.Error(err))
		return nil, fmt.Errorf("list courts: %w", err)
	}

	total, err := s.repo.Court.Count(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("count courts: %w", err)
	}

	data := make([]response.CourtResponse, 0, len(courts))
	for _, c := range courts {
		data = append(data, response.CourtToResponse(c))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}
