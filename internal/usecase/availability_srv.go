package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/telemetry"
	"court-booking/pkg/timerange"
	"court-booking/pkg/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	// IsAvailable is false for inactive courts and for any overlap with a
	// non-cancelled booking. Callers validate start < end first.
	IsAvailable(ctx context.Context, court *entity.Court, start, end time.Time) (bool, error)
	// AvailableSlots returns the free slots of the court's operating window on date
	AvailableSlots(ctx context.Context, court *entity.Court, date time.Time, slotMinutes int) ([]timerange.Range, error)

	GetAvailableSlots(ctx context.Context, courtID string, req *request.SlotsRequest) (*response.AvailabilityResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	config *utils.Config
	loc    *time.Location
	log    *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:   repo,
		config: config,
		loc:    config.App.Location(),
		log:    log.With(zap.String("service", "availability")),
	}
}

// checkAvailability runs against whichever booking repository it is given so
// booking creation can call it inside its transaction.
func checkAvailability(ctx context.Context, bookings repository.BookingRepository, court *entity.Court, start, end time.Time) (bool, error) {
	if !court.IsActive() {
		return false, nil
	}

	conflicts, err := bookings.FindOverlapping(ctx, court.ID, start, end)
	if err != nil {
		return false, fmt.Errorf("check availability: %w", err)
	}

	return len(conflicts) == 0, nil
}

func (s *availabilityService) IsAvailable(ctx context.Context, court *entity.Court, start, end time.Time) (bool, error) {
	return checkAvailability(ctx, s.repo.Booking, court, start, end)
}

func (s *availabilityService) AvailableSlots(ctx context.Context, court *entity.Court, date time.Time, slotMinutes int) ([]timerange.Range, error) {
	if !court.IsActive() {
		return []timerange.Range{}, nil
	}
	if slotMinutes <= 0 {
		return nil, newError(ErrInvalidInput, "slot duration must be positive")
	}

	window, err := timerange.DayWindow(date, court.OpenHour, court.CloseHour, s.loc)
	if err != nil {
		return nil, wrapError(ErrInvalidInput, err, "court %s has an invalid operating window", court.ID)
	}

	slots, err := window.Tile(time.Duration(slotMinutes) * time.Minute)
	if err != nil {
		return nil, newError(ErrInvalidInput, "a %d minute slot does not fit the %02d:00-%02d:00 window evenly",
			slotMinutes, court.OpenHour, court.CloseHour)
	}

	booked, err := s.repo.Booking.FindByCourtInRange(ctx, court.ID, window.Start, window.End)
	if err != nil {
		s.log.Error("Failed to load bookings for slots",
			zap.Error(err),
			zap.String("court_id", court.ID.String()))
		return nil, fmt.Errorf("load bookings for slots: %w", err)
	}

	free := make([]timerange.Range, 0, len(slots))
	for _, slot := range slots {
		taken := false
		for _, b := range booked {
			if slot.Overlaps(timerange.Range{Start: b.StartTime, End: b.EndTime}) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, slot)
		}
	}

	return free, nil
}

func (s *availabilityService) GetAvailableSlots(ctx context.Context, courtID string, req *request.SlotsRequest) (*response.AvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "AvailabilityService.GetAvailableSlots")
	defer span.End()

	id, err := parseID("court", courtID)
	if err != nil {
		return nil, err
	}

	date, err := utils.ParseDate(req.Date, s.loc)
	if err != nil {
		return nil, wrapError(ErrInvalidInput, err, "invalid date %q, use YYYY-MM-DD", req.Date)
	}

	slotMinutes := req.Duration
	if slotMinutes == 0 {
		slotMinutes = s.config.Booking.SlotMinutes
	}

	court, err := s.repo.Court.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get court: %w", err)
	}
	if court == nil {
		return nil, newError(ErrNotFound, "Court not found")
	}

	telemetry.SetSpanAttributes(ctx,
		attribute.String("court.id", courtID),
		attribute.Int("slot.minutes", slotMinutes))

	slots, err := s.AvailableSlots(ctx, court, date, slotMinutes)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	return &response.AvailabilityResponse{
		CourtID:     court.ID.String(),
		Date:        date.Format(utils.DateLayout),
		SlotMinutes: slotMinutes,
		Slots:       response.SlotsToResponse(slots),
	}, nil
}
