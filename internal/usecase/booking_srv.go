package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/gateway"
	"court-booking/internal/notifier"
	"court-booking/pkg/money"
	"court-booking/pkg/telemetry"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	defaultPaymentTimeout = 15 * time.Second
	notifyTimeout         = 10 * time.Second
)

// Cancellation outcomes shown to the customer
const (
	msgCancelRefunded     = "Booking cancelled and payment refunded"
	msgCancelRefundFailed = "Booking cancelled but payment refund failed. Please contact support."
	msgCancelled          = "Booking cancelled successfully"
	msgRefundUnrecorded   = "Booking cancelled and payment refunded, but the refund could not be recorded. Please contact support."
)

type BookingService interface {
	CreateBooking(ctx context.Context, actor utils.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	// ConfirmBooking captures payment for a pending booking and confirms it
	ConfirmBooking(ctx context.Context, actor utils.Actor, bookingID string, req *request.ConfirmBookingRequest) (*response.PaymentResponse, error)
	CancelBooking(ctx context.Context, actor utils.Actor, bookingID string) (*response.CancelBookingResponse, error)

	GetBooking(ctx context.Context, actor utils.Actor, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, actor utils.Actor, req *request.UserBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Admin endpoints
	ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Wait blocks until in-flight notifications are done
	Wait()
}

type bookingService struct {
	repo           *repository.Repository
	pricing        PricingService
	gateway        gateway.PaymentGateway
	notifier       notifier.Notifier
	paymentTimeout time.Duration
	loc            *time.Location
	now            func() time.Time
	log            *zap.Logger

	notifications sync.WaitGroup
}

func NewBookingService(
	repo *repository.Repository,
	pricing PricingService,
	gw gateway.PaymentGateway,
	ntf notifier.Notifier,
	config *utils.Config,
	log *zap.Logger,
) BookingService {
	timeout := config.Payment.Timeout
	if timeout <= 0 {
		timeout = defaultPaymentTimeout
	}

	return &bookingService{
		repo:           repo,
		pricing:        pricing,
		gateway:        gw,
		notifier:       ntf,
		paymentTimeout: timeout,
		loc:            config.App.Location(),
		now:            time.Now,
		log:            log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor utils.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.CreateBooking")
	defer span.End()

	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, newError(ErrInvalidInput, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	courtID, err := parseID("court", req.CourtID)
	if err != nil {
		return nil, err
	}

	r, err := parseRange(req.StartTime, req.EndTime, s.loc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if r.Start.Before(now) {
		return nil, newError(ErrInvalidInput, "Cannot book a time in the past")
	}

	court, err := s.repo.Court.FindByID(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("get court: %w", err)
	}
	if court == nil {
		return nil, newError(ErrNotFound, "Court not found")
	}

	telemetry.SetSpanAttributes(ctx,
		attribute.String("court.id", courtID.String()),
		attribute.String("user.id", actor.UserID.String()))

	booking := &entity.Booking{
		Base:      entity.NewBase(now),
		UserID:    actor.UserID,
		CourtID:   courtID,
		StartTime: r.Start,
		EndTime:   r.End,
		Status:    entity.BookingStatusPending,
		Notes:     req.Notes,
	}

	// Check and insert under the court lock
	err = s.repo.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		if err := repo.Booking.LockCourt(ctx, courtID); err != nil {
			return err
		}

		available, err := checkAvailability(ctx, repo.Booking, court, r.Start, r.End)
		if err != nil {
			return err
		}
		if !available {
			return newError(ErrConflict, "Court is not available for the selected time")
		}

		return repo.Booking.Create(ctx, booking)
	})
	if errors.Is(err, repository.ErrBookingOverlap) {
		err = wrapError(ErrConflict, err, "Court is not available for the selected time")
	}
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		if errors.Is(err, ErrConflict) {
			s.log.Info("Booking rejected, slot taken",
				zap.String("court_id", courtID.String()),
				zap.Time("start", r.Start),
				zap.Time("end", r.End))
			return nil, err
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.String("court_id", courtID.String()))
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", actor.UserID.String()),
		zap.String("court_id", courtID.String()))

	resp := response.BookingToResponse(booking, court, nil, now)
	return &resp, nil
}

// loadOwned fetches a booking the actor may act on
func (s *bookingService) loadOwned(ctx context.Context, actor utils.Actor, bookingID string) (*entity.Booking, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, newError(ErrNotFound, "Booking not found")
	}

	if !actor.CanAccess(booking.UserID) {
		s.log.Warn("Booking access denied",
			zap.String("booking_id", bookingID),
			zap.String("user_id", actor.UserID.String()))
		return nil, newError(ErrForbidden, "You do not have access to this booking")
	}

	return booking, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, actor utils.Actor, bookingID string, req *request.ConfirmBookingRequest) (*response.PaymentResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.ConfirmBooking")
	defer span.End()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newError(ErrInvalidInput, "validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if booking.Status != entity.BookingStatusPending {
		return nil, newError(ErrConflict, "Booking is %s, only pending bookings can be paid", booking.Status)
	}
	if booking.IsPast(now) {
		return nil, newError(ErrConflict, "Cannot pay for past bookings")
	}

	court, err := s.repo.Court.FindByID(ctx, booking.CourtID)
	if err != nil {
		return nil, fmt.Errorf("get court: %w", err)
	}

	price, err := s.pricing.CalculatePrice(ctx, booking.CourtID, booking.StartTime, booking.EndTime)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	// Voucher is checked before charging and redeemed after
	var code string
	discount := money.Zero
	if req.VoucherCode != nil {
		code = strings.ToUpper(strings.TrimSpace(*req.VoucherCode))
	}
	if code != "" {
		voucher, err := s.repo.Voucher.FindByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("get voucher: %w", err)
		}
		if voucher == nil {
			return nil, newError(ErrNotFound, "Invalid voucher code")
		}
		if reason := InvalidReason(voucher, &booking.CourtID, now); reason != "" {
			return nil, newError(ErrConflict, "%s", reason)
		}
		discount = price - price.SubFloor(voucher.Value)
	}
	amount := price.SubFloor(discount)

	txn := &entity.Transaction{
		Base:      entity.NewBase(now),
		BookingID: booking.ID,
		Amount:    amount,
		Status:    entity.TransactionStatusCompleted,
	}

	captured := false
	if amount > money.Zero {
		result, err := s.capture(ctx, booking, amount)
		if err != nil {
			telemetry.SetSpanError(ctx, err)
			return nil, err
		}
		captured = true
		txn.PaymentReference = result.Reference
		txn.PaymentMethod = s.gateway.Name()
	} else {
		txn.PaymentMethod = entity.PaymentMethodVoucher
		txn.PaymentReference = "VOUCHER-" + code
		if code == "" {
			txn.PaymentReference = "NOCHARGE-" + booking.ID.String()[:8]
		}
	}

	err = s.repo.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		ok, err := repo.Booking.TransitionStatus(ctx, booking.ID, entity.BookingStatusPending, entity.BookingStatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return newError(ErrConflict, "Booking is no longer pending")
		}

		if err := repo.Transaction.Create(ctx, txn); err != nil {
			return err
		}

		if code != "" {
			if _, err := redeemVoucher(ctx, repo, code, booking.ID, booking.UserID, &booking.CourtID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		s.log.Error("Failed to confirm booking after payment",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("payment_reference", txn.PaymentReference))
		if captured {
			s.compensate(ctx, txn.PaymentReference)
		}
		if Message(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	booking.Status = entity.BookingStatusConfirmed
	booking.UpdatedAt = now

	s.log.Info("Booking confirmed",
		zap.String("booking_id", booking.ID.String()),
		zap.Stringer("amount", amount),
		zap.Stringer("discount", discount),
		zap.String("payment_method", txn.PaymentMethod))

	s.notifyConfirmed(ctx, notifier.NewBookingConfirmed(booking, court, txn, now))

	resp := &response.PaymentResponse{
		Booking:     response.BookingToResponse(booking, court, txn, now),
		Transaction: response.TransactionToResponse(txn),
		Discount:    discount,
	}
	if code != "" {
		resp.VoucherCode = &code
	}
	return resp, nil
}

func (s *bookingService) capture(ctx context.Context, booking *entity.Booking, amount money.Money) (*gateway.CaptureResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	description := fmt.Sprintf("Court booking %s", booking.ID.String())
	result, err := s.gateway.AuthorizeAndCapture(ctx, amount, description)
	if err != nil {
		s.log.Warn("Payment capture failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("gateway", s.gateway.Name()))
		return nil, wrapError(ErrExternalFailure, err, "Payment failed")
	}

	return result, nil
}

// compensate refunds a capture whose booking could not be confirmed
func (s *bookingService) compensate(ctx context.Context, reference string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.paymentTimeout)
	defer cancel()

	if err := s.gateway.Refund(ctx, reference); err != nil {
		s.log.Error("Compensating refund failed",
			zap.Error(err),
			zap.String("payment_reference", reference))
		return
	}
	s.log.Info("Compensating refund issued", zap.String("payment_reference", reference))
}

func (s *bookingService) notifyConfirmed(ctx context.Context, event notifier.BookingConfirmed) {
	if s.notifier == nil {
		return
	}

	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyBookingConfirmed(ctx, event); err != nil {
			s.log.Warn("Booking confirmation notification failed",
				zap.Error(err),
				zap.String("booking_id", event.BookingID))
		}
	}()
}

func (s *bookingService) Wait() {
	s.notifications.Wait()
}

func (s *bookingService) CancelBooking(ctx context.Context, actor utils.Actor, bookingID string) (*response.CancelBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.CancelBooking")
	defer span.End()

	booking, err := s.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusCancelled {
		return nil, newError(ErrConflict, "Booking is already cancelled")
	}
	now := s.now()
	if booking.IsPast(now) {
		return nil, newError(ErrConflict, "Cannot cancel past bookings")
	}

	previous := booking.Status
	ok, err := s.repo.Booking.TransitionStatus(ctx, booking.ID, previous, entity.BookingStatusCancelled)
	if err != nil {
		s.log.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if !ok {
		return nil, newError(ErrConflict, "Booking was modified, please retry")
	}

	result := &response.CancelBookingResponse{
		BookingID: booking.ID.String(),
		Status:    entity.BookingStatusCancelled,
		Message:   msgCancelled,
	}

	if previous == entity.BookingStatusConfirmed {
		txn, err := s.repo.Transaction.FindByBookingID(ctx, booking.ID)
		if err != nil {
			s.log.Error("Failed to load transaction for refund", zap.Error(err), zap.String("booking_id", bookingID))
			result.RefundPending = true
			result.Message = msgCancelRefundFailed
		} else if txn != nil && txn.Status == entity.TransactionStatusCompleted {
			s.refund(ctx, txn, result)
		}
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("previous_status", string(previous)),
		zap.Bool("refunded", result.Refunded),
		zap.Bool("refund_pending", result.RefundPending))

	return result, nil
}

// refund reverses a completed payment. A gateway failure leaves the
// transaction completed; a ledger failure after a gateway refund is retried
// once. Either way the result is flagged for support.
func (s *bookingService) refund(ctx context.Context, txn *entity.Transaction, result *response.CancelBookingResponse) {
	if txn.PaymentMethod != entity.PaymentMethodVoucher {
		refundCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
		err := s.gateway.Refund(refundCtx, txn.PaymentReference)
		cancel()
		if err != nil {
			telemetry.SetSpanError(ctx, err)
			s.log.Error("Refund failed",
				zap.Error(err),
				zap.String("booking_id", txn.BookingID.String()),
				zap.String("payment_reference", txn.PaymentReference))
			result.RefundPending = true
			result.Message = msgCancelRefundFailed
			return
		}
	}

	result.Refunded = true
	if err := s.markRefunded(ctx, txn); err != nil {
		telemetry.SetSpanError(ctx, err)
		s.log.Error("Refund issued but transaction not updated",
			zap.Error(err),
			zap.String("transaction_id", txn.ID.String()),
			zap.String("payment_reference", txn.PaymentReference))
		result.RefundPending = true
		result.Message = msgRefundUnrecorded
		return
	}
	result.Message = msgCancelRefunded
}

// markRefunded records the refund, retrying once on a detached context
func (s *bookingService) markRefunded(ctx context.Context, txn *entity.Transaction) error {
	err := s.repo.Transaction.UpdateStatus(ctx, txn.ID, entity.TransactionStatusRefunded)
	if err == nil {
		return nil
	}

	retryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.paymentTimeout)
	defer cancel()
	if retryErr := s.repo.Transaction.UpdateStatus(retryCtx, txn.ID, entity.TransactionStatusRefunded); retryErr != nil {
		return errors.Join(err, retryErr)
	}
	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor utils.Actor, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadOwned(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	court, err := s.repo.Court.FindByID(ctx, booking.CourtID)
	if err != nil {
		return nil, fmt.Errorf("get court: %w", err)
	}

	txn, err := s.repo.Transaction.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	resp := response.BookingToResponse(booking, court, txn, s.now())
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, actor utils.Actor, req *request.UserBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	scope := repository.ScopeAll
	if req.Scope != "" {
		scope = repository.BookingScope(req.Scope)
	}

	now := s.now()
	bookings, err := s.repo.Booking.FindByUserID(ctx, actor.UserID, scope, now, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", actor.UserID.String()))
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, actor.UserID, scope, now)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	data, err := s.toResponses(ctx, bookings, now)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	var filter repository.BookingFilter
	if req.CourtID != "" {
		id, err := parseID("court", req.CourtID)
		if err != nil {
			return nil, err
		}
		filter.CourtID = &id
	}
	if req.UserID != "" {
		id, err := parseID("user", req.UserID)
		if err != nil {
			return nil, err
		}
		filter.UserID = &id
	}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}

	bookings, err := s.repo.Booking.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	data, err := s.toResponses(ctx, bookings, s.now())
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// toResponses attaches court names, loading each court once
func (s *bookingService) toResponses(ctx context.Context, bookings []*entity.Booking, now time.Time) ([]response.BookingResponse, error) {
	courts := make(map[uuid.UUID]*entity.Court)
	data := make([]response.BookingResponse, 0, len(bookings))

	for _, b := range bookings {
		court, seen := courts[b.CourtID]
		if !seen {
			c, err := s.repo.Court.FindByID(ctx, b.CourtID)
			if err != nil {
				return nil, fmt.Errorf("get court: %w", err)
			}
			courts[b.CourtID] = c
			court = c
		}
		data = append(data, response.BookingToResponse(b, court, nil, now))
	}

	return data, nil
}
