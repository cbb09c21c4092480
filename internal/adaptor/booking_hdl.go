package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// GetUserBookings handles GET /api/user/bookings?scope=upcoming|past|all (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	req := &request.UserBookingsRequest{
		PaginatedRequest: paginationFromQuery(r),
		Scope:            r.URL.Query().Get("scope"),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), actor, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id} (owner or admin)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// PayBooking handles POST /api/bookings/{id}/pay (protected)
func (h *BookingHandler) PayBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	// The body is optional; no body means pay without a voucher
	var req request.ConfirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(&req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.ConfirmBooking(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "pay booking")
		return
	}

	utils.ResponseSuccess(w, "Payment successful", payment)
}

// CancelBooking handles POST /api/bookings/{id}/cancel (owner or admin)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.CancelBooking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, result.Message, result)
}

// ==================== ADMIN METHODS ====================

// ListBookings handles GET /api/admin/bookings (admin only)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.BookingListRequest{
		PaginatedRequest: paginationFromQuery(r),
		CourtID:          query.Get("court_id"),
		UserID:           query.Get("user_id"),
		Status:           query.Get("status"),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
