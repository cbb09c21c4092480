package adaptor

import (
	"net/http"
	"strconv"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CourtHandler struct {
	service      usecase.CourtService
	availability usecase.AvailabilityService
	pricing      usecase.PricingService
	log          *zap.Logger
}

func NewCourtHandler(service usecase.CourtService, availability usecase.AvailabilityService, pricing usecase.PricingService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		service:      service,
		availability: availability,
		pricing:      pricing,
		log:          log.With(zap.String("handler", "court")),
	}
}

// GetCourts handles GET /api/courts (public, active only)
func (h *CourtHandler) GetCourts(w http.ResponseWriter, r *http.Request) {
	req := &request.CourtListRequest{PaginatedRequest: paginationFromQuery(r)}

	courts, err := h.service.ListCourts(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list courts")
		return
	}

	utils.ResponseSuccess(w, "success", courts)
}

// GetCourtByID handles GET /api/courts/{id} (public)
func (h *CourtHandler) GetCourtByID(w http.ResponseWriter, r *http.Request) {
	court, err := h.service.GetCourt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// GetSlots handles GET /api/courts/{id}/slots?date=YYYY-MM-DD&duration=60 (public)
func (h *CourtHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.SlotsRequest{Date: query.Get("date")}

	if d := query.Get("duration"); d != "" {
		duration, err := strconv.Atoi(d)
		if err != nil {
			utils.ResponseBadRequest(w, "duration must be a number of minutes", nil)
			return
		}
		req.Duration = duration
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slots, err := h.availability.GetAvailableSlots(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// GetQuote handles GET /api/courts/{id}/quote?start=...&end=... (public)
func (h *CourtHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.QuoteRequest{StartTime: query.Get("start"), EndTime: query.Get("end")}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	quote, err := h.pricing.QuotePrice(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "quote price")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// ==================== ADMIN METHODS ====================

// ListAllCourts handles GET /api/admin/courts (admin only)
func (h *CourtHandler) ListAllCourts(w http.ResponseWriter, r *http.Request) {
	req := &request.CourtListRequest{PaginatedRequest: paginationFromQuery(r), IncludeInactive: true}

	courts, err := h.service.ListCourts(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list all courts")
		return
	}

	utils.ResponseSuccess(w, "success", courts)
}

// CreateCourt handles POST /api/admin/courts (admin only)
func (h *CourtHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCourtRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	court, err := h.service.CreateCourt(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create court")
		return
	}

	utils.ResponseCreated(w, "Court created", court)
}

// UpdateCourt handles PUT /api/admin/courts/{id} (admin only)
func (h *CourtHandler) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateCourtRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	court, err := h.service.UpdateCourt(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update court")
		return
	}

	utils.ResponseSuccess(w, "Court updated", court)
}

// DeactivateCourt handles DELETE /api/admin/courts/{id} (admin only)
func (h *CourtHandler) DeactivateCourt(w http.ResponseWriter, r *http.Request) {
	court, err := h.service.DeactivateCourt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "deactivate court")
		return
	}

	utils.ResponseSuccess(w, "Court deactivated", court)
}
