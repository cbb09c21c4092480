package adaptor

import (
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PricingHandler struct {
	service usecase.PricingService
	log     *zap.Logger
}

func NewPricingHandler(service usecase.PricingService, log *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log.With(zap.String("handler", "pricing")),
	}
}

// ListRules handles GET /api/admin/pricing-rules?court_id= (admin only)
func (h *PricingHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	req := &request.PricingRuleListRequest{
		PaginatedRequest: paginationFromQuery(r),
		CourtID:          r.URL.Query().Get("court_id"),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rules, err := h.service.ListRules(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list pricing rules")
		return
	}

	utils.ResponseSuccess(w, "success", rules)
}

// CreateRule handles POST /api/admin/pricing-rules (admin only)
func (h *PricingHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePricingRuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.service.CreateRule(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create pricing rule")
		return
	}

	utils.ResponseCreated(w, "Pricing rule created", rule)
}

// UpdateRuleStatus handles PUT /api/admin/pricing-rules/{id}/status (admin only)
func (h *PricingHandler) UpdateRuleStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateRuleStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.service.UpdateRuleStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update pricing rule status")
		return
	}

	utils.ResponseSuccess(w, "Pricing rule updated", rule)
}
