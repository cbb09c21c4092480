package adaptor

import (
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VoucherHandler struct {
	service usecase.VoucherService
	log     *zap.Logger
}

func NewVoucherHandler(service usecase.VoucherService, log *zap.Logger) *VoucherHandler {
	return &VoucherHandler{
		service: service,
		log:     log.With(zap.String("handler", "voucher")),
	}
}

// VerifyVoucher handles POST /api/vouchers/verify (protected). An unusable
// voucher is still a 200 with valid=false and the reason.
func (h *VoucherHandler) VerifyVoucher(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyVoucherRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.VerifyVoucher(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify voucher")
		return
	}

	utils.ResponseSuccess(w, result.Message, result)
}

// ==================== ADMIN METHODS ====================

// ListVouchers handles GET /api/admin/vouchers (admin only)
func (h *VoucherHandler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	req := paginationFromQuery(r)

	vouchers, err := h.service.ListVouchers(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list vouchers")
		return
	}

	utils.ResponseSuccess(w, "success", vouchers)
}

// CreateVoucher handles POST /api/admin/vouchers (admin only)
func (h *VoucherHandler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req request.CreateVoucherRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	voucher, err := h.service.CreateVoucher(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create voucher")
		return
	}

	utils.ResponseCreated(w, "Voucher created", voucher)
}

// DeactivateVoucher handles PUT /api/admin/vouchers/{id}/deactivate (admin only)
func (h *VoucherHandler) DeactivateVoucher(w http.ResponseWriter, r *http.Request) {
	voucher, err := h.service.DeactivateVoucher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "deactivate voucher")
		return
	}

	utils.ResponseSuccess(w, "Voucher deactivated", voucher)
}
