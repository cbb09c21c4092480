package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Court   *CourtHandler
	Booking *BookingHandler
	Pricing *PricingHandler
	Voucher *VoucherHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Court:   NewCourtHandler(service.Court, service.Availability, service.Pricing, log),
		Booking: NewBookingHandler(service.Booking, log),
		Pricing: NewPricingHandler(service.Pricing, log),
		Voucher: NewVoucherHandler(service.Voucher, log),
	}
}

// decodeAndValidate writes a 400 and returns false when the body is unusable
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}

	return true
}

func paginationFromQuery(r *http.Request) request.PaginatedRequest {
	return request.PaginationFromQuery(r.URL.Query())
}

func actorFromRequest(w http.ResponseWriter, r *http.Request) (utils.Actor, bool) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return actor, ok
}

// handleServiceError maps usecase error kinds to status codes
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	msg := usecase.Message(err)

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err), zap.String("operation", operation))
		utils.ResponseNotFound(w, msg)

	case errors.Is(err, usecase.ErrInvalidInput):
		log.Warn("Invalid input for "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, msg, nil)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err), zap.String("operation", operation))
		utils.ResponseForbidden(w, msg)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, msg)

	case errors.Is(err, usecase.ErrExternalFailure):
		log.Error(operation+" failed - upstream", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadGateway(w, msg)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
