package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/money"
)

type VoucherResponse struct {
	ID          string               `json:"id"`
	Code        string               `json:"code"`
	Value       money.Money          `json:"value"`
	CourtID     *string              `json:"court_id"`
	MaxUses     int                  `json:"max_uses"`
	CurrentUses int                  `json:"current_uses"`
	ValidFrom   *time.Time           `json:"valid_from"`
	ValidUntil  *time.Time           `json:"valid_until"`
	Status      entity.VoucherStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

type VerifyVoucherResponse struct {
	Valid   bool         `json:"valid"`
	Code    string       `json:"code,omitempty"`
	Value   *money.Money `json:"value,omitempty"`
	Message string       `json:"message"`
}

func VoucherToResponse(v *entity.Voucher) VoucherResponse {
	resp := VoucherResponse{
		ID:          v.ID.String(),
		Code:        v.Code,
		Value:       v.Value,
		MaxUses:     v.MaxUses,
		CurrentUses: v.CurrentUses,
		ValidFrom:   v.ValidFrom,
		ValidUntil:  v.ValidUntil,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
	}
	if v.CourtID != nil {
		id := v.CourtID.String()
		resp.CourtID = &id
	}
	return resp
}
