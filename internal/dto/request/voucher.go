package request

import "court-booking/pkg/money"

type CreateVoucherRequest struct {
	Value   money.Money `json:"value" validate:"gt=0"`
	CourtID *string     `json:"court_id,omitempty" validate:"omitempty,uuid"`
	MaxUses *int        `json:"max_uses,omitempty" validate:"omitempty,gte=1"`
	// RFC3339 or YYYY-MM-DD; a date-only valid_until covers the whole day
	ValidFrom  *string `json:"valid_from,omitempty"`
	ValidUntil *string `json:"valid_until,omitempty"`
}

type VerifyVoucherRequest struct {
	Code    string  `json:"code" validate:"required,max=20"`
	CourtID *string `json:"court_id,omitempty" validate:"omitempty,uuid"`
}
