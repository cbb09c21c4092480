package request

import "court-booking/pkg/money"

type CreateCourtRequest struct {
	Name             string      `json:"name" validate:"required,min=2,max=100"`
	CourtType        string      `json:"court_type" validate:"omitempty,oneof=clay hard grass other"`
	Indoor           bool        `json:"indoor"`
	HasLighting      bool        `json:"has_lighting"`
	Description      *string     `json:"description,omitempty" validate:"omitempty,max=500"`
	BasePricePerHour money.Money `json:"base_price_per_hour" validate:"gte=0"`
	OpenHour         *int        `json:"open_hour,omitempty" validate:"omitempty,gte=0,lte=23"`
	CloseHour        *int        `json:"close_hour,omitempty" validate:"omitempty,gte=1,lte=24"`
}

// UpdateCourtRequest only touches the fields that are set
type UpdateCourtRequest struct {
	Name             *string      `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	CourtType        *string      `json:"court_type,omitempty" validate:"omitempty,oneof=clay hard grass other"`
	Indoor           *bool        `json:"indoor,omitempty"`
	HasLighting      *bool        `json:"has_lighting,omitempty"`
	Description      *string      `json:"description,omitempty" validate:"omitempty,max=500"`
	BasePricePerHour *money.Money `json:"base_price_per_hour,omitempty" validate:"omitempty,gte=0"`
	Status           *string      `json:"status,omitempty" validate:"omitempty,oneof=active maintenance inactive"`
	OpenHour         *int         `json:"open_hour,omitempty" validate:"omitempty,gte=0,lte=23"`
	CloseHour        *int         `json:"close_hour,omitempty" validate:"omitempty,gte=1,lte=24"`
}

type CourtListRequest struct {
	PaginatedRequest
	IncludeInactive bool `json:"include_inactive"`
}
