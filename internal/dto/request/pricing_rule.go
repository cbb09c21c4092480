package request

import "encoding/json"

type CreatePricingRuleRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	CourtID    *string  `json:"court_id,omitempty" validate:"omitempty,uuid"`
	DaysOfWeek []string `json:"days_of_week,omitempty" validate:"omitempty,unique,dive,weekday"`
	StartHour  *int     `json:"start_hour,omitempty" validate:"omitempty,gte=0,lte=23"`
	EndHour    *int     `json:"end_hour,omitempty" validate:"omitempty,gte=1,lte=24"`
	// ModifierValue is percent for percentage rules, currency for fixed rules
	ModifierType  string      `json:"modifier_type" validate:"required,oneof=percentage fixed"`
	ModifierValue json.Number `json:"modifier_value" validate:"required"`
	Specificity   *int        `json:"specificity,omitempty" validate:"omitempty,gte=0"`
	IsFinal       bool        `json:"is_final"`
	ValidFrom     *string     `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil    *string     `json:"valid_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateRuleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type PricingRuleListRequest struct {
	PaginatedRequest
	CourtID string `json:"court_id" validate:"omitempty,uuid"`
}
