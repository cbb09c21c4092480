package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/money"
)

type PricingRuleResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	CourtID       *string             `json:"court_id"`
	DaysOfWeek    []string            `json:"days_of_week"`
	StartHour     *int                `json:"start_hour"`
	EndHour       *int                `json:"end_hour"`
	ModifierType  entity.ModifierType `json:"modifier_type"`
	ModifierValue string              `json:"modifier_value"`
	Specificity   int                 `json:"specificity"`
	IsFinal       bool                `json:"is_final"`
	ValidFrom     *string             `json:"valid_from"`
	ValidUntil    *string             `json:"valid_until"`
	Status        entity.RuleStatus   `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
}

func PricingRuleToResponse(r *entity.PricingRule) PricingRuleResponse {
	resp := PricingRuleResponse{
		ID:            r.ID.String(),
		Name:          r.Name,
		DaysOfWeek:    r.DaysOfWeek,
		StartHour:     r.StartHour,
		EndHour:       r.EndHour,
		ModifierType:  r.ModifierType,
		ModifierValue: money.FormatHundredths(r.ModifierValue),
		Specificity:   r.Specificity,
		IsFinal:       r.IsFinal,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
	}
	if resp.DaysOfWeek == nil {
		resp.DaysOfWeek = []string{}
	}
	if r.CourtID != nil {
		id := r.CourtID.String()
		resp.CourtID = &id
	}
	resp.ValidFrom = formatDate(r.ValidFrom)
	resp.ValidUntil = formatDate(r.ValidUntil)
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
