package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/money"
	"court-booking/pkg/timerange"
)

type CourtResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	CourtType        string             `json:"court_type"`
	Indoor           bool               `json:"indoor"`
	HasLighting      bool               `json:"has_lighting"`
	Description      *string            `json:"description,omitempty"`
	BasePricePerHour money.Money        `json:"base_price_per_hour"`
	Status           entity.CourtStatus `json:"status"`
	OpenHour         int                `json:"open_hour"`
	CloseHour        int                `json:"close_hour"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityResponse struct {
	CourtID     string         `json:"court_id"`
	Date        string         `json:"date"`
	SlotMinutes int            `json:"slot_minutes"`
	Slots       []SlotResponse `json:"slots"`
}

type QuoteResponse struct {
	CourtID       string      `json:"court_id"`
	Start         time.Time   `json:"start"`
	End           time.Time   `json:"end"`
	DurationHours float64     `json:"duration_hours"`
	Price         money.Money `json:"price"`
	Available     bool        `json:"available"`
}

func CourtToResponse(c *entity.Court) CourtResponse {
	return CourtResponse{
		ID:               c.ID.String(),
		Name:             c.Name,
		CourtType:        c.CourtType,
		Indoor:           c.Indoor,
		HasLighting:      c.HasLighting,
		Description:      c.Description,
		BasePricePerHour: c.BasePricePerHour,
		Status:           c.Status,
		OpenHour:         c.OpenHour,
		CloseHour:        c.CloseHour,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func SlotsToResponse(slots []timerange.Range) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{Start: s.Start, End: s.End}
	}
	return out
}
