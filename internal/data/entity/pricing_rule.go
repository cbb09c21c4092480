package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type ModifierType string

const (
	ModifierPercentage ModifierType = "percentage"
	ModifierFixed      ModifierType = "fixed"
)

type RuleStatus string

const (
	RuleStatusActive   RuleStatus = "active"
	RuleStatusInactive RuleStatus = "inactive"
)

type PricingRule struct {
	Base
	Name       string     `db:"name"`
	CourtID    *uuid.UUID `db:"court_id"`     // nil = all courts
	DaysOfWeek []string   `db:"days_of_week"` // "Monday", ...; empty = every day
	StartHour  *int       `db:"start_hour"`
	EndHour    *int       `db:"end_hour"`
	// ModifierValue is in hundredths: 1050 = +10.50% or +10.50 currency
	ModifierType  ModifierType `db:"modifier_type"`
	ModifierValue int64        `db:"modifier_value"`
	Specificity   int          `db:"specificity"`
	IsFinal       bool         `db:"is_final"`
	ValidFrom     *time.Time   `db:"valid_from"`  // date
	ValidUntil    *time.Time   `db:"valid_until"` // date, inclusive
	Status        RuleStatus   `db:"status"`
}

// AppliesTo checks status, validity dates, weekday and hour-of-day against
// the booking start.
func (r *PricingRule) AppliesTo(start time.Time) bool {
	if r.Status != RuleStatusActive {
		return false
	}

	day := civilDate(start)
	if r.ValidFrom != nil && day.Before(civilDate(*r.ValidFrom)) {
		return false
	}
	if r.ValidUntil != nil && day.After(civilDate(*r.ValidUntil)) {
		return false
	}

	if len(r.DaysOfWeek) > 0 && !slices.Contains(r.DaysOfWeek, start.Weekday().String()) {
		return false
	}

	if r.StartHour != nil && r.EndHour != nil {
		hour := start.Hour()
		if hour < *r.StartHour || hour >= *r.EndHour {
			return false
		}
	}

	return true
}

// civilDate drops the clock and zone so dates compare by calendar day
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
