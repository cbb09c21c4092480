package entity

import "court-booking/pkg/money"

type CourtStatus string

const (
	CourtStatusActive      CourtStatus = "active"
	CourtStatusMaintenance CourtStatus = "maintenance"
	CourtStatusInactive    CourtStatus = "inactive"
)

const (
	DefaultOpenHour  = 8
	DefaultCloseHour = 22
)

type Court struct {
	Base
	Name             string      `db:"name"`
	CourtType        string      `db:"court_type"` // clay, hard, grass
	Indoor           bool        `db:"indoor"`
	HasLighting      bool        `db:"has_lighting"`
	Description      *string     `db:"description"`
	BasePricePerHour money.Money `db:"base_price_per_hour"` // cents
	Status           CourtStatus `db:"status"`
	OpenHour         int         `db:"open_hour"`
	CloseHour        int         `db:"close_hour"`
}

func (c *Court) IsActive() bool {
	return c.Status == CourtStatusActive
}
