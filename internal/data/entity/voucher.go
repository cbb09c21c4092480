package entity

import (
	"time"

	"github.com/google/uuid"

	"court-booking/pkg/money"
)

type VoucherStatus string

const (
	VoucherStatusActive   VoucherStatus = "active"
	VoucherStatusExpired  VoucherStatus = "expired"
	VoucherStatusDepleted VoucherStatus = "depleted"
	VoucherStatusInactive VoucherStatus = "inactive"
)

type Voucher struct {
	Base
	Code        string        `db:"code"`
	Value       money.Money   `db:"value"`
	CourtID     *uuid.UUID    `db:"court_id"`
	CreatorID   *uuid.UUID    `db:"creator_id"`
	MaxUses     int           `db:"max_uses"`
	CurrentUses int           `db:"current_uses"`
	ValidFrom   *time.Time    `db:"valid_from"`
	ValidUntil  *time.Time    `db:"valid_until"`
	Status      VoucherStatus `db:"status"`
}

// VoucherUsage is append-only
type VoucherUsage struct {
	ID        uuid.UUID `db:"id"`
	VoucherID uuid.UUID `db:"voucher_id"`
	BookingID uuid.UUID `db:"booking_id"`
	UserID    uuid.UUID `db:"user_id"`
	UsedAt    time.Time `db:"used_at"`
}
