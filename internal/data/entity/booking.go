package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Base
	UserID    uuid.UUID     `db:"user_id"`
	CourtID   uuid.UUID     `db:"court_id"`
	StartTime time.Time     `db:"start_time"`
	EndTime   time.Time     `db:"end_time"`
	Status    BookingStatus `db:"status"`
	Notes     *string       `db:"notes"`
}

// IsPast reports whether the booking has already ended
func (b *Booking) IsPast(now time.Time) bool {
	return b.EndTime.Before(now)
}

func (b *Booking) DurationHours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}
