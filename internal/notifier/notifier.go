package notifier

import (
	"context"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/money"
)

const EventBookingConfirmed = "booking.confirmed"

// BookingConfirmed is the payload published after a successful capture
type BookingConfirmed struct {
	EventType        string      `json:"event_type"`
	BookingID        string      `json:"booking_id"`
	UserID           string      `json:"user_id"`
	CourtID          string      `json:"court_id"`
	CourtName        string      `json:"court_name"`
	StartTime        time.Time   `json:"start_time"`
	EndTime          time.Time   `json:"end_time"`
	Amount           money.Money `json:"amount"`
	PaymentReference string      `json:"payment_reference"`
	Timestamp        time.Time   `json:"timestamp"`
}

func NewBookingConfirmed(booking *entity.Booking, court *entity.Court, txn *entity.Transaction, now time.Time) BookingConfirmed {
	event := BookingConfirmed{
		EventType: EventBookingConfirmed,
		BookingID: booking.ID.String(),
		UserID:    booking.UserID.String(),
		CourtID:   booking.CourtID.String(),
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		Timestamp: now,
	}
	if court != nil {
		event.CourtName = court.Name
	}
	if txn != nil {
		event.Amount = txn.Amount
		event.PaymentReference = txn.PaymentReference
	}
	return event
}

// Notifier delivers booking notifications. Delivery failures never affect
// the booking itself.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, event BookingConfirmed) error
}
