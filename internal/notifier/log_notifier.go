package notifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// LogNotifier writes the confirmation text to the log instead of sending it
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) NotifyBookingConfirmed(_ context.Context, event BookingConfirmed) error {
	n.log.Info("Booking confirmation",
		zap.String("booking_id", event.BookingID),
		zap.String("user_id", event.UserID),
		zap.String("message", ConfirmationText(event)),
	)
	return nil
}

// ConfirmationText renders the message a customer receives
func ConfirmationText(event BookingConfirmed) string {
	var b strings.Builder
	b.WriteString("Your booking has been confirmed!\n")
	fmt.Fprintf(&b, "Booking ID: %s\n", event.BookingID)
	if event.CourtName != "" {
		fmt.Fprintf(&b, "Court: %s\n", event.CourtName)
	}
	fmt.Fprintf(&b, "Date: %s\n", event.StartTime.Format("Monday, 02 January 2006"))
	fmt.Fprintf(&b, "Time: %s - %s\n", event.StartTime.Format("15:04"), event.EndTime.Format("15:04"))
	fmt.Fprintf(&b, "Amount paid: %s\n", event.Amount)
	if event.PaymentReference != "" {
		fmt.Fprintf(&b, "Payment reference: %s\n", event.PaymentReference)
	}
	return b.String()
}
