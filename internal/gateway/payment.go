package gateway

import (
	"context"
	"errors"

	"court-booking/pkg/money"
)

var (
	// ErrPaymentDeclined is returned when the provider refuses the charge
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrUnknownReference is returned when refunding a charge the provider does not know
	ErrUnknownReference = errors.New("unknown payment reference")
)

// CaptureResult describes a successful capture
type CaptureResult struct {
	Reference      string
	Status         string
	CapturedAmount money.Money
}

// PaymentGateway authorises and captures in one step, and refunds by reference
type PaymentGateway interface {
	AuthorizeAndCapture(ctx context.Context, amount money.Money, description string) (*CaptureResult, error)
	Refund(ctx context.Context, reference string) error
	Name() string
}
