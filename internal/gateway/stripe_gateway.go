package gateway

import (
	"context"
	"fmt"

	"court-booking/pkg/money"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
	"go.uber.org/zap"
)

// StripeGateway implements PaymentGateway using Stripe PaymentIntents
type StripeGateway struct {
	config StripeGatewayConfig
	log    *zap.Logger
}

type StripeGatewayConfig struct {
	SecretKey string
	Currency  string
	// PaymentMethod is confirmed server-side, e.g. pm_card_visa in test mode
	PaymentMethod string
}

func NewStripeGateway(config StripeGatewayConfig, log *zap.Logger) (*StripeGateway, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if config.Currency == "" {
		config.Currency = string(stripe.CurrencyUSD)
	}
	if config.PaymentMethod == "" {
		config.PaymentMethod = "pm_card_visa"
	}

	// Set Stripe API key globally
	stripe.Key = config.SecretKey

	return &StripeGateway{
		config: config,
		log:    log.With(zap.String("gateway", "stripe")),
	}, nil
}

func (g *StripeGateway) AuthorizeAndCapture(ctx context.Context, amount money.Money, description string) (*CaptureResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("capture amount must be positive, got %s", amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount.Cents()),
		Currency:      stripe.String(g.config.Currency),
		PaymentMethod: stripe.String(g.config.PaymentMethod),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if description != "" {
		params.Description = stripe.String(description)
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		g.log.Warn("Stripe payment intent failed", zap.Error(err))
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		g.log.Warn("Stripe payment not captured",
			zap.String("payment_intent", pi.ID),
			zap.String("status", string(pi.Status)))
		return nil, fmt.Errorf("%w: payment intent %s is %s", ErrPaymentDeclined, pi.ID, pi.Status)
	}

	return &CaptureResult{
		Reference:      pi.ID,
		Status:         string(pi.Status),
		CapturedAmount: money.FromCents(pi.AmountReceived),
	}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, reference string) error {
	if reference == "" {
		return fmt.Errorf("payment reference is required")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(reference),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		g.log.Warn("Stripe refund failed",
			zap.String("payment_intent", reference),
			zap.Error(err))
		return fmt.Errorf("failed to create refund: %w", err)
	}

	return nil
}

func (g *StripeGateway) Name() string {
	return "stripe"
}
