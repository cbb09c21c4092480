package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"court-booking/pkg/money"

	"github.com/google/uuid"
)

// MockGateway implements PaymentGateway in memory, for local runs and tests
type MockGateway struct {
	config   MockGatewayConfig
	random   func() float64
	mu       sync.Mutex
	captured map[string]money.Money
	refunded map[string]bool
}

type MockGatewayConfig struct {
	// SuccessRate is the probability of a successful capture (0.0 to 1.0)
	SuccessRate float64
	// Delay simulates provider latency
	Delay time.Duration
}

func NewMockGateway(config MockGatewayConfig) *MockGateway {
	if config.SuccessRate < 0 {
		config.SuccessRate = 0
	}
	if config.SuccessRate > 1 {
		config.SuccessRate = 1
	}

	return &MockGateway{
		config:   config,
		random:   rand.Float64,
		captured: make(map[string]money.Money),
		refunded: make(map[string]bool),
	}
}

func (g *MockGateway) wait(ctx context.Context) error {
	if g.config.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.config.Delay):
		return nil
	}
}

func (g *MockGateway) AuthorizeAndCapture(ctx context.Context, amount money.Money, description string) (*CaptureResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("capture amount must be positive, got %s", amount)
	}
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	if g.random() >= g.config.SuccessRate {
		return nil, fmt.Errorf("%w: card_declined", ErrPaymentDeclined)
	}

	reference := "mock_txn_" + uuid.NewString()[:8]

	g.mu.Lock()
	g.captured[reference] = amount
	g.mu.Unlock()

	return &CaptureResult{
		Reference:      reference,
		Status:         "succeeded",
		CapturedAmount: amount,
	}, nil
}

func (g *MockGateway) Refund(ctx context.Context, reference string) error {
	if err := g.wait(ctx); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.captured[reference]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReference, reference)
	}
	if g.refunded[reference] {
		return fmt.Errorf("payment %s already refunded", reference)
	}
	g.refunded[reference] = true
	return nil
}

func (g *MockGateway) Name() string {
	return "mock"
}
