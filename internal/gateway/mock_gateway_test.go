package gateway

import (
	"context"
	"testing"
	"time"

	"court-booking/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway_CaptureAndRefund(t *testing.T) {
	g := NewMockGateway(MockGatewayConfig{SuccessRate: 1})
	ctx := context.Background()

	res, err := g.AuthorizeAndCapture(ctx, money.FromCents(4950), "booking")
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(4950), res.CapturedAmount)
	assert.Contains(t, res.Reference, "mock_txn_")

	require.NoError(t, g.Refund(ctx, res.Reference))
	assert.Error(t, g.Refund(ctx, res.Reference), "second refund")
	assert.ErrorIs(t, g.Refund(ctx, "nope"), ErrUnknownReference)
}

func TestMockGateway_Declines(t *testing.T) {
	g := NewMockGateway(MockGatewayConfig{SuccessRate: 0})

	_, err := g.AuthorizeAndCapture(context.Background(), money.FromCents(100), "")
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestMockGateway_SuccessRateUsesRandom(t *testing.T) {
	g := NewMockGateway(MockGatewayConfig{SuccessRate: 0.5})

	g.random = func() float64 { return 0.49 }
	_, err := g.AuthorizeAndCapture(context.Background(), 100, "")
	assert.NoError(t, err)

	g.random = func() float64 { return 0.5 }
	_, err = g.AuthorizeAndCapture(context.Background(), 100, "")
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestMockGateway_RejectsNonPositiveAmount(t *testing.T) {
	g := NewMockGateway(MockGatewayConfig{SuccessRate: 1})
	_, err := g.AuthorizeAndCapture(context.Background(), money.Zero, "")
	assert.Error(t, err)
}

func TestMockGateway_DelayHonoursContext(t *testing.T) {
	g := NewMockGateway(MockGatewayConfig{SuccessRate: 1, Delay: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.AuthorizeAndCapture(ctx, 100, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
