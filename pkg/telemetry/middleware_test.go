package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestMiddleware_RecordsServerSpan(t *testing.T) {
	rec := installRecorder(t)

	var seenTraceID string
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = GetTraceID(r.Context())
		w.WriteHeader(http.StatusBadGateway)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))

	require.Len(t, rec.Ended(), 1)
	span := rec.Ended()[0]
	assert.Equal(t, "POST /api/bookings", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.NotEmpty(t, seenTraceID)
	assert.Equal(t, seenTraceID, w.Header().Get(TraceIDHeader))
}

func TestSetSpanError(t *testing.T) {
	rec := installRecorder(t)

	ctx, span := StartSpan(context.Background(), "op")
	SetSpanError(ctx, errors.New("boom"))
	SetSpanError(ctx, nil)
	span.End()

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, codes.Error, rec.Ended()[0].Status().Code)
	assert.Equal(t, "boom", rec.Ended()[0].Status().Description)
}

func TestInit_Disabled(t *testing.T) {
	tel, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, tel.Shutdown(context.Background()))
}
