package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) CreateBooking(ctx context.Context, actor utils.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, actor, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) ConfirmBooking(ctx context.Context, actor utils.Actor, bookingID string, req *request.ConfirmBookingRequest) (*response.PaymentResponse, error) {
	args := m.Called(ctx, actor, bookingID, req)
	resp, _ := args.Get(0).(*response.PaymentResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) CancelBooking(ctx context.Context, actor utils.Actor, bookingID string) (*response.CancelBookingResponse, error) {
	args := m.Called(ctx, actor, bookingID)
	resp, _ := args.Get(0).(*response.CancelBookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, actor utils.Actor, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, actor, bookingID)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) GetUserBookings(ctx context.Context, actor utils.Actor, req *request.UserBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, actor, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.BookingResponse])
	return resp, args.Error(1)
}

func (m *mockBookingService) ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.BookingResponse])
	return resp, args.Error(1)
}

func (m *mockBookingService) Wait() {}

// kindError mimics a usecase error of the given kind
type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string { return e.msg }
func (e kindError) Unwrap() error  { return e.kind }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", kindError{usecase.ErrNotFound, "x"}, http.StatusNotFound},
		{"invalid", kindError{usecase.ErrInvalidInput, "x"}, http.StatusBadRequest},
		{"forbidden", kindError{usecase.ErrForbidden, "x"}, http.StatusForbidden},
		{"conflict", fmt.Errorf("wrapped: %w", kindError{usecase.ErrConflict, "x"}), http.StatusConflict},
		{"upstream", kindError{usecase.ErrExternalFailure, "x"}, http.StatusBadGateway},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")
			assert.Equal(t, tt.code, rec.Code)
			assert.False(t, decodeBody(t, rec).Status)
		})
	}

	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), errors.New("pq: secret detail"), "test")
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func newBookingRouter(svc usecase.BookingService, actor *utils.Actor) *chi.Mux {
	h := NewBookingHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	if actor != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(utils.SetUserContext(req.Context(), actor.UserID, actor.Role)))
			})
		})
	}
	r.Post("/api/bookings", h.CreateBooking)
	r.Post("/api/bookings/{id}/pay", h.PayBooking)
	r.Post("/api/bookings/{id}/cancel", h.CancelBooking)
	return r
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	actor := utils.Actor{UserID: uuid.New(), Role: utils.RoleCustomer}
	courtID := uuid.NewString()
	svc := &mockBookingService{}
	svc.On("CreateBooking", mock.Anything, actor, mock.MatchedBy(func(req *request.CreateBookingRequest) bool {
		return req.CourtID == courtID && req.StartTime == "2026-03-02 10:00"
	})).Return(&response.BookingResponse{ID: "b1", Status: "pending"}, nil).Once()

	router := newBookingRouter(svc, &actor)

	body := fmt.Sprintf(`{"court_id":%q,"start_time":"2026-03-02 10:00","end_time":"2026-03-02 11:00"}`, courtID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeBody(t, rec).Status)
	svc.AssertExpectations(t)
}

func TestBookingHandler_CreateBookingValidation(t *testing.T) {
	actor := utils.Actor{UserID: uuid.New(), Role: utils.RoleCustomer}
	svc := &mockBookingService{}
	router := newBookingRouter(svc, &actor)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{"court_id":"nope"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	errs, ok := decodeBody(t, rec).Errors.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "court_id")
	assert.Contains(t, errs, "start_time")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_RequiresActor(t *testing.T) {
	svc := &mockBookingService{}
	router := newBookingRouter(svc, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingHandler_PayWithoutBody(t *testing.T) {
	actor := utils.Actor{UserID: uuid.New(), Role: utils.RoleCustomer}
	svc := &mockBookingService{}
	svc.On("ConfirmBooking", mock.Anything, actor, "b1", &request.ConfirmBookingRequest{}).
		Return(nil, kindError{usecase.ErrExternalFailure, "Payment failed"}).Once()

	router := newBookingRouter(svc, &actor)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/b1/pay", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	svc.AssertExpectations(t)
}

func TestBookingHandler_CancelReportsRefundPending(t *testing.T) {
	actor := utils.Actor{UserID: uuid.New(), Role: utils.RoleCustomer}
	svc := &mockBookingService{}
	svc.On("CancelBooking", mock.Anything, actor, "b1").Return(&response.CancelBookingResponse{
		BookingID:     "b1",
		Status:        "cancelled",
		RefundPending: true,
		Message:       "Booking cancelled but payment refund failed. Please contact support.",
	}, nil).Once()

	router := newBookingRouter(svc, &actor)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings/b1/cancel", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Booking cancelled but payment refund failed. Please contact support.", body.Message)
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["refund_pending"])
}
