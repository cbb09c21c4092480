package wire

import (
	"net/http"

	"court-booking/internal/adaptor"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	idempotency func(http.Handler) http.Handler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require actor) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor(log))

		// Writes replay on a repeated X-Idempotency-Key
		r.With(idempotency).Post("/api/bookings", bookingHandler.CreateBooking)
		r.With(idempotency).Post("/api/bookings/{id}/pay", bookingHandler.PayBooking)
		r.With(idempotency).Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Actor(log))
		r.Use(middleware.Admin(log))

		r.Get("/", bookingHandler.ListBookings)
		r.Get("/{id}", bookingHandler.GetBooking)
	})
}
