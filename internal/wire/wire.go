// internal/wire/wire.go
package wire

import (
	"net/http"

	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/internal/gateway"
	"court-booking/internal/notifier"
	"court-booking/internal/usecase"
	"court-booking/pkg/middleware"
	"court-booking/pkg/telemetry"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Dependencies are the externally constructed collaborators. Redis is
// optional; nil disables idempotency replay.
type Dependencies struct {
	Repo     *repository.Repository
	Gateway  gateway.PaymentGateway
	Notifier notifier.Notifier
	Redis    middleware.RedisClient
}

// Wiring builds services and handlers and mounts every route
func Wiring(deps Dependencies, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Gateway, deps.Notifier, config, logger)
	handler := adaptor.NewHandler(service, logger)

	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Redis: deps.Redis,
		TTL:   config.Idempotency.TTL,
	}, logger)

	router := setupRouter(handler, idempotency, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	idempotency func(http.Handler) http.Handler,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(telemetry.Middleware())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	// Apply routes
	wireCourt(r, handler.Court, logger)
	wireBooking(r, handler.Booking, idempotency, logger)
	wireVoucher(r, handler.Voucher, logger)
	wirePricing(r, handler.Pricing, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
