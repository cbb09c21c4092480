package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCourt(r chi.Router, courtHandler *adaptor.CourtHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/courts", courtHandler.GetCourts)
	r.Get("/api/courts/{id}", courtHandler.GetCourtByID)
	r.Get("/api/courts/{id}/slots", courtHandler.GetSlots)
	r.Get("/api/courts/{id}/quote", courtHandler.GetQuote)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/courts", func(r chi.Router) {
		r.Use(middleware.Actor(log))
		r.Use(middleware.Admin(log))

		r.Get("/", courtHandler.ListAllCourts)
		r.Post("/", courtHandler.CreateCourt)
		r.Put("/{id}", courtHandler.UpdateCourt)
		r.Delete("/{id}", courtHandler.DeactivateCourt)
	})
}
