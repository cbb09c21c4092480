package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePricing(r chi.Router, pricingHandler *adaptor.PricingHandler, log *zap.Logger) {
	r.Route("/api/admin/pricing-rules", func(r chi.Router) {
		r.Use(middleware.Actor(log))
		r.Use(middleware.Admin(log))

		r.Get("/", pricingHandler.ListRules)
		r.Post("/", pricingHandler.CreateRule)
		r.Put("/{id}/status", pricingHandler.UpdateRuleStatus)
	})
}
