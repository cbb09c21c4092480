package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireVoucher(r chi.Router, voucherHandler *adaptor.VoucherHandler, log *zap.Logger) {
	r.With(middleware.Actor(log)).Post("/api/vouchers/verify", voucherHandler.VerifyVoucher)

	r.Route("/api/admin/vouchers", func(r chi.Router) {
		r.Use(middleware.Actor(log))
		r.Use(middleware.Admin(log))

		r.Get("/", voucherHandler.ListVouchers)
		r.Post("/", voucherHandler.CreateVoucher)
		r.Put("/{id}/deactivate", voucherHandler.DeactivateVoucher)
	})
}
