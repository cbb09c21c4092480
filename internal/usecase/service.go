package usecase

import (
	"court-booking/internal/data/repository"
	"court-booking/internal/gateway"
	"court-booking/internal/notifier"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Court        CourtService
	Availability AvailabilityService
	Pricing      PricingService
	Voucher      VoucherService
	Booking      BookingService
}

func NewService(
	repo *repository.Repository,
	gw gateway.PaymentGateway,
	ntf notifier.Notifier,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	pricing := NewPricingService(repo, config, log)

	return &Service{
		Court:        NewCourtService(repo, config, log),
		Availability: NewAvailabilityService(repo, config, log),
		Pricing:      pricing,
		Voucher:      NewVoucherService(repo, config, log),
		Booking:      NewBookingService(repo, pricing, gw, ntf, config, log),
	}
}

// Wait drains background work before shutdown
func (s *Service) Wait() {
	s.Booking.Wait()
}
