package request

type CreateBookingRequest struct {
	CourtID   string  `json:"court_id" validate:"required,uuid"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ConfirmBookingRequest pays for a pending booking, optionally with a voucher
type ConfirmBookingRequest struct {
	VoucherCode *string `json:"voucher_code,omitempty" validate:"omitempty,alphanum,max=20"`
}

type UserBookingsRequest struct {
	PaginatedRequest
	Scope string `json:"scope" validate:"omitempty,oneof=upcoming past all"`
}

type BookingListRequest struct {
	PaginatedRequest
	CourtID string `json:"court_id" validate:"omitempty,uuid"`
	UserID  string `json:"user_id" validate:"omitempty,uuid"`
	Status  string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

type QuoteRequest struct {
	StartTime string `json:"start" validate:"required"`
	EndTime   string `json:"end" validate:"required"`
}

type SlotsRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Duration int    `json:"duration" validate:"omitempty,gte=1,lte=1440"`
}
