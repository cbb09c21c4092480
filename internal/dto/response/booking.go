package response

import (
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/money"
)

type BookingResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	CourtID     string               `json:"court_id"`
	CourtName   string               `json:"court_name,omitempty"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	Status      entity.BookingStatus `json:"status"`
	Notes       *string              `json:"notes,omitempty"`
	IsPast      bool                 `json:"is_past"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type TransactionResponse struct {
	ID               string                   `json:"id"`
	BookingID        string                   `json:"booking_id"`
	Amount           money.Money              `json:"amount"`
	PaymentReference string                   `json:"payment_reference"`
	PaymentMethod    string                   `json:"payment_method"`
	Status           entity.TransactionStatus `json:"status"`
	CreatedAt        time.Time                `json:"created_at"`
}

type PaymentResponse struct {
	Booking     BookingResponse     `json:"booking"`
	Transaction TransactionResponse `json:"transaction"`
	Discount    money.Money         `json:"discount"`
	VoucherCode *string             `json:"voucher_code,omitempty"`
}

type CancelBookingResponse struct {
	BookingID     string               `json:"booking_id"`
	Status        entity.BookingStatus `json:"status"`
	Refunded      bool                 `json:"refunded"`
	RefundPending bool                 `json:"refund_pending"`
	Message       string               `json:"message"`
}

func BookingToResponse(b *entity.Booking, court *entity.Court, txn *entity.Transaction, now time.Time) BookingResponse {
	resp := BookingResponse{
		ID:        b.ID.String(),
		UserID:    b.UserID.String(),
		CourtID:   b.CourtID.String(),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		Notes:     b.Notes,
		IsPast:    b.IsPast(now),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if court != nil {
		resp.CourtName = court.Name
	}
	if txn != nil {
		t := TransactionToResponse(txn)
		resp.Transaction = &t
	}
	return resp
}

func TransactionToResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID.String(),
		BookingID:        t.BookingID.String(),
		Amount:           t.Amount,
		PaymentReference: t.PaymentReference,
		PaymentMethod:    t.PaymentMethod,
		Status:           t.Status,
		CreatedAt:        t.CreatedAt,
	}
}
