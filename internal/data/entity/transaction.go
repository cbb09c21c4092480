package entity

import (
	"github.com/google/uuid"

	"court-booking/pkg/money"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// Payment methods recorded on a transaction
const (
	PaymentMethodStripe  = "stripe"
	PaymentMethodMock    = "mock"
	PaymentMethodVoucher = "voucher"
)

type Transaction struct {
	Base
	BookingID        uuid.UUID         `db:"booking_id"`
	Amount           money.Money       `db:"amount"`
	PaymentReference string            `db:"payment_reference"`
	PaymentMethod    string            `db:"payment_method"`
	Status           TransactionStatus `db:"status"`
}
