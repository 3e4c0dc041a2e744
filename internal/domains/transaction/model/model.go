package model

import (
	"time"

	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "transactions"
	EntityName = "transaction"

	FieldID               = "id"
	FieldBookingID        = "booking_id"
	FieldStatus           = "status"
	FieldEscrowHeldAt     = "escrow_held_at"
	FieldEscrowReleasedAt = "escrow_released_at"
	FieldRefundedAt       = "refunded_at"
)

const (
	StatusPending  = "pending"
	StatusHeld     = "held"
	StatusReleased = "released"
	StatusRefunded = "refunded"
)

// FeePercent is the platform's cut of every escrowed amount.
const FeePercent = 10

// Transaction is the escrow record of a booking's payment.
type Transaction struct {
	ID               string          `db:"id"`
	BookingID        string          `db:"booking_id"`
	Amount           decimal.Decimal `db:"amount"`
	PlatformFee      decimal.Decimal `db:"platform_fee"`
	MechanicEarnings decimal.Decimal `db:"mechanic_earnings"`
	Status           string          `db:"status"`
	PaymentMethod    *string         `db:"payment_method"`
	PaymentReference *string         `db:"payment_reference"`
	EscrowHeldAt     *time.Time      `db:"escrow_held_at"`
	EscrowReleasedAt *time.Time      `db:"escrow_released_at"`
	RefundedAt       *time.Time      `db:"refunded_at"`
	model.Metadata
}

// SplitFee divides amount into the platform fee, rounded to cents, and the mechanic's share.
func SplitFee(amount decimal.Decimal) (fee, earnings decimal.Decimal) {
	fee = amount.Mul(decimal.NewFromInt(FeePercent)).Div(decimal.NewFromInt(100)).Round(2)

	return fee, amount.Sub(fee)
}
