package dto

import (
	"time"

	"bengkel/internal/domains/transaction/model"
	"bengkel/shared"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HoldRequest struct {
	Amount           decimal.Decimal `json:"amount"            validate:"money_positive"`
	PaymentMethod    string          `json:"payment_method"    validate:"omitempty,max=50"`
	PaymentReference string          `json:"payment_reference" validate:"omitempty,max=255"`
}

func (r *HoldRequest) ToModel(bookingID, user string) model.Transaction {
	now := timezone.Now()
	fee, earnings := model.SplitFee(r.Amount)

	return model.Transaction{
		ID:               uuid.NewString(),
		BookingID:        bookingID,
		Amount:           r.Amount,
		PlatformFee:      fee,
		MechanicEarnings: earnings,
		Status:           model.StatusHeld,
		PaymentMethod:    shared.NullableString(r.PaymentMethod),
		PaymentReference: shared.NullableString(r.PaymentReference),
		EscrowHeldAt:     &now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// PaymentConfirmed is consumed from the payment provider's topic.
type PaymentConfirmed struct {
	BookingID        string          `json:"booking_id"        validate:"required,uuid"`
	Amount           decimal.Decimal `json:"amount"            validate:"money_positive"`
	PaymentMethod    string          `json:"payment_method"    validate:"omitempty,max=50"`
	PaymentReference string          `json:"payment_reference" validate:"omitempty,max=255"`
}

func (p PaymentConfirmed) HoldRequest() HoldRequest {
	return HoldRequest{
		Amount:           p.Amount,
		PaymentMethod:    p.PaymentMethod,
		PaymentReference: p.PaymentReference,
	}
}

type TransactionResponse struct {
	ID               string          `json:"id"`
	BookingID        string          `json:"booking_id"`
	Amount           decimal.Decimal `json:"amount"`
	PlatformFee      decimal.Decimal `json:"platform_fee"`
	MechanicEarnings decimal.Decimal `json:"mechanic_earnings"`
	Status           string          `json:"status"`
	PaymentMethod    *string         `json:"payment_method"`
	PaymentReference *string         `json:"payment_reference"`
	EscrowHeldAt     *string         `json:"escrow_held_at"`
	EscrowReleasedAt *string         `json:"escrow_released_at"`
	RefundedAt       *string         `json:"refunded_at"`
	gDto.Metadata
}

func (r *TransactionResponse) FromModel(model model.Transaction) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Amount = model.Amount
	r.PlatformFee = model.PlatformFee
	r.MechanicEarnings = model.MechanicEarnings
	r.Status = model.Status
	r.PaymentMethod = model.PaymentMethod
	r.PaymentReference = model.PaymentReference
	r.EscrowHeldAt = formatTime(model.EscrowHeldAt)
	r.EscrowReleasedAt = formatTime(model.EscrowReleasedAt)
	r.RefundedAt = formatTime(model.RefundedAt)
	r.Metadata.FromModel(model.Metadata)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, time.RFC3339)

	return &formatted
}
