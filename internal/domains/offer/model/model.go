package model

import (
	"time"

	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "booking_offers"
	EntityName = "booking offer"

	FieldID          = "id"
	FieldBookingID   = "booking_id"
	FieldMechanicID  = "mechanic_id"
	FieldStatus      = "status"
	FieldRespondedAt = "responded_at"
	FieldExpiresAt   = "expires_at"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// TTL is how long a mechanic has to answer an offer.
const TTL = 15 * time.Minute

type Offer struct {
	ID                string          `db:"id"`
	BookingID         string          `db:"booking_id"`
	MechanicID        string          `db:"mechanic_id"`
	Price             decimal.Decimal `db:"price"`
	EstimatedDuration *int            `db:"estimated_duration"`
	Message           *string         `db:"message"`
	Status            string          `db:"status"`
	RespondedAt       *time.Time      `db:"responded_at"`
	ExpiresAt         time.Time       `db:"expires_at"`
	model.Metadata
}

// Expired reports whether the acceptance window closed before now.
func (o Offer) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
