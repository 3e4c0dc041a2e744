package model

import (
	"time"

	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldUserID             = "user_id"
	FieldMechanicID         = "mechanic_id"
	FieldWorkshopID         = "workshop_id"
	FieldServiceID          = "service_id"
	FieldStatus             = "status"
	FieldEstimatedPrice     = "estimated_price"
	FieldFinalPrice         = "final_price"
	FieldCompletedAt        = "completed_at"
	FieldCancelledAt        = "cancelled_at"
	FieldCancellationReason = "cancellation_reason"
)

const (
	TypeInstant   = "instant"
	TypeScheduled = "scheduled"
)

type Booking struct {
	ID                 string              `db:"id"`
	UserID             string              `db:"user_id"`
	MechanicID         *string             `db:"mechanic_id"`
	WorkshopID         *string             `db:"workshop_id"`
	ServiceID          string              `db:"service_id"`
	BookingType        string              `db:"booking_type"`
	ScheduledAt        *time.Time          `db:"scheduled_at"`
	Status             Status              `db:"status"`
	Address            string              `db:"address"`
	Latitude           float64             `db:"latitude"`
	Longitude          float64             `db:"longitude"`
	ProblemDescription *string             `db:"problem_description"`
	EstimatedPrice     decimal.NullDecimal `db:"estimated_price"`
	FinalPrice         decimal.NullDecimal `db:"final_price"`
	CompletedAt        *time.Time          `db:"completed_at"`
	CancelledAt        *time.Time          `db:"cancelled_at"`
	CancellationReason *string             `db:"cancellation_reason"`
	model.Metadata
}

// AssignedMechanic returns the mechanic id, or empty when none is assigned.
func (b Booking) AssignedMechanic() string {
	if b.MechanicID == nil {
		return ""
	}

	return *b.MechanicID
}
