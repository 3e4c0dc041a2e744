package model

import (
	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID         = "id"
	FieldBookingID  = "booking_id"
	FieldMechanicID = "mechanic_id"
	FieldWorkshopID = "workshop_id"
	FieldRating     = "rating"
)

type Review struct {
	ID         string  `db:"id"`
	BookingID  string  `db:"booking_id"`
	UserID     string  `db:"user_id"`
	MechanicID *string `db:"mechanic_id"`
	WorkshopID *string `db:"workshop_id"`
	Rating     int     `db:"rating"`
	Comment    *string `db:"comment"`
	model.Metadata
}

// Stats aggregates every review of one mechanic or workshop.
type Stats struct {
	Average decimal.Decimal `db:"average"`
	Total   int             `db:"total"`
}

// Rating is the average rounded to two decimals, as stored on the reviewed profile.
func (s Stats) Rating() decimal.Decimal {
	return s.Average.Round(2)
}
