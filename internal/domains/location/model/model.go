package model

import "bengkel/shared/model"

const (
	TableName  = "location_logs"
	EntityName = "location log"

	FieldID         = "id"
	FieldMechanicID = "mechanic_id"
	FieldBookingID  = "booking_id"
	FieldCreatedAt  = "created_at"
)

// Log is one position report from a mechanic, optionally tied to the booking being worked.
type Log struct {
	ID         string   `db:"id"`
	MechanicID string   `db:"mechanic_id"`
	BookingID  *string  `db:"booking_id"`
	Latitude   float64  `db:"latitude"`
	Longitude  float64  `db:"longitude"`
	Accuracy   *float64 `db:"accuracy"`
	model.Metadata
}
