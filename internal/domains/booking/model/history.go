package model

import "time"

const (
	HistoryTableName  = "booking_status_histories"
	HistoryEntityName = "booking status history"

	HistoryFieldID        = "id"
	HistoryFieldBookingID = "booking_id"
	HistoryFieldCreatedAt = "created_at"
)

// History is append-only.
type History struct {
	ID        string    `db:"id"`
	BookingID string    `db:"booking_id"`
	Status    Status    `db:"status"`
	Note      *string   `db:"note"`
	ChangedBy *string   `db:"changed_by"`
	CreatedAt time.Time `db:"created_at"`
}
