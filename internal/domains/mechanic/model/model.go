package model

import (
	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "mechanics"
	EntityName = "mechanic"

	FieldID                 = "id"
	FieldUserID             = "user_id"
	FieldStatus             = "status"
	FieldLatitude           = "latitude"
	FieldLongitude          = "longitude"
	FieldRating             = "rating"
	FieldTotalReviews       = "total_reviews"
	FieldTotalJobsCompleted = "total_jobs_completed"
	FieldIsVerified         = "is_verified"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusBusy    = "busy"
)

type Mechanic struct {
	ID                 string          `db:"id"`
	UserID             string          `db:"user_id"`
	Status             string          `db:"status"`
	Latitude           *float64        `db:"latitude"`
	Longitude          *float64        `db:"longitude"`
	Bio                *string         `db:"bio"`
	ExperienceYears    int             `db:"experience_years"`
	Rating             decimal.Decimal `db:"rating"`
	TotalReviews       int             `db:"total_reviews"`
	TotalJobsCompleted int             `db:"total_jobs_completed"`
	KtpNumber          *string         `db:"ktp_number"`
	BankName           *string         `db:"bank_name"`
	BankAccountNumber  *string         `db:"bank_account_number"`
	BankAccountName    *string         `db:"bank_account_name"`
	IsVerified         bool            `db:"is_verified"`
	model.Metadata
}

// Eligible reports whether the mechanic may receive offers.
func (m Mechanic) Eligible() bool {
	return m.Status == StatusOnline && m.IsVerified
}

// Located reports whether the mechanic has shared coordinates.
func (m Mechanic) Located() bool {
	return m.Latitude != nil && m.Longitude != nil
}
