package model

import (
	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "workshops"
	EntityName = "workshop"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldName         = "name"
	FieldRating       = "rating"
	FieldTotalReviews = "total_reviews"
	FieldIsActive     = "is_active"
)

type Workshop struct {
	ID                  string          `db:"id"`
	UserID              string          `db:"user_id"`
	Name                string          `db:"name"`
	Description         *string         `db:"description"`
	Address             string          `db:"address"`
	Latitude            *float64        `db:"latitude"`
	Longitude           *float64        `db:"longitude"`
	Phone               *string         `db:"phone"`
	OperatingHoursStart *string         `db:"operating_hours_start"`
	OperatingHoursEnd   *string         `db:"operating_hours_end"`
	Rating              decimal.Decimal `db:"rating"`
	TotalReviews        int             `db:"total_reviews"`
	IsActive            bool            `db:"is_active"`
	model.Metadata
}
