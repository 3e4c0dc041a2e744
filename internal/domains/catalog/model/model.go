package model

import (
	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "services"
	EntityName = "service"

	FieldID         = "id"
	FieldCategoryID = "category_id"
	FieldName       = "name"
	FieldIsActive   = "is_active"
)

type Service struct {
	ID                string              `db:"id"`
	CategoryID        string              `db:"category_id"`
	Name              string              `db:"name"`
	Description       *string             `db:"description"`
	EstimatedDuration *int                `db:"estimated_duration"`
	BasePrice         decimal.NullDecimal `db:"base_price"`
	IsActive          bool                `db:"is_active"`
	model.Metadata
}
