package model

import "bengkel/shared/model"

const (
	CategoryTableName  = "service_categories"
	CategoryEntityName = "service_category"

	CategoryFieldID       = "id"
	CategoryFieldName     = "name"
	CategoryFieldIsActive = "is_active"
)

type Category struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Icon        *string `db:"icon"`
	IsActive    bool    `db:"is_active"`
	model.Metadata
}
