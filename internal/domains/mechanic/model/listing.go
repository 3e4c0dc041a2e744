package model

import (
	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	ListingTableName  = "mechanic_services"
	ListingEntityName = "mechanic service"

	ListingFieldID         = "id"
	ListingFieldMechanicID = "mechanic_id"
	ListingFieldServiceID  = "service_id"
	ListingFieldIsActive   = "is_active"
)

// Listing is a mechanic's price for one catalog service.
type Listing struct {
	ID         string          `db:"id"`
	MechanicID string          `db:"mechanic_id"`
	ServiceID  string          `db:"service_id"`
	Price      decimal.Decimal `db:"price"`
	IsActive   bool            `db:"is_active"`
	model.Metadata
}
