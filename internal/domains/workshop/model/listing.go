package model

import (
	"bengkel/shared/model"

	"github.com/shopspring/decimal"
)

const (
	ListingTableName  = "workshop_services"
	ListingEntityName = "workshop service"

	ListingFieldID         = "id"
	ListingFieldWorkshopID = "workshop_id"
	ListingFieldServiceID  = "service_id"
)

// Listing is a workshop's price for one catalog service.
type Listing struct {
	ID         string          `db:"id"`
	WorkshopID string          `db:"workshop_id"`
	ServiceID  string          `db:"service_id"`
	Price      decimal.Decimal `db:"price"`
	IsActive   bool            `db:"is_active"`
	model.Metadata
}
