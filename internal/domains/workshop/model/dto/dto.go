package dto

import (
	"bengkel/internal/domains/workshop/model"
	"bengkel/shared"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WorkshopResponse struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	Name                string          `json:"name"`
	Description         *string         `json:"description"`
	Address             string          `json:"address"`
	Latitude            *float64        `json:"latitude"`
	Longitude           *float64        `json:"longitude"`
	Phone               *string         `json:"phone"`
	OperatingHoursStart *string         `json:"operating_hours_start"`
	OperatingHoursEnd   *string         `json:"operating_hours_end"`
	Rating              decimal.Decimal `json:"rating"`
	TotalReviews        int             `json:"total_reviews"`
	IsActive            bool            `json:"is_active"`
	gDto.Metadata
}

func (r *WorkshopResponse) FromModel(model model.Workshop) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Name = model.Name
	r.Description = model.Description
	r.Address = model.Address
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.Phone = model.Phone
	r.OperatingHoursStart = model.OperatingHoursStart
	r.OperatingHoursEnd = model.OperatingHoursEnd
	r.Rating = model.Rating
	r.TotalReviews = model.TotalReviews
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

// WorkshopDetailResponse is a workshop together with the services it offers.
type WorkshopDetailResponse struct {
	WorkshopResponse
	Services []ListingResponse `json:"services"`
}

type GetWorkshopsResponse struct {
	Workshops []WorkshopResponse `json:"workshops"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetWorkshopsResponse) FromModels(models []model.Workshop, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Workshops = make([]WorkshopResponse, len(models))
	for i, mod := range models {
		r.Workshops[i].FromModel(mod)
	}
}

// UpdateProfileRequest only carries the columns an owner may edit; zero values are left untouched.
type UpdateProfileRequest struct {
	Name                string   `db:"name"                  json:"name"                  validate:"omitempty,max=255"`
	Description         string   `db:"description"           json:"description"           validate:"omitempty,max=2000"`
	Address             string   `db:"address"               json:"address"               validate:"omitempty,max=1000"`
	Latitude            *float64 `db:"latitude"              json:"latitude"              validate:"omitempty,latitude"`
	Longitude           *float64 `db:"longitude"             json:"longitude"             validate:"omitempty,longitude"`
	Phone               string   `db:"phone"                 json:"phone"                 validate:"omitempty,max=20"`
	OperatingHoursStart string   `db:"operating_hours_start" json:"operating_hours_start" validate:"omitempty,datetime=15:04"`
	OperatingHoursEnd   string   `db:"operating_hours_end"   json:"operating_hours_end"   validate:"omitempty,datetime=15:04"`
}

type AddListingRequest struct {
	ServiceID string          `json:"service_id" validate:"required,uuid"`
	Price     decimal.Decimal `json:"price"      validate:"money_positive"`
}

func (r *AddListingRequest) ToModel(workshopID, user string) model.Listing {
	now := timezone.Now()

	return model.Listing{
		ID:         uuid.NewString(),
		WorkshopID: workshopID,
		ServiceID:  r.ServiceID,
		Price:      r.Price,
		IsActive:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ListingResponse struct {
	ID         string          `json:"id"`
	WorkshopID string          `json:"workshop_id"`
	ServiceID  string          `json:"service_id"`
	Price      decimal.Decimal `json:"price"`
	IsActive   bool            `json:"is_active"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(model model.Listing) {
	r.ID = model.ID
	r.WorkshopID = model.WorkshopID
	r.ServiceID = model.ServiceID
	r.Price = model.Price
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}
