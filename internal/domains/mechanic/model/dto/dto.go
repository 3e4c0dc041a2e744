package dto

import (
	"net/http"
	"strconv"

	"bengkel/internal/domains/mechanic/model"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MechanicResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Status             string          `json:"status"`
	Latitude           *float64        `json:"latitude"`
	Longitude          *float64        `json:"longitude"`
	Bio                *string         `json:"bio"`
	ExperienceYears    int             `json:"experience_years"`
	Rating             decimal.Decimal `json:"rating"`
	TotalReviews       int             `json:"total_reviews"`
	TotalJobsCompleted int             `json:"total_jobs_completed"`
	IsVerified         bool            `json:"is_verified"`
	gDto.Metadata
}

func (r *MechanicResponse) FromModel(model model.Mechanic) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Status = model.Status
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.Bio = model.Bio
	r.ExperienceYears = model.ExperienceYears
	r.Rating = model.Rating
	r.TotalReviews = model.TotalReviews
	r.TotalJobsCompleted = model.TotalJobsCompleted
	r.IsVerified = model.IsVerified
	r.Metadata.FromModel(model.Metadata)
}

type GetMechanicsResponse struct {
	Mechanics []MechanicResponse `json:"mechanics"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetMechanicsResponse) FromModels(models []model.Mechanic, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Mechanics = make([]MechanicResponse, len(models))
	for i, mod := range models {
		r.Mechanics[i].FromModel(mod)
	}
}

// UpdateProfileRequest only carries the columns a mechanic may edit; zero values are left untouched.
type UpdateProfileRequest struct {
	Bio               string `db:"bio"                 json:"bio"                 validate:"omitempty,max=1000"`
	ExperienceYears   int    `db:"experience_years"    json:"experience_years"    validate:"omitempty,gte=0,lte=80"`
	KtpNumber         string `db:"ktp_number"          json:"ktp_number"          validate:"omitempty,numeric,len=16"`
	BankName          string `db:"bank_name"           json:"bank_name"           validate:"omitempty,max=100"`
	BankAccountNumber string `db:"bank_account_number" json:"bank_account_number" validate:"omitempty,numeric,max=50"`
	BankAccountName   string `db:"bank_account_name"   json:"bank_account_name"   validate:"omitempty,max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=online offline"`
}

type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

const DefaultNearbyRadiusKm = 10

type NearbyRequest struct {
	Latitude  *float64 `validate:"required,latitude"`
	Longitude *float64 `validate:"required,longitude"`
	RadiusKm  float64  `validate:"gt=0,lte=100"`
}

func (r *NearbyRequest) FromRequest(req *http.Request) {
	query := req.URL.Query()

	if lat, err := strconv.ParseFloat(query.Get(constant.RequestParamLatitude), 64); err == nil {
		r.Latitude = &lat
	}

	if lng, err := strconv.ParseFloat(query.Get(constant.RequestParamLongitude), 64); err == nil {
		r.Longitude = &lng
	}

	r.RadiusKm = DefaultNearbyRadiusKm
	if radius, err := strconv.ParseFloat(query.Get(constant.RequestParamRadius), 64); err == nil {
		r.RadiusKm = radius
	}
}

type NearbyMechanicResponse struct {
	MechanicResponse
	Distance float64 `json:"distance"`
}

type AddListingRequest struct {
	ServiceID string          `json:"service_id" validate:"required,uuid"`
	Price     decimal.Decimal `json:"price"      validate:"money_positive"`
}

func (r *AddListingRequest) ToModel(mechanicID, user string) model.Listing {
	now := timezone.Now()

	return model.Listing{
		ID:         uuid.NewString(),
		MechanicID: mechanicID,
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
	MechanicID string          `json:"mechanic_id"`
	ServiceID  string          `json:"service_id"`
	Price      decimal.Decimal `json:"price"`
	IsActive   bool            `json:"is_active"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(model model.Listing) {
	r.ID = model.ID
	r.MechanicID = model.MechanicID
	r.ServiceID = model.ServiceID
	r.Price = model.Price
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}
