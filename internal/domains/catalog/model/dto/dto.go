package dto

import (
	"bengkel/internal/domains/catalog/model"
	"bengkel/shared"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceResponse struct {
	ID                string              `json:"id"`
	CategoryID        string              `json:"category_id"`
	Name              string              `json:"name"`
	Description       *string             `json:"description"`
	EstimatedDuration *int                `json:"estimated_duration"`
	BasePrice         decimal.NullDecimal `json:"base_price"`
	IsActive          bool                `json:"is_active"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.CategoryID = model.CategoryID
	r.Name = model.Name
	r.Description = model.Description
	r.EstimatedDuration = model.EstimatedDuration
	r.BasePrice = model.BasePrice
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	IsActive    bool    `json:"is_active"`
	gDto.Metadata
}

func (r *CategoryResponse) FromModel(model model.Category) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Icon = model.Icon
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

// CategoryDetailResponse is a category together with its active services.
type CategoryDetailResponse struct {
	CategoryResponse
	Services []ServiceResponse `json:"services"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon"        validate:"omitempty,max=255"`
}

func (r *CreateCategoryRequest) ToModel(user string) model.Category {
	now := timezone.Now()

	return model.Category{
		ID:          uuid.NewString(),
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		IsActive:    true,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateCategoryRequest leaves nil fields untouched.
type UpdateCategoryRequest struct {
	Name        *string `db:"name"        json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string `db:"description" json:"description" validate:"omitempty,max=1000"`
	Icon        *string `db:"icon"        json:"icon"        validate:"omitempty,max=255"`
	IsActive    *bool   `db:"is_active"   json:"is_active"`
}
