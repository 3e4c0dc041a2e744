package dto

import (
	"bengkel/internal/domains/review/model"
	"bengkel/shared"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string `json:"comment"    validate:"omitempty,max=2000"`
}

func (r *CreateReviewRequest) ToModel(user string, mechanicID, workshopID *string) model.Review {
	now := timezone.Now()

	return model.Review{
		ID:         uuid.NewString(),
		BookingID:  r.BookingID,
		UserID:     user,
		MechanicID: mechanicID,
		WorkshopID: workshopID,
		Rating:     r.Rating,
		Comment:    shared.NullableString(r.Comment),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ReviewResponse struct {
	ID         string  `json:"id"`
	BookingID  string  `json:"booking_id"`
	UserID     string  `json:"user_id"`
	MechanicID *string `json:"mechanic_id"`
	WorkshopID *string `json:"workshop_id"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.UserID = model.UserID
	r.MechanicID = model.MechanicID
	r.WorkshopID = model.WorkshopID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}
