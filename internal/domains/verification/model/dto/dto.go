package dto

import (
	"time"

	"bengkel/internal/domains/verification/model"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
)

type SubmitRequest struct {
	KTPNumber      string `json:"ktp_number"       validate:"required,numeric,len=16"`
	KTPImageURL    string `json:"ktp_image_url"    validate:"required,url,max=500"`
	SelfieImageURL string `json:"selfie_image_url" validate:"required,url,max=500"`
}

func (r *SubmitRequest) ToModel(mechanicID, user string) model.Verification {
	now := timezone.Now()

	return model.Verification{
		ID:             uuid.NewString(),
		MechanicID:     mechanicID,
		KTPNumber:      r.KTPNumber,
		KTPImageURL:    r.KTPImageURL,
		SelfieImageURL: r.SelfieImageURL,
		Status:         model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ReviewRequest struct {
	Status          string `json:"status"           validate:"required,oneof=approved rejected"`
	RejectionReason string `json:"rejection_reason" validate:"required_if=Status rejected,max=1000"`
}

type VerificationResponse struct {
	ID              string  `json:"id"`
	MechanicID      string  `json:"mechanic_id"`
	KTPNumber       string  `json:"ktp_number"`
	KTPImageURL     string  `json:"ktp_image_url"`
	SelfieImageURL  string  `json:"selfie_image_url"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason"`
	ReviewedBy      *string `json:"reviewed_by"`
	ReviewedAt      *string `json:"reviewed_at"`
	gDto.Metadata
}

func (r *VerificationResponse) FromModel(model model.Verification) {
	r.ID = model.ID
	r.MechanicID = model.MechanicID
	r.KTPNumber = model.KTPNumber
	r.KTPImageURL = model.KTPImageURL
	r.SelfieImageURL = model.SelfieImageURL
	r.Status = model.Status
	r.RejectionReason = model.RejectionReason
	r.ReviewedBy = model.ReviewedBy
	r.Metadata.FromModel(model.Metadata)

	if model.ReviewedAt != nil {
		reviewed := timezone.Format(*model.ReviewedAt, time.RFC3339)
		r.ReviewedAt = &reviewed
	}
}
