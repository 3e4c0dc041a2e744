package dto

import (
	"time"

	"bengkel/internal/domains/offer/model"
	"bengkel/shared"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOfferRequest targets MechanicID; a mechanic caller may leave it empty to offer themself.
type CreateOfferRequest struct {
	MechanicID        string          `json:"mechanic_id"        validate:"omitempty,uuid"`
	Price             decimal.Decimal `json:"price"              validate:"money_positive"`
	EstimatedDuration *int            `json:"estimated_duration" validate:"omitempty,gt=0"`
	Message           string          `json:"message"            validate:"omitempty,max=1000"`
}

func (r *CreateOfferRequest) ToModel(bookingID, mechanicID, user string) model.Offer {
	return newOffer(bookingID, Candidate{MechanicID: mechanicID, Price: r.Price}, r.EstimatedDuration, r.Message, user)
}

type RespondRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// Candidate is a mechanic picked to receive an offer at Price.
type Candidate struct {
	MechanicID string
	Price      decimal.Decimal
}

// ToModel builds the pending offer sent to the candidate.
func (c Candidate) ToModel(bookingID, message, user string) model.Offer {
	return newOffer(bookingID, c, nil, message, user)
}

func newOffer(bookingID string, c Candidate, duration *int, message, user string) model.Offer {
	now := timezone.Now()

	return model.Offer{
		ID:                uuid.NewString(),
		BookingID:         bookingID,
		MechanicID:        c.MechanicID,
		Price:             c.Price,
		EstimatedDuration: duration,
		Message:           shared.NullableString(message),
		Status:            model.StatusPending,
		ExpiresAt:         now.Add(model.TTL),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type OfferResponse struct {
	ID                string          `json:"id"`
	BookingID         string          `json:"booking_id"`
	MechanicID        string          `json:"mechanic_id"`
	Price             decimal.Decimal `json:"price"`
	EstimatedDuration *int            `json:"estimated_duration"`
	Message           *string         `json:"message"`
	Status            string          `json:"status"`
	RespondedAt       *string         `json:"responded_at"`
	ExpiresAt         string          `json:"expires_at"`
	gDto.Metadata
}

func (r *OfferResponse) FromModel(model model.Offer) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.MechanicID = model.MechanicID
	r.Price = model.Price
	r.EstimatedDuration = model.EstimatedDuration
	r.Message = model.Message
	r.Status = model.Status
	r.ExpiresAt = timezone.Format(model.ExpiresAt, time.RFC3339)
	r.Metadata.FromModel(model.Metadata)

	if model.RespondedAt != nil {
		responded := timezone.Format(*model.RespondedAt, time.RFC3339)
		r.RespondedAt = &responded
	}
}

func FromModels(models []model.Offer) []OfferResponse {
	res := make([]OfferResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
