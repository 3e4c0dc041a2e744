package dto

import (
	"bengkel/internal/domains/location/model"
	"bengkel/shared"
	"bengkel/shared/constant"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
)

const DefaultHistoryLimit = 100

type TrackRequest struct {
	BookingID string   `json:"booking_id" validate:"omitempty,uuid"`
	Latitude  *float64 `json:"latitude"   validate:"required,latitude"`
	Longitude *float64 `json:"longitude"  validate:"required,longitude"`
	Accuracy  *float64 `json:"accuracy"   validate:"omitempty,gte=0"`
}

func (r *TrackRequest) ToModel(mechanicID, user string) model.Log {
	now := timezone.Now()

	log := model.Log{
		ID:         uuid.NewString(),
		MechanicID: mechanicID,
		Accuracy:   r.Accuracy,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if r.Latitude != nil && r.Longitude != nil {
		log.Latitude, log.Longitude = *r.Latitude, *r.Longitude
	}

	if r.BookingID != constant.Empty {
		bookingID := r.BookingID
		log.BookingID = &bookingID
	}

	return log
}

type LocationResponse struct {
	ID         string   `json:"id"`
	MechanicID string   `json:"mechanic_id"`
	BookingID  *string  `json:"booking_id"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Accuracy   *float64 `json:"accuracy"`
	RecordedAt string   `json:"recorded_at"`
}

func (r *LocationResponse) FromModel(model model.Log) {
	r.ID = model.ID
	r.MechanicID = model.MechanicID
	r.BookingID = model.BookingID
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.Accuracy = model.Accuracy
	r.RecordedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetLocationsResponse struct {
	Locations []LocationResponse `json:"locations"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetLocationsResponse) FromModels(models []model.Log, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Locations = make([]LocationResponse, len(models))
	for i, mod := range models {
		r.Locations[i].FromModel(mod)
	}
}
