package dto

import (
	"time"

	"bengkel/internal/domains/booking/model"
	"bengkel/shared"
	gDto "bengkel/shared/dto"
	gModel "bengkel/shared/model"
	"bengkel/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	ServiceID          string   `json:"service_id"          validate:"required,uuid"`
	WorkshopID         string   `json:"workshop_id"         validate:"omitempty,uuid"`
	BookingType        string   `json:"booking_type"        validate:"required,oneof=instant scheduled"`
	ScheduledAt        string   `json:"scheduled_at"        validate:"omitempty,rfc3339"`
	Address            string   `json:"address"             validate:"required,max=1000"`
	Latitude           *float64 `json:"latitude"            validate:"required,latitude"`
	Longitude          *float64 `json:"longitude"           validate:"required,longitude"`
	ProblemDescription string   `json:"problem_description" validate:"omitempty,max=2000"`
}

func (c *CreateBookingRequest) ToModel(user string, estimatedPrice decimal.NullDecimal) (model.Booking, error) {
	var scheduledAt *time.Time

	if c.BookingType == model.TypeScheduled {
		at, err := timezone.Parse(time.RFC3339, c.ScheduledAt)
		if err != nil {
			return model.Booking{}, err
		}

		scheduledAt = &at
	}

	var lat, lng float64
	if c.Latitude != nil && c.Longitude != nil {
		lat, lng = *c.Latitude, *c.Longitude
	}

	now := timezone.Now()

	return model.Booking{
		ID:                 uuid.NewString(),
		UserID:             user,
		WorkshopID:         shared.NullableString(c.WorkshopID),
		ServiceID:          c.ServiceID,
		BookingType:        c.BookingType,
		ScheduledAt:        scheduledAt,
		Status:             model.StatusPending,
		Address:            c.Address,
		Latitude:           lat,
		Longitude:          lng,
		ProblemDescription: shared.NullableString(c.ProblemDescription),
		EstimatedPrice:     estimatedPrice,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateStatusRequest struct {
	Status             string `json:"status"              validate:"required,oneof=searching in_progress completed cancelled"`
	Note               string `json:"note"                validate:"omitempty,max=1000"`
	CancellationReason string `json:"cancellation_reason" validate:"omitempty,max=1000"`
}

type SetFinalPriceRequest struct {
	FinalPrice decimal.Decimal `json:"final_price" validate:"money_positive"`
}

type BookingResponse struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"user_id"`
	MechanicID         *string             `json:"mechanic_id"`
	WorkshopID         *string             `json:"workshop_id"`
	ServiceID          string              `json:"service_id"`
	BookingType        string              `json:"booking_type"`
	ScheduledAt        *string             `json:"scheduled_at"`
	Status             string              `json:"status"`
	Address            string              `json:"address"`
	Latitude           float64             `json:"latitude"`
	Longitude          float64             `json:"longitude"`
	ProblemDescription *string             `json:"problem_description"`
	EstimatedPrice     decimal.NullDecimal `json:"estimated_price"`
	FinalPrice         decimal.NullDecimal `json:"final_price"`
	CompletedAt        *string             `json:"completed_at"`
	CancelledAt        *string             `json:"cancelled_at"`
	CancellationReason *string             `json:"cancellation_reason"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.MechanicID = model.MechanicID
	r.WorkshopID = model.WorkshopID
	r.ServiceID = model.ServiceID
	r.BookingType = model.BookingType
	r.ScheduledAt = formatTime(model.ScheduledAt)
	r.Status = model.Status.String()
	r.Address = model.Address
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.ProblemDescription = model.ProblemDescription
	r.EstimatedPrice = model.EstimatedPrice
	r.FinalPrice = model.FinalPrice
	r.CompletedAt = formatTime(model.CompletedAt)
	r.CancelledAt = formatTime(model.CancelledAt)
	r.CancellationReason = model.CancellationReason
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type HistoryResponse struct {
	ID        string  `json:"id"`
	BookingID string  `json:"booking_id"`
	Status    string  `json:"status"`
	Note      *string `json:"note"`
	ChangedBy *string `json:"changed_by"`
	CreatedAt string  `json:"created_at"`
}

func (r *HistoryResponse) FromModel(model model.History) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Status = model.Status.String()
	r.Note = model.Note
	r.ChangedBy = model.ChangedBy
	r.CreatedAt = timezone.Format(model.CreatedAt, time.RFC3339)
}

// StatusChanged is the payload of a booking.status_changed event.
type StatusChanged struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Note      *string `json:"note,omitempty"`
	ChangedBy *string `json:"changed_by,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, time.RFC3339)

	return &formatted
}
