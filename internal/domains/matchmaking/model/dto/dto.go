package dto

import (
	"net/http"
	"strconv"

	mechanicDto "bengkel/internal/domains/mechanic/model/dto"
	offerDto "bengkel/internal/domains/offer/model/dto"
	"bengkel/shared/constant"

	"github.com/shopspring/decimal"
)

const (
	DefaultFindRadiusKm   = 10
	DefaultFindLimit      = 10
	DefaultNotifyRadiusKm = 5
	DefaultNotifyLimit    = 5
	DefaultNotifyMessage  = "Automated matchmaking offer"
)

type FindRequest struct {
	RadiusKm float64 `json:"radius" validate:"omitempty,gt=0,lte=100"`
	Limit    int     `json:"limit"  validate:"omitempty,gt=0,lte=50"`
}

// FromRequest reads radius and limit from the query string, ignoring values that do not parse.
func (r *FindRequest) FromRequest(req *http.Request) {
	query := req.URL.Query()

	if radius, err := strconv.ParseFloat(query.Get(constant.RequestParamRadius), 64); err == nil {
		r.RadiusKm = radius
	}

	if limit, err := strconv.Atoi(query.Get(constant.RequestParamLimit)); err == nil {
		r.Limit = limit
	}
}

func (r *FindRequest) ApplyDefaults() {
	if r.RadiusKm <= 0 {
		r.RadiusKm = DefaultFindRadiusKm
	}

	if r.Limit <= 0 {
		r.Limit = DefaultFindLimit
	}
}

type NotifyRequest struct {
	RadiusKm float64 `json:"radius"  validate:"omitempty,gt=0,lte=100"`
	Limit    int     `json:"limit"   validate:"omitempty,gt=0,lte=50"`
	Message  string  `json:"message" validate:"omitempty,max=1000"`
}

func (r *NotifyRequest) ApplyDefaults() {
	if r.RadiusKm <= 0 {
		r.RadiusKm = DefaultNotifyRadiusKm
	}

	if r.Limit <= 0 {
		r.Limit = DefaultNotifyLimit
	}

	if r.Message == "" {
		r.Message = DefaultNotifyMessage
	}
}

// MatchResponse is a ranked mechanic with the price they list for the booked service.
type MatchResponse struct {
	mechanicDto.MechanicResponse
	Distance     float64             `json:"distance"`
	OfferedPrice decimal.NullDecimal `json:"offered_price"`
}

type NotifyResponse struct {
	NotifiedCount int                      `json:"notified_count"`
	Offers        []offerDto.OfferResponse `json:"offers"`
}
