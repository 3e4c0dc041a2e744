package offer

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/offer/model/dto"
	"bengkel/internal/domains/offer/service"
	"bengkel/shared/constant"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Manager
	otel    otel.Otel
}

func New(service service.Manager, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/bookings/{bookingID}/offers", handler.CreateOffer)
	router.Get("/bookings/{bookingID}/offers", handler.GetOffers)
	router.Patch("/offers/{offerID}/respond", handler.RespondOffer)
}

// CreateOffer sends a priced offer for a booking to one mechanic.
// @Summary Create an offer
// @Tags Offer
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param request body dto.CreateOfferRequest true "Create Offer Request"
// @Success 201 {object} response.Data[dto.OfferResponse]
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{bookingID}/offers [post]
// @Security BearerAuth
func (handler *Handler) CreateOffer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOffer")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	req := dto.CreateOfferRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	offer, err := handler.service.Create(ctx, bookingID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create offer")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Offer " + offer.ID + " sent to mechanic " + offer.MechanicID)

	response.WithJSON(writer, http.StatusCreated, offer)
}

// GetOffers lists every offer made for a booking.
// @Router /v1/bookings/{bookingID}/offers [get]
// @Security BearerAuth
func (handler *Handler) GetOffers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOffers")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	offers, err := handler.service.GetByBooking(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get offers")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, offers)
}

// RespondOffer accepts or rejects a pending offer.
// @Summary Respond to an offer
// @Tags Offer
// @Accept json
// @Produce json
// @Param offerID path string true "Offer ID"
// @Param request body dto.RespondRequest true "Respond Request"
// @Success 200 {object} response.Data[dto.OfferResponse]
// @Failure 403 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/offers/{offerID}/respond [patch]
// @Security BearerAuth
func (handler *Handler) RespondOffer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RespondOffer")
	defer scope.End()

	offerID := chi.URLParam(request, constant.RequestParamOfferID)

	req := dto.RespondRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	offer, err := handler.service.Respond(ctx, offerID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to respond to offer")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Offer " + offerID + " " + offer.Status)

	response.WithJSON(writer, http.StatusOK, offer)
}
