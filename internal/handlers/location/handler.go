package location

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/location/model/dto"
	"bengkel/internal/domains/location/service"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Tracker
	otel    otel.Otel
}

func New(service service.Tracker, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/locations/track", handler.Track)
	router.Get("/locations/booking/{bookingID}", handler.GetBookingLocations)
	router.Get("/locations/mechanic/{id}/latest", handler.GetMechanicLatest)
}

// Track records the caller's current position.
// @Summary Track mechanic location
// @Tags Location
// @Accept json
// @Produce json
// @Param request body dto.TrackRequest true "Track Request"
// @Success 201 {object} response.Data[dto.LocationResponse]
// @Failure 403 {object} response.Error
// @Router /v1/locations/track [post]
// @Security BearerAuth
func (handler *Handler) Track(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Track")
	defer scope.End()

	req := dto.TrackRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	location, err := handler.service.Track(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to track location")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, location)
}

// GetBookingLocations returns the positions reported while a booking was worked, newest first.
// @Router /v1/locations/booking/{bookingID} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingLocations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingLocations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, false)

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	locations, err := handler.service.GetBookingLocations(ctx, bookingID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking locations")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, locations)
}

func (handler *Handler) GetMechanicLatest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMechanicLatestLocation")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	location, err := handler.service.GetMechanicLatest(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get latest mechanic location")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, location)
}
