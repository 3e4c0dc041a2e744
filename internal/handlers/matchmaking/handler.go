package matchmaking

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/matchmaking/model/dto"
	"bengkel/internal/domains/matchmaking/service"
	"bengkel/shared/constant"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Matchmaker
	otel    otel.Otel
}

func New(service service.Matchmaker, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/bookings/{bookingID}/mechanics", handler.FindMechanics)
	router.Post("/bookings/{bookingID}/notify", handler.NotifyMechanics)
}

// FindMechanics ranks available mechanics around the booking location.
// @Summary Find mechanics for a booking
// @Tags Matchmaking
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param radius query number false "Search radius in km"
// @Param limit query int false "Maximum mechanics returned"
// @Success 200 {object} response.Data[[]dto.MatchResponse]
// @Router /v1/bookings/{bookingID}/mechanics [get]
// @Security BearerAuth
func (handler *Handler) FindMechanics(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".FindMechanics")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	req := dto.FindRequest{}
	req.FromRequest(request)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	matches, err := handler.service.FindMechanics(ctx, bookingID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to find mechanics")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, matches)
}

// NotifyMechanics sends offers to the nearest mechanics; the body is optional.
// @Summary Notify nearby mechanics
// @Tags Matchmaking
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param request body dto.NotifyRequest false "Notify Request"
// @Success 200 {object} response.Data[dto.NotifyResponse]
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{bookingID}/notify [post]
// @Security BearerAuth
func (handler *Handler) NotifyMechanics(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".NotifyMechanics")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	req := dto.NotifyRequest{}

	if request.ContentLength != 0 {
		if err := validator.Validate(request.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(writer, err)

			return
		}
	}

	res, err := handler.service.NotifyMechanics(ctx, bookingID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to notify mechanics")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
