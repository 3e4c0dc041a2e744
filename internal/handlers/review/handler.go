package review

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/review/model/dto"
	"bengkel/internal/domains/review/service"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reviewer
	otel    otel.Otel
}

func New(service service.Reviewer, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/reviews", handler.CreateReview)
	router.Get("/mechanics/{id}/reviews", handler.GetMechanicReviews)
	router.Get("/workshops/{id}/reviews", handler.GetWorkshopReviews)
}

// CreateReview rates a completed booking.
// @Summary Review a booking
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse]
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	req := dto.CreateReviewRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	review, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create review")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Review created for booking " + review.BookingID)

	response.WithJSON(writer, http.StatusCreated, review)
}

func (handler *Handler) GetMechanicReviews(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMechanicReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	reviews, err := handler.service.GetByMechanic(ctx, chi.URLParam(request, constant.RequestParamID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get mechanic reviews")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, reviews)
}

func (handler *Handler) GetWorkshopReviews(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWorkshopReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	reviews, err := handler.service.GetByWorkshop(ctx, chi.URLParam(request, constant.RequestParamID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get workshop reviews")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, reviews)
}
