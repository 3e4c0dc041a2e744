package workshop

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/workshop/model"
	"bengkel/internal/domains/workshop/model/dto"
	"bengkel/internal/domains/workshop/service"
	"bengkel/shared"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Profile
	otel    otel.Otel
}

func New(service service.Profile, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/workshops", handler.GetWorkshops)
	router.Put("/workshops/profile", handler.UpdateProfile)
	router.Post("/workshops/services", handler.AddListing)
	router.Delete("/workshops/services/{serviceID}", handler.RemoveListing)
	router.Get("/workshops/{id}", handler.GetWorkshopByID)
}

// GetWorkshops lists workshops, best rated first unless sort_by says otherwise.
// @Summary Get workshops
// @Tags Workshop
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param is_active query bool false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetWorkshopsResponse]
// @Router /v1/workshops [get]
func (handler *Handler) GetWorkshops(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWorkshops")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if active := shared.ConvertStringToBool(request.URL.Query().Get(constant.RequestParamActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	workshops, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get workshops")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, workshops)
}

// GetWorkshopByID returns a workshop and the services it offers.
// @Summary Get workshop
// @Tags Workshop
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} response.Data[dto.WorkshopDetailResponse]
// @Failure 404 {object} response.Error
// @Router /v1/workshops/{id} [get]
func (handler *Handler) GetWorkshopByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWorkshopByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	workshop, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get workshop by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, workshop)
}

// UpdateProfile edits the caller's workshop.
// @Router /v1/workshops/profile [put]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateWorkshopProfile")
	defer scope.End()

	req := dto.UpdateProfileRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	workshop, err := handler.service.UpdateProfile(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update workshop profile")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, workshop)
}

// AddListing adds a catalog service to the caller's workshop.
// @Summary Add a workshop service
// @Tags Workshop
// @Accept json
// @Produce json
// @Param request body dto.AddListingRequest true "Add Listing Request"
// @Success 201 {object} response.Data[dto.ListingResponse]
// @Failure 409 {object} response.Error
// @Router /v1/workshops/services [post]
// @Security BearerAuth
func (handler *Handler) AddListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddWorkshopListing")
	defer scope.End()

	req := dto.AddListingRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	listing, err := handler.service.AddListing(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add workshop service")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, listing)
}

func (handler *Handler) RemoveListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveWorkshopListing")
	defer scope.End()

	serviceID := chi.URLParam(request, constant.RequestParamServiceID)

	if err := handler.service.RemoveListing(ctx, serviceID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove workshop service")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Service removed successfully")
}
