package catalog

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/catalog/model"
	"bengkel/internal/domains/catalog/model/dto"
	"bengkel/internal/domains/catalog/service"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryCategoryID = "category_id"

type Handler struct {
	service service.Catalog
	otel    otel.Otel
}

func New(service service.Catalog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/services", handler.GetServices)
	router.Get("/services/{id}", handler.GetServiceByID)
	router.Get("/service-categories", handler.GetCategories)
	router.Get("/service-categories/{id}", handler.GetCategoryByID)
	router.Post("/service-categories", handler.CreateCategory)
	router.Put("/service-categories/{id}", handler.UpdateCategory)
}

// GetServices lists the active repair services.
// @Summary Get services
// @Tags Catalog
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category_id query string false "Filter by category"
// @Success 200 {object} response.Data[dto.GetServicesResponse]
// @Router /v1/services [get]
func (handler *Handler) GetServices(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldIsActive, Operator: gDto.FilterOperatorEq, Value: true, Table: model.TableName},
		},
	}

	if categoryID := request.URL.Query().Get(queryCategoryID); categoryID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategoryID,
			Operator: gDto.FilterOperatorEq,
			Value:    categoryID,
			Table:    model.TableName,
		})
	}

	services, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get services")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, services)
}

// GetServiceByID retrieves a service by its ID.
// @Router /v1/services/{id} [get]
func (handler *Handler) GetServiceByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServiceByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	svc, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, svc)
}

// GetCategories lists the active service categories.
// @Summary Get service categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Data[[]dto.CategoryResponse]
// @Router /v1/service-categories [get]
func (handler *Handler) GetCategories(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCategories")
	defer scope.End()

	categories, err := handler.service.GetCategories(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get categories")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, categories)
}

// GetCategoryByID returns a category with its active services.
// @Router /v1/service-categories/{id} [get]
func (handler *Handler) GetCategoryByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCategoryByID")
	defer scope.End()

	category, err := handler.service.GetCategory(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get category by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, category)
}

// CreateCategory adds a service category.
// @Summary Create service category
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} response.Data[dto.CategoryResponse]
// @Failure 409 {object} response.Error
// @Router /v1/service-categories [post]
// @Security BearerAuth
func (handler *Handler) CreateCategory(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCategory")
	defer scope.End()

	req := dto.CreateCategoryRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	category, err := handler.service.CreateCategory(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create category")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, category)
}

// UpdateCategory edits a service category; omitted fields keep their value.
// @Router /v1/service-categories/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateCategory(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCategory")
	defer scope.End()

	req := dto.UpdateCategoryRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	category, err := handler.service.UpdateCategory(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update category")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, category)
}
