package mechanic

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/mechanic/model"
	"bengkel/internal/domains/mechanic/model/dto"
	"bengkel/internal/domains/mechanic/service"
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
	router.Get("/mechanics", handler.GetMechanics)
	router.Get("/mechanics/nearby", handler.GetNearbyMechanics)
	router.Get("/mechanics/me", handler.GetMyProfile)
	router.Patch("/mechanics/me", handler.UpdateProfile)
	router.Patch("/mechanics/me/status", handler.UpdateStatus)
	router.Patch("/mechanics/me/location", handler.UpdateLocation)
	router.Post("/mechanics/me/services", handler.AddListing)
	router.Delete("/mechanics/me/services/{serviceID}", handler.RemoveListing)
	router.Get("/mechanics/{id}", handler.GetMechanicByID)
	router.Get("/mechanics/{id}/services", handler.GetListings)
	router.Patch("/mechanics/{id}/verify", handler.VerifyMechanic)
}

// GetMechanics lists mechanic profiles.
// @Summary Get mechanics
// @Tags Mechanic
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (online, offline, busy)"
// @Param is_verified query bool false "Filter by verification"
// @Success 200 {object} response.Data[dto.GetMechanicsResponse]
// @Router /v1/mechanics [get]
// @Security BearerAuth
func (handler *Handler) GetMechanics(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMechanics")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status := request.URL.Query().Get(constant.RequestParamStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if verified := shared.ConvertStringToBool(request.URL.Query().Get(constant.RequestParamVerified)); verified != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsVerified,
			Operator: gDto.FilterOperatorEq,
			Value:    *verified,
			Table:    model.TableName,
		})
	}

	mechanics, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get mechanics")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, mechanics)
}

// GetNearbyMechanics returns online verified mechanics around a point, nearest first.
// @Summary Get nearby mechanics
// @Tags Mechanic
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param radius query number false "Radius in km"
// @Success 200 {object} response.Data[[]dto.NearbyMechanicResponse]
// @Router /v1/mechanics/nearby [get]
func (handler *Handler) GetNearbyMechanics(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNearbyMechanics")
	defer scope.End()

	req := dto.NearbyRequest{}
	req.FromRequest(request)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	mechanics, err := handler.service.Nearby(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get nearby mechanics")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, mechanics)
}

func (handler *Handler) GetMyProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyProfile")
	defer scope.End()

	mechanic, err := handler.service.GetMine(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get mechanic profile")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, mechanic)
}

// UpdateProfile updates the caller's bio, identity and bank details.
// @Router /v1/mechanics/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProfile")
	defer scope.End()

	req := dto.UpdateProfileRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.UpdateProfile(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update mechanic profile")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Profile updated successfully")
}

// UpdateStatus switches the caller online or offline.
// @Router /v1/mechanics/me/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMechanicStatus")
	defer scope.End()

	req := dto.UpdateStatusRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.SetStatus(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update mechanic status")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Status updated successfully")
}

// UpdateLocation stores the caller's current position.
// @Router /v1/mechanics/me/location [patch]
// @Security BearerAuth
func (handler *Handler) UpdateLocation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateLocation")
	defer scope.End()

	req := dto.UpdateLocationRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.UpdateLocation(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update mechanic location")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Location updated successfully")
}

// AddListing lists a catalog service the caller offers, at their own price.
// @Summary Add a service listing
// @Tags Mechanic
// @Accept json
// @Produce json
// @Param request body dto.AddListingRequest true "Add Listing Request"
// @Success 201 {object} response.Data[dto.ListingResponse]
// @Failure 409 {object} response.Error
// @Router /v1/mechanics/me/services [post]
// @Security BearerAuth
func (handler *Handler) AddListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddListing")
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
		log.Error().Err(err).Msg("failed to add service listing")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, listing)
}

func (handler *Handler) RemoveListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveListing")
	defer scope.End()

	serviceID := chi.URLParam(request, constant.RequestParamServiceID)

	if err := handler.service.RemoveListing(ctx, serviceID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove service listing")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Service removed successfully")
}

func (handler *Handler) GetMechanicByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMechanicByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	mechanic, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get mechanic by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, mechanic)
}

func (handler *Handler) GetListings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	listings, err := handler.service.GetListings(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service listings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, listings)
}

// VerifyMechanic marks a mechanic as verified after document review.
// @Router /v1/mechanics/{id}/verify [patch]
// @Security BearerAuth
func (handler *Handler) VerifyMechanic(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifyMechanic")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Verify(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify mechanic")

		response.WithError(writer, err)

		return
	}

	user, _ := shared.Actor(ctx)
	scope.AddEvent("Mechanic " + id + " verified by " + user)

	response.WithMessage(writer, http.StatusOK, "Mechanic verified successfully")
}
