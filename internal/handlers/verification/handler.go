package verification

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/verification/model/dto"
	"bengkel/internal/domains/verification/service"
	"bengkel/shared/constant"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Verifier
	otel    otel.Otel
}

func New(service service.Verifier, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/verifications/submit", handler.Submit)
	router.Get("/verifications/{id}", handler.GetByMechanic)
	router.Patch("/verifications/{id}/review", handler.Review)
}

// Submit files identity documents for the caller's mechanic profile.
// @Summary Submit verification documents
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body dto.SubmitRequest true "Submit Request"
// @Success 201 {object} response.Data[dto.VerificationResponse]
// @Failure 409 {object} response.Error
// @Router /v1/verifications/submit [post]
// @Security BearerAuth
func (handler *Handler) Submit(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitVerification")
	defer scope.End()

	req := dto.SubmitRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	verification, err := handler.service.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit verification")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, verification)
}

// GetByMechanic returns the submission of the mechanic with the given id.
// @Router /v1/verifications/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetByMechanic(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVerification")
	defer scope.End()

	mechanicID := chi.URLParam(request, constant.RequestParamID)

	verification, err := handler.service.GetByMechanic(ctx, mechanicID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get verification")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, verification)
}

// Review approves or rejects a pending submission.
// @Router /v1/verifications/{id}/review [patch]
// @Security BearerAuth
func (handler *Handler) Review(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReviewVerification")
	defer scope.End()

	req := dto.ReviewRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	verification, err := handler.service.Review(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to review verification")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, verification)
}
