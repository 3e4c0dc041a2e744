package withdrawal

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/withdrawal/model"
	"bengkel/internal/domains/withdrawal/model/dto"
	"bengkel/internal/domains/withdrawal/service"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payout
	otel    otel.Otel
}

func New(service service.Payout, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/withdrawals", handler.RequestWithdrawal)
	router.Get("/withdrawals", handler.GetWithdrawals)
	router.Patch("/withdrawals/{id}/process", handler.ProcessWithdrawal)
}

// RequestWithdrawal asks for part of the wallet balance to be paid out.
// @Summary Request a withdrawal
// @Tags Withdrawal
// @Accept json
// @Produce json
// @Param request body dto.RequestWithdrawal true "Withdrawal Request"
// @Success 201 {object} response.Data[dto.WithdrawalResponse]
// @Failure 402 {object} response.Error
// @Router /v1/withdrawals [post]
// @Security BearerAuth
func (handler *Handler) RequestWithdrawal(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RequestWithdrawal")
	defer scope.End()

	req := dto.RequestWithdrawal{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	withdrawal, err := handler.service.Request(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to request withdrawal")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, withdrawal)
}

// GetWithdrawals lists withdrawals; mechanics only see their own.
// @Router /v1/withdrawals [get]
// @Security BearerAuth
func (handler *Handler) GetWithdrawals(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWithdrawals")
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

	withdrawals, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get withdrawals")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, withdrawals)
}

// ProcessWithdrawal moves a withdrawal forward; completing it debits the wallet.
// @Summary Process a withdrawal
// @Tags Withdrawal
// @Accept json
// @Produce json
// @Param id path string true "Withdrawal ID"
// @Param request body dto.ProcessRequest true "Process Request"
// @Success 200 {object} response.Data[dto.WithdrawalResponse]
// @Failure 402 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/withdrawals/{id}/process [patch]
// @Security BearerAuth
func (handler *Handler) ProcessWithdrawal(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ProcessWithdrawal")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.ProcessRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	withdrawal, err := handler.service.Process(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to process withdrawal")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Withdrawal " + id + " " + withdrawal.Status)

	response.WithJSON(writer, http.StatusOK, withdrawal)
}
