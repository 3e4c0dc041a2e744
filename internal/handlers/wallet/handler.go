package wallet

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/wallet/service"
	"bengkel/shared/constant"
	gDto "bengkel/shared/dto"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ledger
	otel    otel.Otel
}

func New(service service.Ledger, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/wallet", handler.GetWallet)
	router.Get("/wallet/transactions", handler.GetTransactions)
}

// GetWallet returns the calling mechanic's balance and totals.
// @Summary Get my wallet
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.Data[dto.WalletResponse]
// @Failure 404 {object} response.Error
// @Router /v1/wallet [get]
// @Security BearerAuth
func (handler *Handler) GetWallet(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWallet")
	defer scope.End()

	wallet, err := handler.service.GetWallet(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get wallet")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, wallet)
}

// GetTransactions pages through the caller's ledger entries, newest first.
// @Router /v1/wallet/transactions [get]
// @Security BearerAuth
func (handler *Handler) GetTransactions(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWalletTransactions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	entries, err := handler.service.GetTransactions(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get wallet transactions")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, entries)
}
