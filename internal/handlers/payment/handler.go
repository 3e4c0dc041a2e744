package payment

import (
	"net/http"

	"bengkel/infras/otel"
	"bengkel/internal/domains/transaction/model/dto"
	"bengkel/internal/domains/transaction/service"
	"bengkel/shared/constant"
	"bengkel/shared/validator"
	"bengkel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Escrow
	otel    otel.Otel
}

func New(service service.Escrow, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/bookings/{bookingID}/payment", handler.GetPayment)
	router.Post("/bookings/{bookingID}/payment", handler.HoldPayment)
	router.Post("/bookings/{bookingID}/payment/release", handler.ReleasePayment)
	router.Post("/bookings/{bookingID}/payment/refund", handler.RefundPayment)
}

// GetPayment returns the escrow record of a booking.
// @Router /v1/bookings/{bookingID}/payment [get]
// @Security BearerAuth
func (handler *Handler) GetPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayment")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	payment, err := handler.service.GetByBooking(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, payment)
}

// HoldPayment places a confirmed customer payment in escrow.
// @Summary Hold a payment in escrow
// @Tags Payment
// @Accept json
// @Produce json
// @Param bookingID path string true "Booking ID"
// @Param request body dto.HoldRequest true "Hold Request"
// @Success 201 {object} response.Data[dto.TransactionResponse]
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{bookingID}/payment [post]
// @Security ApiKeyAuth
func (handler *Handler) HoldPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".HoldPayment")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	req := dto.HoldRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	payment, err := handler.service.Hold(ctx, bookingID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to hold payment")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Payment held for booking " + bookingID)

	response.WithJSON(writer, http.StatusCreated, payment)
}

// ReleasePayment pays the mechanic's earnings into their wallet.
// @Router /v1/bookings/{bookingID}/payment/release [post]
// @Security BearerAuth
func (handler *Handler) ReleasePayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReleasePayment")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	payment, err := handler.service.Release(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to release payment")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Payment released for booking " + bookingID)

	response.WithJSON(writer, http.StatusOK, payment)
}

// RefundPayment returns a held payment to the customer.
// @Router /v1/bookings/{bookingID}/payment/refund [post]
// @Security BearerAuth
func (handler *Handler) RefundPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefundPayment")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamBookingID)

	payment, err := handler.service.Refund(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refund payment")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, payment)
}
