package payment

import (
	"context"
	"fmt"
	"net/http"

	"bengkel/config"
	"bengkel/infras/kafka"
	"bengkel/infras/otel"
	"bengkel/internal/domains/transaction/model/dto"
	"bengkel/internal/domains/transaction/service"
	"bengkel/shared"
	"bengkel/shared/constant"
	"bengkel/shared/failure"
	"bengkel/shared/validator"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer turns payment.confirmed messages into escrow holds.
type Consumer struct {
	client kafka.Client
	escrow service.Escrow
	config *config.Config
	otel   otel.Otel
}

func New(client kafka.Client, escrow service.Escrow, cfg *config.Config, otel otel.Otel) *Consumer {
	return &Consumer{
		client: client,
		escrow: escrow,
		config: cfg,
		otel:   otel,
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	topic := c.config.Kafka.Topics.PaymentConfirmed

	log.Info().Str("topic", topic).Msg("Starting payment confirmation consumer.")

	c.client.Consume(ctx, c.config.Kafka.ConsumerGroup, topic, c.Handle)
}

// Handle holds the payment in escrow. Redelivered confirmations and messages that can never
// succeed are acknowledged; server errors are returned and the same message is retried.
func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".payment.Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"messaging.kafka.topic":     message.Topic,
		"messaging.kafka.partition": message.Partition,
		"messaging.kafka.offset":    message.Offset,
	})

	confirmed, err := kafka.DecodeKafkaMessage[dto.PaymentConfirmed](message)
	if err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("dropping undecodable payment confirmation")

		return nil
	}

	if err := validator.ValidateStruct(&confirmed); err != nil {
		log.Error().Err(err).Str("booking_id", confirmed.BookingID).Msg("dropping invalid payment confirmation")

		return nil
	}

	ctx = shared.WithActor(ctx, constant.Empty, constant.RoleSystem)

	_, err = c.escrow.Hold(ctx, confirmed.BookingID, confirmed.HoldRequest())
	if err == nil {
		log.Info().Str("booking_id", confirmed.BookingID).Msg("payment held in escrow")

		return nil
	}

	switch failure.GetCode(err) {
	case http.StatusInternalServerError:
		return fmt.Errorf("failed to hold payment for booking %s: %w", confirmed.BookingID, err)
	case http.StatusConflict:
		log.Info().Str("booking_id", confirmed.BookingID).Msg("payment already held")
	default:
		log.Error().Err(err).Str("booking_id", confirmed.BookingID).Msg("dropping rejected payment confirmation")
	}

	return nil
}
