package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"sync"
	"time"

	"bengkel/config"
	"bengkel/infras/kafka"
	"bengkel/infras/otel"
	"bengkel/shared/constant"
	"bengkel/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Type string

const (
	BookingCreated          Type = "booking.created"
	BookingStatusChanged    Type = "booking.status_changed"
	OfferCreated            Type = "offer.created"
	OfferResponded          Type = "offer.responded"
	MatchmakingNotified     Type = "matchmaking.notified"
	EscrowHeld              Type = "escrow.held"
	EscrowReleased          Type = "escrow.released"
	EscrowRefunded          Type = "escrow.refunded"
	WithdrawalProcessed     Type = "withdrawal.processed"
	MechanicLocationUpdated Type = "mechanic.location_updated"
)

// Event is a domain notification fanned out to subscribed clients by an external push layer.
type Event struct {
	BookingID  string    `json:"booking_id"`
	Type       Type      `json:"type"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(bookingID string, eventType Type, payload any) Event {
	return Event{
		BookingID:  bookingID,
		Type:       eventType,
		Payload:    payload,
		OccurredAt: timezone.Now(),
	}
}

const (
	queueSize   = 256
	sendTimeout = 10 * time.Second
)

// Publisher emits events after the owning unit of work has committed.
// Delivery happens in the background; failures are logged and never reported to the caller.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

type batch struct {
	ctx    context.Context
	events []Event
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
	otel   otel.Otel

	mu     sync.RWMutex
	closed bool
	queue  chan batch
	done   chan struct{}
}

// NewPublisher starts the delivery worker. The returned cleanup stops accepting events and
// waits for the queued ones to be sent.
func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) (Publisher, func()) {
	p := &kafkaPublisher{
		client: client,
		topic:  cfg.Kafka.Topics.BookingEvents,
		otel:   otel,
		queue:  make(chan batch, queueSize),
		done:   make(chan struct{}),
	}

	go p.worker()

	return p, p.close
}

func (p *kafkaPublisher) Publish(ctx context.Context, events ...Event) {
	if len(events) == 0 {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		log.Warn().Int("events", len(events)).Msg("publisher closed, dropping booking events")

		return
	}

	select {
	case p.queue <- batch{ctx: context.WithoutCancel(ctx), events: events}:
	default:
		log.Error().Int("events", len(events)).Msg("booking event queue full, dropping events")
	}
}

func (p *kafkaPublisher) worker() {
	defer close(p.done)

	for b := range p.queue {
		p.send(b)
	}
}

func (p *kafkaPublisher) send(b batch) {
	ctx, cancel := context.WithTimeout(b.ctx, sendTimeout)
	defer cancel()

	ctx, scope := p.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".Publish")
	defer scope.End()

	messages := make([]kafka.Message, len(b.events))
	for i, ev := range b.events {
		messages[i] = kafka.Message{Key: ev.BookingID, Value: ev}
	}

	if err := p.client.SendMessages(ctx, p.topic, messages...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("topic", p.topic).Int("events", len(b.events)).Msg("failed to publish booking events")
	}
}

func (p *kafkaPublisher) close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.done
}
