// Package messaging delivers domain events outside the process: to a
// RabbitMQ topic exchange and to webhook endpoints.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Envelope is the message body published for each event.
type Envelope struct {
	Type          string             `json:"type"`
	AggregateID   string             `json:"aggregateId"`
	AggregateType string             `json:"aggregateType"`
	OccurredAt    time.Time          `json:"occurredAt"`
	Data          events.DomainEvent `json:"data"`
}

func newEnvelope(event events.DomainEvent) Envelope {
	return Envelope{
		Type:          event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt(),
		Data:          event,
	}
}

// AMQPPublisher publishes events to a topic exchange with the event type as
// routing key.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
	logger   *slog.Logger
}

// DialAMQP connects to url and declares a durable topic exchange.
func DialAMQP(url, exchange string, logger *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	p := NewAMQPPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

// NewAMQPPublisher wraps an open channel.
func NewAMQPPublisher(ch Channel, exchange string, logger *slog.Logger) *AMQPPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPPublisher{channel: ch, exchange: exchange, logger: logger}
}

// Handle publishes event. It has the events.HandlerFunc signature.
func (p *AMQPPublisher) Handle(ctx context.Context, event events.DomainEvent) error {
	body, err := json.Marshal(newEnvelope(event))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt(),
		Type:         event.EventType(),
		Body:         body,
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, event.EventType(), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}
	p.logger.DebugContext(ctx, "event published", "exchange", p.exchange, "event_type", event.EventType(), "aggregate_id", event.AggregateID())
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
