// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/metrics"
)

// ExchangeName is the topic exchange for scan events
const ExchangeName = "nutriscan.events"

// Publisher sends an event payload under a routing key
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishJSON encodes v and publishes it, recording the outcome
func PublishJSON(ctx context.Context, p Publisher, routingKey string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		metrics.RecordEvent(routingKey, "encode_error")
		return fmt.Errorf("failed to encode %s event: %w", routingKey, err)
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		metrics.RecordEvent(routingKey, "error")
		return err
	}
	metrics.RecordEvent(routingKey, "ok")
	return nil
}

// RabbitMQPublisher publishes events to a RabbitMQ topic exchange
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *logger.Logger
	mu       sync.Mutex
}

// NewRabbitMQPublisher connects and declares the exchange
func NewRabbitMQPublisher(url string, log *logger.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.With("exchange", ExchangeName).Info("RabbitMQ publisher connected")

	return &RabbitMQPublisher{
		conn:     conn,
		channel:  ch,
		exchange: ExchangeName,
		logger:   log,
	}, nil
}

// Publish sends a persistent JSON message
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         payload,
		},
	)
	if err != nil {
		p.logger.With("routing_key", routingKey).ErrorWithErr(err, "Failed to publish event")
		return err
	}

	p.logger.WithFields(map[string]interface{}{
		"routing_key": routingKey,
		"size":        len(payload),
	}).Debug("Event published")
	return nil
}

// Close closes the channel and connection
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.WarnWithErr(err, "Error closing channel")
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }

func (NoopPublisher) Close() error { return nil }

// Recorder keeps published events in memory. Used in tests.
type Recorder struct {
	mu     sync.Mutex
	Events []Recorded
	Err    error
}

// Recorded is one captured publish
type Recorded struct {
	RoutingKey string
	Payload    []byte
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, Recorded{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Len returns the number of captured events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Events)
}

// New returns a RabbitMQ publisher when url is set and a no-op otherwise
func New(url string, log *logger.Logger) (Publisher, error) {
	if url == "" {
		return NoopPublisher{}, nil
	}
	return NewRabbitMQPublisher(url, log)
}
