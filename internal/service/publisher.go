// Package service holds outbound integrations used by the HTTP handlers.
// Publishing is best effort: errors are logged and returned so callers can
// ignore them without interrupting the request flow.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/iliyamo/streaming-catalog/internal/config"
	"github.com/iliyamo/streaming-catalog/internal/metrics"
	"github.com/iliyamo/streaming-catalog/internal/queue"
)

// NopPublisher discards events.  It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ActivityEvent) error { return nil }

// RabbitPublisher publishes activity events to a durable RabbitMQ queue
// over one lazily dialed connection.  A circuit breaker stops dialing a
// broker that keeps failing until the cooldown passes.
type RabbitPublisher struct {
	url     string
	queue   string
	timeout time.Duration
	log     logrus.FieldLogger
	breaker *gobreaker.CircuitBreaker[struct{}]

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitPublisher builds a publisher from cfg.  No connection is made
// until the first Publish.
func NewRabbitPublisher(cfg config.EventsConfig, log logrus.FieldLogger) *RabbitPublisher {
	p := &RabbitPublisher{
		url:     cfg.URL,
		queue:   cfg.Queue,
		timeout: cfg.PublishTimeout,
		log:     log,
	}
	p.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "rabbitmq-publisher",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("rabbitmq: circuit breaker state changed")
		},
	})
	return p
}

// State reports the circuit breaker state ("closed", "open", "half-open").
func (p *RabbitPublisher) State() string { return p.breaker.State().String() }

// Publish sends ev as a persistent JSON message.
func (p *RabbitPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(ev.Type, "failed").Inc()
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.publish(ctx, body)
	})
	switch {
	case err == nil:
		metrics.EventsPublished.WithLabelValues(ev.Type, "published").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.EventsPublished.WithLabelValues(ev.Type, "dropped").Inc()
	default:
		metrics.EventsPublished.WithLabelValues(ev.Type, "failed").Inc()
		p.log.WithError(err).WithField("event", ev.Type).Warn("rabbitmq: publish failed")
	}
	return err
}

func (p *RabbitPublisher) publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.resetLocked()
	}
	return err
}

// channelLocked returns the open channel, dialing and declaring the queue
// when needed.  p.mu must be held.
func (p *RabbitPublisher) channelLocked() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.resetLocked()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *RabbitPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}
