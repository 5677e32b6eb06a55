package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/streaming-catalog/internal/metrics"
)

// StartActivityConsumer connects to RabbitMQ, declares queueName (durable)
// and logs each activity event.  It reconnects with exponential backoff and
// returns when ctx is cancelled.
func StartActivityConsumer(ctx context.Context, url, queueName string, log logrus.FieldLogger) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.WithError(err).Warnf("activity-consumer: dial failed; retrying in %s", backoff)
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, queueName, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("activity-consumer: consume loop ended; reconnecting")
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queueName string, log logrus.FieldLogger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.WithError(err).Warn("activity-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			ev, err := HandleMessage(d.Body, log)
			if err != nil {
				metrics.EventsConsumed.WithLabelValues("unknown", "rejected").Inc()
				log.WithError(err).Warn("activity-consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			metrics.EventsConsumed.WithLabelValues(ev.Type, "ok").Inc()
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one delivery body and writes it to the log.
func HandleMessage(body []byte, log logrus.FieldLogger) (ActivityEvent, error) {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	switch ev.Type {
	case EventFavoriteAdded, EventFavoriteRemoved, EventHistoryUpdated:
	default:
		return ev, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.UserID == 0 || ev.ContentID == 0 {
		return ev, errors.New("event missing user_id or content_id")
	}

	fields := logrus.Fields{
		"event":       ev.Type,
		"user_id":     ev.UserID,
		"content_id":  ev.ContentID,
		"occurred_at": ev.OccurredAt.Format(time.RFC3339),
	}
	if ev.Type == EventHistoryUpdated {
		fields["watch_position"] = ev.WatchPosition
	}
	log.WithFields(fields).Info("user activity")
	return ev, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
