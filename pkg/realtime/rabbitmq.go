package realtime

import (
	"context"
	"errors"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"time"
)

const ExchangeFoodItemChanges = "food_items_changes"

// ErrDeliveriesClosed means the broker went away; the bridge is dead.
var ErrDeliveriesClosed = errors.New("rabbitmq delivery channel closed")

// amqpChannel is the part of *amqp.Channel the bridge uses after setup.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// RabbitMQ relays change events between service instances through a fanout
// exchange. Every instance binds its own exclusive queue and replays what it
// receives into the local hub, including its own events.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
	hub     *Hub
	logger  zerolog.Logger
}

func ConnectRabbitMQ(url string, hub *Hub, logger zerolog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeFoodItemChanges, // name
		"fanout",                // type
		true,                    // durable
		false,                   // auto-deleted
		false,                   // internal
		false,                   // no-wait
		nil,                     // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := channel.QueueDeclare(
		"",    // name (let server generate)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		q.Name,                  // queue name
		"",                      // routing key
		ExchangeFoodItemChanges, // exchange
		false,                   // no-wait
		nil,                     // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	l := logger.With().Str("component", "change-feed-rabbitmq").Str("queue", q.Name).Logger()
	l.Info().Msg("connected to RabbitMQ")

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
		hub:     hub,
		logger:  l,
	}, nil
}

// Publish sends ev through the exchange. When the broker rejects it the event
// is delivered to the local hub directly, so this instance's views still
// refresh.
func (r *RabbitMQ) Publish(ctx context.Context, ev ChangeEvent) error {
	body, err := encodeEvent(ev)
	if err != nil {
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = r.channel.PublishWithContext(pubCtx,
		ExchangeFoodItemChanges, // exchange
		"",                      // routing key
		false,                   // mandatory
		false,                   // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   ev.At,
			Body:        body,
		})
	if err != nil {
		r.logger.Warn().Err(err).Str("item_id", ev.ItemID).Msg("broker publish failed, delivering locally")
		return r.hub.Publish(ctx, ev)
	}
	return nil
}

// Consume replays deliveries into the hub until ctx is done. A closed
// delivery channel returns ErrDeliveriesClosed.
func (r *RabbitMQ) Consume(ctx context.Context) error {
	deliveries, err := r.channel.Consume(
		r.queue, // queue
		"",      // consumer
		true,    // auto-ack
		true,    // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				r.logger.Error().Msg("delivery channel closed")
				return ErrDeliveriesClosed
			}
			ev, err := decodeEvent(d.Body)
			if err != nil {
				r.logger.Error().Err(err).Msg("dropping malformed change event")
				continue
			}
			_ = r.hub.Publish(ctx, ev)
		}
	}
}

func (r *RabbitMQ) Close() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}
