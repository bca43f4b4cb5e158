package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

// DefaultQueue is the durable queue activity events are published to.
const DefaultQueue = "freeskill_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
	mu      sync.Mutex // amqp.Channel is not safe for concurrent publishing
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// Message is the JSON body of every published event.
type Message struct {
	Event      string          `json:"event"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewMessage encodes payload into a Message for event.
func NewMessage(event string, payload any, at time.Time) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	return Message{Event: event, Payload: raw, OccurredAt: at.UTC()}, nil
}

// NewClient connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("rabbitmq client connected", slog.String("queue", cfg.Queue))

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		logger:  logger,
	}, nil
}

func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends event with its JSON payload to the event queue as a persistent message.
func (c *Client) Publish(ctx context.Context, event string, payload any) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := NewMessage(event, payload, time.Now())
	if err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",      // exchange: default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.OccurredAt,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}

	c.logger.DebugContext(ctx, "event published", slog.String("event", event))
	return nil
}

// Consume delivers decoded messages from the event queue to handler until ctx is done.
// Messages the handler fails on are requeued once; undecodable ones are dropped.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, Message) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				c.handle(ctx, d, handler)
			}
		}
	}()
	return nil
}

func (c *Client) handle(ctx context.Context, d amqp.Delivery, handler func(context.Context, Message) error) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.logger.WarnContext(ctx, "dropping undecodable event", slog.Uint64("delivery_tag", d.DeliveryTag), slog.Any("error", err))
		if err := d.Nack(false, false); err != nil {
			c.logger.WarnContext(ctx, "failed to nack event", slog.Any("error", err))
		}
		return
	}

	if err := handler(ctx, msg); err != nil {
		c.logger.WarnContext(ctx, "event handler failed", slog.String("event", msg.Event), slog.Any("error", err))
		if err := d.Nack(false, !d.Redelivered); err != nil {
			c.logger.WarnContext(ctx, "failed to nack event", slog.Any("error", err))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		c.logger.WarnContext(ctx, "failed to ack event", slog.Any("error", err))
	}
}

// LogHandler returns a handler that records every received event.
func LogHandler(logger *slog.Logger) func(context.Context, Message) error {
	return func(ctx context.Context, msg Message) error {
		logger.InfoContext(ctx, "activity event received",
			slog.String("event", msg.Event),
			slog.Time("occurred_at", msg.OccurredAt),
			slog.String("payload", string(msg.Payload)),
		)
		return nil
	}
}
