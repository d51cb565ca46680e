// Package event carries committed ledger entries over AMQP to the sync
// worker. One durable direct exchange, one durable queue bound with the queue
// name as routing key.
package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/rmuratov/brofund/internal/ledger"
)

const publishTimeout = 5 * time.Second

type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	c := &Client{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
	}

	if err := c.declare(); err != nil {
		c.Close()
		return nil, fmt.Errorf("declaring topology: %w", err)
	}

	return c, nil
}

func (c *Client) declare() error {
	err := c.channel.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declaring exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(c.queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declaring queue: %w", err)
	}

	if err := c.channel.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue: %w", err)
	}

	return nil
}

// PublishLedgerEntry publishes a committed ledger entry as a persistent JSON
// message. Implements ledger.EventPublisher.
func (c *Client) PublishLedgerEntry(ctx context.Context, event ledger.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	slog.InfoContext(ctx, "published ledger event",
		"type", event.Type,
		"reference_id", event.ReferenceID,
		"queue", c.queue)

	return nil
}

// Consume delivers ledger events to handler until ctx is cancelled. A handler
// error requeues the message; an undecodable message is dropped.
func (c *Client) Consume(ctx context.Context, handler func(ledger.Event) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("starting consumer: %w", err)
	}

	slog.InfoContext(ctx, "consuming ledger events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}

			var event ledger.Event
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				slog.ErrorContext(ctx, "dropping undecodable event", "error", err)
				delivery.Nack(false, false)

				continue
			}

			if err := handler(event); err != nil {
				slog.ErrorContext(ctx, "requeueing ledger event",
					"error", err,
					"type", event.Type,
					"reference_id", event.ReferenceID)
				delivery.Nack(false, true)

				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}
