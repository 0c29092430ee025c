// Package rabbitmq publishes domain events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ncobase/staffing/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends messages to a durable topic exchange with publisher
// confirms. Each publish waits on its own deferred confirmation, so a late
// ack can never be credited to a later message.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	timeout  time.Duration
	mu       sync.Mutex
}

// confirmation is the broker's answer for a single publish.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type channel interface {
	publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	Close() error
}

type amqpChannel struct {
	*amqp.Channel
}

func (c amqpChannel) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("rabbitmq: channel is not in confirm mode")
	}
	return dc, nil
}

// normalizeURL accepts either a full AMQP URL or a bare host:port.
func normalizeURL(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("rabbitmq: URL is empty")
	}
	if strings.HasPrefix(raw, "amqp://") || strings.HasPrefix(raw, "amqps://") {
		return raw, nil
	}
	u := url.URL{Scheme: "amqp", Host: raw, Path: "/"}
	return u.String(), nil
}

// Connect dials RabbitMQ, declares the exchange and puts the channel in
// confirm mode.
func Connect(cfg *config.RabbitMQ) (*Publisher, error) {
	connURL, err := normalizeURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(connURL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: failed to connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: failed to declare exchange: %w", err)
	}

	if err = ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: failed to put channel in confirm mode: %w", err)
	}

	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Publisher{
		conn:     conn,
		ch:       amqpChannel{ch},
		exchange: cfg.Exchange,
		timeout:  timeout,
	}, nil
}

// IsConnected reports whether the underlying connection is open.
func (p *Publisher) IsConnected() bool {
	return p.ch != nil && (p.conn == nil || !p.conn.IsClosed())
}

// Publish sends a persistent JSON message and waits for the broker ack.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.IsConnected() {
		return errors.New("rabbitmq connection is not available")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	confirm, err := p.ch.publish(ctx, p.exchange, routingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	ack, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish confirmation timed out after %v: %w", p.timeout, err)
	}
	if !ack {
		return errors.New("broker rejected the message")
	}
	return nil
}

// Close shuts the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}
