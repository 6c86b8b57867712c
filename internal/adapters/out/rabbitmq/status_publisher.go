// Package rabbitmq publishes committed order status changes to a RabbitMQ topic
// exchange so marketplace connectors can mirror them.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pickingpacking/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchange is used when no exchange name is configured.
	DefaultExchange = "fulfillment_topic"

	routingKeyPrefix = "order.status."
	publishTimeout   = 5 * time.Second
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// StatusMessage is the JSON body of a published status change.
type StatusMessage struct {
	OrderID      string    `json:"order_id"`
	ConnectorID  string    `json:"connector_id,omitempty"`
	RemoteID     string    `json:"remote_id"`
	StatusBefore string    `json:"status_before"`
	StatusAfter  string    `json:"status_after"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// StatusPublisher implements ports.StatusChangePublisher on a topic exchange.
// The routing key is order.status.<status after>, e.g.
// order.status.picking_in_progress.
type StatusPublisher struct {
	channel  Channel
	exchange string
}

// NewStatusPublisher declares the durable topic exchange and returns a
// publisher bound to it.
func NewStatusPublisher(ch Channel, exchange string) (*StatusPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &StatusPublisher{channel: ch, exchange: exchange}, nil
}

// Dial connects to the broker and opens the channel the publisher uses. The
// returned close function closes both.
func Dial(url, exchange string) (*StatusPublisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	publisher, err := NewStatusPublisher(ch, exchange)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	closeFn := func() error {
		chErr := ch.Close()
		if err := conn.Close(); err != nil {
			return err
		}
		return chErr
	}
	return publisher, closeFn, nil
}

func (p *StatusPublisher) Publish(ctx context.Context, change ports.StatusChange) error {
	msg := StatusMessage{
		OrderID:      change.OrderID.String(),
		RemoteID:     change.RemoteID,
		StatusBefore: change.StatusBefore.String(),
		StatusAfter:  change.StatusAfter.String(),
		OccurredAt:   change.OccurredAt.UTC(),
	}
	if change.ConnectorID != nil {
		msg.ConnectorID = change.ConnectorID.String()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(change), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    change.OrderID.String(),
		Timestamp:    change.OccurredAt.UTC(),
		Body:         body,
	})
}

// RoutingKey returns the topic routing key of a change.
func RoutingKey(change ports.StatusChange) string {
	return routingKeyPrefix + strings.ToLower(change.StatusAfter.String())
}
