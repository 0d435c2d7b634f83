package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StatusChangedEvent is emitted after a status transition commits. PrevStatus
// is empty for freshly created orders.
type StatusChangedEvent struct {
	OrderID    string    `json:"order_id"`
	PrevStatus string    `json:"prev_status,omitempty"`
	NewStatus  string    `json:"new_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// Publisher sends order events to the order_events topic exchange.
type Publisher struct {
	conn   *Connection
	logger *zap.Logger
}

func NewPublisher(conn *Connection, logger *zap.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

func (p *Publisher) PublishStatusChange(ctx context.Context, evt StatusChangedEvent) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("reconnecting: %w", err)
		}
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	routingKey := "order.status." + evt.NewStatus

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		ExchangeOrderEvents,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	p.logger.Debug("order event published",
		zap.String("routingKey", routingKey),
		zap.String("orderId", evt.OrderID))
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

// NopPublisher drops events. Used when no AMQP URL is configured.
type NopPublisher struct{}

func (NopPublisher) PublishStatusChange(context.Context, StatusChangedEvent) error {
	return nil
}
