package messaging

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ExchangeOrderEvents is the durable topic exchange order status events are
// published to. Notification and delivery-tracking consumers bind to it with
// "order.status.*" routing keys.
const ExchangeOrderEvents = "order_events"

// Connection wraps an AMQP connection plus channel with reconnection support.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	url     string
	logger  *zap.Logger
}

func NewConnection(url string, logger *zap.Logger) (*Connection, error) {
	c := &Connection{url: url, logger: logger}
	if err := c.connect(); err != nil {
		return nil, fmt.Errorf("establishing initial connection: %w", err)
	}
	return c, nil
}

func (c *Connection) connect() error {
	const maxRetries = 5
	var err error

	for i := 0; i < maxRetries; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if err = c.declareTopology(); err == nil {
					return nil
				}
				c.close()
			} else {
				c.conn.Close()
			}
		}

		if i < maxRetries-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			c.logger.Warn("amqp connection failed, retrying",
				zap.Duration("wait", wait), zap.Error(err))
			time.Sleep(wait)
		}
	}

	return fmt.Errorf("connecting to amqp after %d attempts: %w", maxRetries, err)
}

func (c *Connection) declareTopology() error {
	err := c.channel.ExchangeDeclare(
		ExchangeOrderEvents,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declaring %s exchange: %w", ExchangeOrderEvents, err)
	}
	return nil
}

func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}

func (c *Connection) Close() error {
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
