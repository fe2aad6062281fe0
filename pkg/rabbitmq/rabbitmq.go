package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ProductsGeneratedQueue receives one message per stored generation batch.
const ProductsGeneratedQueue = "products_generated"

// ProductsGeneratedEvent is the body of a products_generated message.
type ProductsGeneratedEvent struct {
	BatchID     string    `json:"batch_id"`
	Count       int       `json:"count"`
	Seed        int64     `json:"seed,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// DecodeProductsGenerated parses a products_generated message body.
func DecodeProductsGenerated(body []byte) (ProductsGeneratedEvent, error) {
	var event ProductsGeneratedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return ProductsGeneratedEvent{}, fmt.Errorf("failed to decode products generated event: %w", err)
	}
	return event, nil
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the
// products_generated queue.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
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

	if _, err := declareQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("rabbitmq client connected", zap.String("queue", ProductsGeneratedQueue))

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		ProductsGeneratedQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", ProductsGeneratedQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
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

// PublishProductsGenerated sends event as a persistent JSON message.
func (c *Client) PublishProductsGenerated(event ProductsGeneratedEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal products generated event: %w", err)
	}

	err = c.channel.Publish(
		"", // default exchange
		ProductsGeneratedQueue,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.log.Debug("published products generated event", zap.String("batch_id", event.BatchID))
	return nil
}

// ConsumeProductsGenerated delivers every products_generated message to
// handler until the channel closes. Failed messages are nacked without requeue.
func (c *Client) ConsumeProductsGenerated(handler func(ProductsGeneratedEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for msg := range msgs {
		if err := handleDelivery(msg.Body, handler); err != nil {
			c.log.Warn("failed to process message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			if nackErr := msg.Nack(false, false); nackErr != nil {
				c.log.Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
			}
			continue
		}
		if ackErr := msg.Ack(false); ackErr != nil {
			c.log.Error("failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
		}
	}
	return nil
}

func handleDelivery(body []byte, handler func(ProductsGeneratedEvent) error) error {
	event, err := DecodeProductsGenerated(body)
	if err != nil {
		return err
	}
	return handler(event)
}
