package rabbitmq

import (
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/acroscarlos/suite-erp-api/config"
)

// RabbitMQ publishes order lifecycle events to a fanout exchange. Publishing
// is best-effort: broker failures are logged, never surfaced to the request.
type RabbitMQ struct {
	Conn     *amqp.Connection
	Channel  *amqp.Channel
	exchange string
}

type orderEvent struct {
	Event     string    `json:"event"`
	OrderID   uint      `json:"order_id"`
	Code      string    `json:"code,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRabbitMQ connects to the broker and declares the order exchange
func NewRabbitMQ(cfg *config.Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		cfg.OrderExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, err
	}

	return &RabbitMQ{
		Conn:     conn,
		Channel:  ch,
		exchange: cfg.OrderExchange,
	}, nil
}

// OrderCreated publishes an order.created event
func (r *RabbitMQ) OrderCreated(orderID uint, code string) {
	r.publish(orderEvent{Event: "order.created", OrderID: orderID, Code: code, Timestamp: time.Now()})
}

// OrderStatusChanged publishes an order.status_changed event
func (r *RabbitMQ) OrderStatusChanged(orderID uint, from, to string) {
	r.publish(orderEvent{Event: "order.status_changed", OrderID: orderID, From: from, To: to, Timestamp: time.Now()})
}

func (r *RabbitMQ) publish(event orderEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: failed to encode %s event: %v", event.Event, err)
		return
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		ContentType:  "application/json",
		Body:         body,
	}

	if err := r.Channel.Publish(r.exchange, "", false, false, msg); err != nil {
		log.Printf("rabbitmq: failed to publish %s event: %v", event.Event, err)
	}
}

// Close shuts down the channel and connection
func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			return
		}
	}
	if r.Conn != nil {
		if err := r.Conn.Close(); err != nil {
			return
		}
	}
}
