package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AMQPDispatcher publishes notification payloads to a fanout exchange the
// push/email workers consume from. Publish failures are logged, never
// returned to the state-machine caller.
type AMQPDispatcher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

type envelope struct {
	Users   []uuid.UUID `json:"users"`
	Payload Payload     `json:"payload"`
}

func NewAMQPDispatcher(url, exchange string) (*AMQPDispatcher, error) {
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
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPDispatcher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (d *AMQPDispatcher) Notify(ctx context.Context, users []uuid.UUID, payload Payload) error {
	if len(users) == 0 {
		return nil
	}

	body, err := json.Marshal(envelope{Users: users, Payload: payload})
	if err != nil {
		logrus.Errorf("failed to marshal notification payload: %v", err)
		return nil
	}

	err = d.channel.PublishWithContext(
		ctx,
		d.exchange,
		"", // routing key ignored by fanout
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		logrus.WithField("type", payload.Type).Errorf("failed to publish notification: %v", err)
	}
	return nil
}

func (d *AMQPDispatcher) Close() error {
	if d.channel != nil {
		d.channel.Close()
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}
