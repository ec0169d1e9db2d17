package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sideline-app/client/config"
)

// RabbitMQClient fans activity events out through one exchange per channel.
// Every tail binds its own exclusive queue, so concurrent tails each see the
// full stream.
type RabbitMQClient struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	durable  bool
	autoDrop bool
}

func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("set rabbitmq prefetch: %w", err)
		}
	}

	return &RabbitMQClient{
		conn:     conn,
		ch:       ch,
		durable:  cfg.QueueDurable,
		autoDrop: cfg.QueueAutoDelete,
	}, nil
}

// Publish broadcasts one event on the channel's exchange.
func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if err := r.declareExchange(channel); err != nil {
		return "", err
	}

	id := uuid.NewString()
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    id,
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{},
		Body:         data,
	}
	if r.durable {
		msg.DeliveryMode = amqp.Persistent
	}
	for k, v := range attrs {
		msg.Headers[k] = v
	}

	if err := r.ch.PublishWithContext(ctx, channel, "", false, false, msg); err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return id, nil
}

// Subscribe binds a private queue to the channel's exchange and hands each
// delivery to handler until ctx is done. The queue goes away with the tail.
func (r *RabbitMQClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if err := r.declareExchange(channel); err != nil {
		return err
	}

	q, err := r.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare tail queue: %w", err)
	}
	if err := r.ch.QueueBind(q.Name, "", channel, false, nil); err != nil {
		return fmt.Errorf("bind tail queue to %s: %w", channel, err)
	}

	tag := "sideline-tail-" + uuid.NewString()
	deliveries, err := r.ch.Consume(q.Name, tag, false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.Name, err)
	}
	defer r.ch.Cancel(tag, false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq tail closed by broker")
			}
			err := handler(ctx, Message{
				ID:         d.MessageId,
				Data:       d.Body,
				Attributes: tableToAttrs(d.Headers),
			})
			if err != nil {
				// The queue is private to this tail; requeueing would only
				// hand the same event back.
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (r *RabbitMQClient) Close() error {
	if r.ch != nil {
		r.ch.Close()
	}
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

func (r *RabbitMQClient) declareExchange(channel string) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("rabbitmq channel is required")
	}
	err := r.ch.ExchangeDeclare(channel, amqp.ExchangeFanout, r.durable, r.autoDrop, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", channel, err)
	}
	return nil
}

func tableToAttrs(table amqp.Table) map[string]string {
	if len(table) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(table))
	for k, v := range table {
		if b, ok := v.([]byte); ok {
			attrs[k] = string(b)
			continue
		}
		attrs[k] = fmt.Sprint(v)
	}
	return attrs
}
