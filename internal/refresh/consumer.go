package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/logger"
)

// ConsumerConfig configures the RabbitMQ consumer
type ConsumerConfig struct {
	URL      string
	Queue    string
	Prefetch int
	// Exchange receives Refreshed notifications. Empty disables publishing.
	Exchange string
}

// acknowledger is the part of amqp.Delivery the consumer settles messages with
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consumer feeds queued candidate events into a Handler.
type Consumer struct {
	config  ConsumerConfig
	handler *Handler
	logger  *zap.Logger
}

// NewConsumer creates a consumer
func NewConsumer(config ConsumerConfig, handler *Handler, log *zap.Logger) *Consumer {
	if config.Prefetch <= 0 {
		config.Prefetch = 10
	}
	return &Consumer{config: config, handler: handler, logger: logger.OrNop(log)}
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.config.URL)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(c.config.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	_, err = ch.QueueDeclare(
		c.config.Queue, // queue name
		true,           // durable (survives broker restarts)
		false,          // auto-delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.config.Queue, err)
	}

	if c.config.Exchange != "" && c.handler.publisher == nil {
		pub, err := NewChannelPublisher(conn, c.config.Exchange)
		if err != nil {
			return err
		}
		defer pub.Close()
		c.handler.publisher = pub
	}

	msgs, err := ch.Consume(
		c.config.Queue, // queue name
		"",             // consumer tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming from %s: %w", c.config.Queue, err)
	}

	c.logger.Info("refresh worker consuming", zap.String("queue", c.config.Queue), zap.Int("prefetch", c.config.Prefetch))

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("rabbitmq channel closed")
			}
			c.process(ctx, msg.Body, msg.Headers, &msg)
		}
	}
}

// process handles one message and settles it.
// Malformed messages are dropped, transient failures are requeued.
func (c *Consumer) process(ctx context.Context, body []byte, headers map[string]interface{}, ack acknowledger) {
	ev, err := DecodeEvent(body, headers)
	if err == nil {
		err = c.handler.Handle(ctx, ev)
	}

	var malformed *MalformedError
	switch {
	case err == nil:
		if ackErr := ack.Ack(false); ackErr != nil {
			c.logger.Error("failed to ack message", zap.Error(ackErr))
		}
	case errors.As(err, &malformed):
		c.logger.Warn("dropping message", zap.String("candidate_id", ev.CandidateID), zap.Error(err))
		if nackErr := ack.Nack(false, false); nackErr != nil {
			c.logger.Error("failed to nack message", zap.Error(nackErr))
		}
	default:
		c.logger.Error("refresh failed, requeueing", zap.String("candidate_id", ev.CandidateID), zap.Error(err))
		if nackErr := ack.Nack(false, true); nackErr != nil {
			c.logger.Error("failed to nack message", zap.Error(nackErr))
		}
	}
}

// ChannelPublisher publishes notifications to a RabbitMQ exchange
type ChannelPublisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewChannelPublisher opens a channel on conn and declares the topic exchange.
func NewChannelPublisher(conn *amqp.Connection, exchange string) (*ChannelPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("error opening publish channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &ChannelPublisher{ch: ch, exchange: exchange}, nil
}

// Publish implements Publisher
func (p *ChannelPublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	return p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}

// Close closes the publish channel
func (p *ChannelPublisher) Close() error {
	return p.ch.Close()
}
