package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"vietcart-be/internal/logger"
	"vietcart-be/internal/metrics"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the envelope published to the order topic, keyed by ShortID
// so all events of one order land on the same partition.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	ShortID    string    `json:"short_id"`
	UserID     int64     `json:"user_id"`
	Status     string    `json:"status"`
	TotalPrice int64     `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishOrderEvent(ctx context.Context, evt OrderEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer    *kafka.Writer
	published *metrics.Counter
	failed    *metrics.Counter
}

// NewKafkaPublisher builds a publisher over a comma-separated broker list.
func NewKafkaPublisher(brokers, topic string, reg *metrics.Registry) Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	return &kafkaPublisher{
		writer:    writer,
		published: reg.Counter("events_published"),
		failed:    reg.Counter("events_failed"),
	}
}

func (p *kafkaPublisher) PublishOrderEvent(ctx context.Context, evt OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		p.failed.Inc()
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.ShortID),
		Value: payload,
	})
	if err != nil {
		p.failed.Inc()
		logger.FromCtx(ctx).Error("failed to publish order event",
			zap.String("type", evt.Type),
			zap.String("short_id", evt.ShortID),
			zap.Error(err),
		)
		return err
	}

	p.published.Inc()
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop is used when no broker is configured and in tests.
type Noop struct{}

func (Noop) PublishOrderEvent(ctx context.Context, evt OrderEvent) error { return nil }

func (Noop) Close() error { return nil }
