package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"salesanalytics/internal/metrics"
	"salesanalytics/internal/model"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig holds Kafka connection configuration
type KafkaConfig struct {
	Brokers   []string
	Topic     string
	QueueSize int
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderMirror copies stored orders to a Kafka topic off the append path.
// Orders are keyed by product so a product's orders share a partition.
type OrderMirror struct {
	writer  messageWriter
	queue   chan model.Order
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewOrderMirror(cfg KafkaConfig, logger *slog.Logger, m *metrics.Metrics) *OrderMirror {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newOrderMirror(writer, cfg.QueueSize, logger, m)
}

func newOrderMirror(w messageWriter, queueSize int, logger *slog.Logger, m *metrics.Metrics) *OrderMirror {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderMirror{
		writer:  w,
		queue:   make(chan model.Order, queueSize),
		logger:  logger.With("component", "kafka_mirror"),
		metrics: m,
	}
}

// Mirror enqueues order without blocking. A full queue drops the order; the
// database remains the record.
func (m *OrderMirror) Mirror(order model.Order) {
	select {
	case m.queue <- order:
	default:
		m.metrics.MirrorFailed()
		m.logger.Warn("mirror queue full, dropping order", "order_id", order.ID)
	}
}

// Run writes queued orders until ctx is cancelled.
func (m *OrderMirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case order := <-m.queue:
			if err := m.publish(ctx, order); err != nil {
				m.metrics.MirrorFailed()
				m.logger.Error("failed to mirror order", "order_id", order.ID, "error", err)
			}
		}
	}
}

func (m *OrderMirror) publish(ctx context.Context, order model.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}
	return m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ProductName),
		Value: data,
		Time:  order.CreatedAt,
	})
}

func (m *OrderMirror) Close() error {
	return m.writer.Close()
}
