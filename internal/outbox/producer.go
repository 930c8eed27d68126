package outbox

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// ProducerOption tunes the Kafka writer behind a KafkaProducer.
type ProducerOption func(*kafka.Writer)

// WithBatchTimeout bounds how long the writer waits to fill a batch.
func WithBatchTimeout(d time.Duration) ProducerOption {
	return func(w *kafka.Writer) {
		if d > 0 {
			w.BatchTimeout = d
		}
	}
}

// WithTopicAutoCreation lets the broker create unknown topics on first write.
func WithTopicAutoCreation() ProducerOption {
	return func(w *kafka.Writer) {
		w.AllowAutoTopicCreation = true
	}
}

// KafkaProducer publishes outbox records through one shared writer. The
// topic travels on each message, and records are hashed by key so one
// user's events land on one partition in order.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a KafkaProducer for brokers.
func NewKafkaProducer(brokers []string, opts ...ProducerOption) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		BatchTimeout: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(writer)
	}
	return &KafkaProducer{writer: writer}
}

// WriteMessages stamps topic on msgs and writes them synchronously.
func (p *KafkaProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	stamped := make([]kafka.Message, len(msgs))
	for i, msg := range msgs {
		msg.Topic = topic
		stamped[i] = msg
	}
	return p.writer.WriteMessages(ctx, stamped...)
}

// Close flushes pending batches and releases the writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
