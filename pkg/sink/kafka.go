package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSink publishes each snapshot row to a Kafka topic so live
// consumers can follow the reconstructed book
type KafkaSink struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaSink creates a new Kafka snapshot publisher
func NewKafkaSink(brokerAddr, topic string) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddr),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaSink{
		writer: writer,
		topic:  topic,
	}
}

// WriteHeader is a no-op; topic consumers get self-describing rows
// keyed by timestamp, not a CSV preamble
func (k *KafkaSink) WriteHeader(header string) error {
	return nil
}

// WriteRow publishes one snapshot row keyed by its timestamp field
func (k *KafkaSink) WriteRow(row string) error {
	key := row
	if i := strings.IndexByte(row, ','); i >= 0 {
		key = row[:i]
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: []byte(row),
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send snapshot to Kafka: %w", err)
	}
	return nil
}

// Close closes the Kafka writer
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}

// Ensure KafkaSink implements Sink
var _ Sink = (*KafkaSink)(nil)
