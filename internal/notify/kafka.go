package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"dashboard/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher writes changes asynchronously to topic. Records with the
// same entity and id share a key and therefore a partition, which keeps
// their changes ordered.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Sugar.Errorf("Failed to deliver %d change messages to kafka: %v", len(messages), err)
			}
		},
	}
	return &KafkaPublisher{writer: w}
}

func newKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (k *KafkaPublisher) Publish(ctx context.Context, c Change) {
	value, err := json.Marshal(c)
	if err != nil {
		logger.Sugar.Errorf("Failed to marshal change: %v", err)
		return
	}
	key := []byte(string(c.Entity) + ":" + strconv.FormatInt(c.ID, 10))
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value}); err != nil {
		logger.Sugar.Errorf("Failed to send change to kafka: %v", err)
	}
}

func (k *KafkaPublisher) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}
