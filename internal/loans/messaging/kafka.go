// internal/loans/messaging/kafka.go
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	cerrors "loans-service/internal/common/errors"
	"loans-service/internal/common/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes decision requests to a Kafka topic. Messages
// are keyed by applicant id so all requests for one applicant land on the
// same partition and preserve order.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger logger.Logger
}

func NewKafkaPublisher(brokers []string, topic, clientID string, writeTimeout time.Duration, log logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireAll,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: log.WithFields(map[string]interface{}{"component": "kafka-publisher", "topic": topic, "clientId": clientID}),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, message DecisionRequest) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return cerrors.NewPublishFailedError(message.ApplicantID, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(message.ApplicantID),
		Value: payload,
	})
	if err != nil {
		return cerrors.NewPublishFailedError(message.ApplicantID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaConsumer reads decision requests from a Kafka consumer group.
// Offsets are committed only after the handler returns, so delivery is
// at-least-once: a crash between handling and commit redelivers the
// message, and the processor's idempotence makes the duplicate converge.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger logger.Logger
}

func NewKafkaConsumer(brokers []string, topic, consumerGroup string, log logger.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        consumerGroup,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // synchronous commits
	})

	return &KafkaConsumer{
		reader: reader,
		logger: log.WithFields(map[string]interface{}{"component": "kafka-consumer", "topic": topic, "group": consumerGroup}),
	}
}

// Run consumes messages until the context is cancelled. Handler errors
// are logged and the offset is committed anyway; the processor owns its
// failure accounting and this channel does not re-deliver on handler
// failure, only on crash.
func (c *KafkaConsumer) Run(ctx context.Context, handle Handler) error {
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := handle(ctx, message.Value); err != nil {
			c.logger.Error("decision request handling failed", map[string]interface{}{
				"partition": message.Partition,
				"offset":    message.Offset,
				"error":     err,
			})
		}

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			c.logger.Error("offset commit failed", map[string]interface{}{
				"partition": message.Partition,
				"offset":    message.Offset,
				"error":     err,
			})
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
