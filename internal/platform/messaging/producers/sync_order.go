package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dashledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// SyncOrderMessageProducer publishes raw platform orders fetched by the
// scheduler onto the sync order topic for the ingestion worker.
type SyncOrderMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates the sync order producer and ensures the topic exists
func NewSyncOrderMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*SyncOrderMessageProducer, error) {
	if cfg.SyncOrderTopic == "" {
		return nil, fmt.Errorf("kafka sync order topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for sync order producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.SyncOrderTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure sync order topic %s exists: %w", cfg.SyncOrderTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.SyncOrderTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.SyncOrderTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.SyncOrderTopic, "count", len(messages))
			}
		},
	}

	return &SyncOrderMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.SyncOrderTopic,
	}, nil
}

func (p *SyncOrderMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for sync order producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish sync order message",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via sync order producer: %w", p.topic, err)
	}

	p.logger.Debug("Published sync order message",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *SyncOrderMessageProducer) Close() error {
	p.logger.Info("Closing sync order Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close sync order kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
