package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dashledger/internal/domain/shared"
	"github.com/dashledger/internal/platform/messaging/producers"
	"github.com/dashledger/internal/sync_worker/service"
)

// SyncOrderHandler handles incoming sync order messages from Kafka
type SyncOrderHandler struct {
	ingestService service.IngestService
	producer      producers.DeadLetterPublisher
	logger        *slog.Logger
}

// NewSyncOrderHandler creates a new handler
func NewSyncOrderHandler(
	logger *slog.Logger,
	ingestService service.IngestService,
	producer producers.DeadLetterPublisher,
) *SyncOrderHandler {
	return &SyncOrderHandler{
		ingestService: ingestService,
		producer:      producer,
		logger:        logger,
	}
}

// HandleMessage processes Kafka messages. Messages that can never succeed go
// to the DLQ; transient failures stay uncommitted for redelivery.
func (h *SyncOrderHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var msg shared.SyncOrderMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal sync order from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.deadLetter(ctx, key, value, fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())) {
			return nil
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if msg.CorrelationID != "" {
		logger = h.logger.With("correlation_id", msg.CorrelationID)
	}

	logger.Info("Received sync order for ingestion",
		"message_id", msg.MessageID.String(),
		"platform", msg.Platform,
		"platform_order_id", msg.PlatformOrderID,
	)

	if err := h.ingestService.IngestOrder(ctx, &msg); err != nil {
		if errors.Is(err, service.ErrUnprocessableOrder) {
			logger.Error("Sync order can never be ingested, dead-lettering",
				"message_id", msg.MessageID.String(),
				"error", err,
			)
			if h.deadLetter(ctx, key, value, err.Error()) {
				return nil
			}
		}

		logger.Error("Failed to ingest sync order",
			"message_id", msg.MessageID.String(),
			"platform", msg.Platform,
			"platform_order_id", msg.PlatformOrderID,
			"error", err,
		)
		return fmt.Errorf("ingesting sync order %s failed: %w", msg.MessageID.String(), err)
	}

	logger.Info("Successfully ingested sync order", "message_id", msg.MessageID.String())
	return nil // Success, commit offset
}

// deadLetter publishes the message to the DLQ; reports whether the offset can
// be committed
func (h *SyncOrderHandler) deadLetter(ctx context.Context, key, value []byte, reason string) bool {
	if h.producer == nil {
		return false
	}

	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"message_key", string(key),
			"reason", reason,
		)
		return false
	}

	h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
	return true
}
