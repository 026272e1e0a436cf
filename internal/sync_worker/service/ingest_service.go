package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dashledger/internal/data/mongo"
	"github.com/dashledger/internal/domain/entry"
	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
)

// ErrUnprocessableOrder marks a message that can never succeed, no matter how
// often it is retried. The consumer routes these to the DLQ instead of
// blocking the partition.
var ErrUnprocessableOrder = errors.New("unprocessable sync order")

// IngestServiceImpl implements the IngestService interface
type IngestServiceImpl struct {
	pgDB         TxRunner
	entryWriter  EntryWriter
	syncedOrders SyncedOrderTracker
	archiver     PayloadArchiver
	logger       *slog.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(
	pgDB TxRunner,
	entryWriter EntryWriter,
	syncedOrders SyncedOrderTracker,
	archiver PayloadArchiver,
	logger *slog.Logger,
) IngestService {
	return &IngestServiceImpl{
		pgDB:         pgDB,
		entryWriter:  entryWriter,
		syncedOrders: syncedOrders,
		archiver:     archiver,
		logger:       logger,
	}
}

// IngestOrder imports one fetched platform order: it dedups against already
// synced orders, normalizes the payload into an ORDER entry, persists entry
// and sync record in one transaction, and archives the raw payload.
func (s *IngestServiceImpl) IngestOrder(ctx context.Context, msg *shared.SyncOrderMessage) error {
	logger := s.logger
	if msg.CorrelationID != "" {
		logger = s.logger.With("correlation_id", msg.CorrelationID)
	}

	platform, err := integration.ParseSyncPlatform(msg.Platform)
	if err != nil {
		return fmt.Errorf("%w: unknown platform %q", ErrUnprocessableOrder, msg.Platform)
	}
	if msg.PlatformOrderID == "" {
		return fmt.Errorf("%w: missing platform order id", ErrUnprocessableOrder)
	}

	exists, err := s.syncedOrders.Exists(ctx, platform, msg.PlatformOrderID)
	if err != nil {
		return fmt.Errorf("failed to check synced order: %w", err)
	}
	if exists {
		logger.Debug("Order already synced, skipping",
			"platform", platform,
			"platform_order_id", msg.PlatformOrderID,
		)
		return nil
	}

	completedAt := msg.Order.CompletedAt
	e, err := entry.NewEntry(entry.CreateParams{
		Timestamp:       &completedAt,
		Kind:            entry.KindOrder,
		Platform:        entryPlatform(platform),
		ExternalOrderID: msg.PlatformOrderID,
		Amount:          msg.Order.Total,
		DistanceMiles:   msg.Order.DistanceMiles,
		DurationMinutes: msg.Order.DurationMinutes,
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnprocessableOrder, err)
	}

	var duplicate bool
	err = s.pgDB.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.entryWriter.Create(ctx, tx, e); err != nil {
			return err
		}

		so := &integration.SyncedOrder{
			Platform:        platform,
			PlatformOrderID: msg.PlatformOrderID,
			EntryID:         e.ID,
			SyncedAt:        time.Now().UTC(),
		}
		if err := s.syncedOrders.Create(ctx, tx, so); err != nil {
			// A concurrent worker won the race; roll back our entry
			if errors.Is(err, integration.ErrDuplicateSyncedOrder{}) {
				duplicate = true
			}
			return err
		}
		return nil
	})
	if err != nil {
		if duplicate {
			logger.Info("Order synced concurrently elsewhere, skipping",
				"platform", platform,
				"platform_order_id", msg.PlatformOrderID,
			)
			return nil
		}
		return fmt.Errorf("failed to persist synced order: %w", err)
	}

	// The entry is committed; an archive failure must not fail the message
	if archiveErr := s.archiver.Archive(ctx, &mongo.ArchivedOrder{
		MessageID:       msg.MessageID,
		Platform:        string(platform),
		PlatformOrderID: msg.PlatformOrderID,
		EntryID:         e.ID,
		Payload:         msg.Raw,
		ArchivedAt:      time.Now().UTC(),
	}); archiveErr != nil {
		logger.Error("Failed to archive raw payload",
			"platform", platform,
			"platform_order_id", msg.PlatformOrderID,
			"error", archiveErr,
		)
	}

	logger.Info("Imported platform order",
		"platform", platform,
		"platform_order_id", msg.PlatformOrderID,
		"entry_id", e.ID,
		"amount", e.Amount,
	)
	return nil
}

// entryPlatform maps a sync platform onto the ledger's platform enum
func entryPlatform(p integration.SyncPlatform) entry.Platform {
	switch p {
	case integration.SyncPlatformUber:
		return entry.PlatformUberEats
	case integration.SyncPlatformShipt:
		return entry.PlatformShipt
	}
	return entry.PlatformOther
}
