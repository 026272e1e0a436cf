package components

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/dashledger/internal/data/postgres"
	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/sync_worker/service"
)

// SyncedOrderTrackerImpl implements the SyncedOrderTracker interface
type SyncedOrderTrackerImpl struct {
	syncedRepo *postgres.SyncedOrderRepository
	logger     *slog.Logger
}

// NewSyncedOrderTracker creates a new SyncedOrderTrackerImpl
func NewSyncedOrderTracker(syncedRepo *postgres.SyncedOrderRepository, logger *slog.Logger) service.SyncedOrderTracker {
	return &SyncedOrderTrackerImpl{
		syncedRepo: syncedRepo,
		logger:     logger,
	}
}

// Exists reports whether the order was already imported
func (t *SyncedOrderTrackerImpl) Exists(ctx context.Context, p integration.SyncPlatform, platformOrderID string) (bool, error) {
	return t.syncedRepo.Exists(ctx, p, platformOrderID)
}

// Create records the imported order within the given transaction. The unique
// constraint surfaces concurrent imports as ErrDuplicateSyncedOrder.
func (t *SyncedOrderTrackerImpl) Create(ctx context.Context, tx pgx.Tx, so *integration.SyncedOrder) error {
	return t.syncedRepo.WithTx(tx).Create(ctx, so)
}
