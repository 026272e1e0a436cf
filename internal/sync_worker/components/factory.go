package components

import (
	"log/slog"

	"github.com/dashledger/internal/config"
	"github.com/dashledger/internal/data/mongo"
	"github.com/dashledger/internal/data/postgres"
	"github.com/dashledger/internal/platform/persistence"
	"github.com/dashledger/internal/sync_worker/service"
)

// CreateIngestService creates a new IngestService with all its dependencies.
func CreateIngestService(
	pgDB *persistence.PostgresDB,
	entryRepo *postgres.EntryRepository,
	syncedRepo *postgres.SyncedOrderRepository,
	archiveRepo *mongo.SyncArchiveRepository,
	logger *slog.Logger,
	cfg *config.Config,
) service.IngestService {
	entryWriter := NewEntryWriter(entryRepo, logger)
	syncedTracker := NewSyncedOrderTracker(syncedRepo, logger)

	baseService := service.NewIngestService(
		pgDB,
		entryWriter,
		syncedTracker,
		archiveRepo,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolIngestService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool ingest service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
