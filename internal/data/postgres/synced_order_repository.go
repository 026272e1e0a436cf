package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches
const uniqueViolation = "23505"

// SyncedOrderRepository implements integration.SyncedOrderRepository for PostgreSQL
type SyncedOrderRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var _ integration.SyncedOrderRepository = (*SyncedOrderRepository)(nil)

// NewSyncedOrderRepository creates a new PostgreSQL synced order repository
func NewSyncedOrderRepository(logger *slog.Logger, db *persistence.PostgresDB) *SyncedOrderRepository {
	return &SyncedOrderRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so a synced order can be
// recorded atomically with its ledger entry.
func (r *SyncedOrderRepository) WithTx(tx pgx.Tx) *SyncedOrderRepository {
	return &SyncedOrderRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create records an imported order. The (platform, platform_order_id) unique
// constraint turns a replay into ErrDuplicateSyncedOrder.
func (r *SyncedOrderRepository) Create(ctx context.Context, so *integration.SyncedOrder) error {
	query := `
		INSERT INTO synced_orders (platform, platform_order_id, entry_id, synced_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		so.Platform,
		so.PlatformOrderID,
		so.EntryID,
		so.SyncedAt,
		so.CreatedAt,
	).Scan(&so.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return integration.ErrDuplicateSyncedOrder{
				Platform:        so.Platform,
				PlatformOrderID: so.PlatformOrderID,
			}
		}
		r.logger.Error("Failed to create synced order",
			"platform", so.Platform, "platform_order_id", so.PlatformOrderID, "error", err)
		return fmt.Errorf("failed to create synced order: %w", err)
	}

	return nil
}

// Exists reports whether an order has already been imported
func (r *SyncedOrderRepository) Exists(ctx context.Context, p integration.SyncPlatform, platformOrderID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM synced_orders WHERE platform = $1 AND platform_order_id = $2)`

	var exists bool
	err := r.querier.QueryRow(ctx, query, p, platformOrderID).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check synced order",
			"platform", p, "platform_order_id", platformOrderID, "error", err)
		return false, fmt.Errorf("failed to check synced order: %w", err)
	}

	return exists, nil
}
