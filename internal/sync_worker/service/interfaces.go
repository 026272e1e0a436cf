package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dashledger/internal/data/mongo"
	"github.com/dashledger/internal/domain/entry"
	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/domain/shared"
)

// IngestService defines the interface for importing fetched platform orders
// into the entry ledger.
type IngestService interface {
	IngestOrder(ctx context.Context, msg *shared.SyncOrderMessage) error
}

// TxRunner executes a function inside a database transaction, rolling back
// when the function errors. Satisfied by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// EntryWriter persists the normalized entry inside the ingest transaction
type EntryWriter interface {
	Create(ctx context.Context, tx pgx.Tx, e *entry.Entry) error
}

// SyncedOrderTracker records imported orders for de-duplication
type SyncedOrderTracker interface {
	Exists(ctx context.Context, p integration.SyncPlatform, platformOrderID string) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, so *integration.SyncedOrder) error
}

// PayloadArchiver stores the raw provider payload after a successful import
type PayloadArchiver interface {
	Archive(ctx context.Context, doc *mongo.ArchivedOrder) error
}
