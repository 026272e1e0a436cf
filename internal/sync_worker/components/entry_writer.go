package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/dashledger/internal/data/postgres"
	"github.com/dashledger/internal/domain/entry"
	"github.com/dashledger/internal/sync_worker/service"
)

// EntryWriterImpl implements the EntryWriter interface
type EntryWriterImpl struct {
	entryRepo *postgres.EntryRepository
	logger    *slog.Logger
}

// NewEntryWriter creates a new EntryWriterImpl
func NewEntryWriter(entryRepo *postgres.EntryRepository, logger *slog.Logger) service.EntryWriter {
	return &EntryWriterImpl{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// Create persists the entry within the given transaction
func (w *EntryWriterImpl) Create(ctx context.Context, tx pgx.Tx, e *entry.Entry) error {
	if err := w.entryRepo.WithTx(tx).Create(ctx, e); err != nil {
		return fmt.Errorf("failed to write synced entry: %w", err)
	}
	return nil
}
