// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the ledger service.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dashledger/internal/domain/entry"
	"github.com/dashledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `id, timestamp, kind, platform, external_order_id, amount,
		distance_miles, duration_minutes, category, note, receipt_reference,
		created_at, updated_at`

// EntryRepository implements the entry.Repository interface for PostgreSQL
type EntryRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

var _ entry.Repository = (*EntryRepository)(nil)

// NewEntryRepository creates a new PostgreSQL entry repository
func NewEntryRepository(logger *slog.Logger, db *persistence.PostgresDB) *EntryRepository {
	return &EntryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing atomic operations
// across multiple repository calls.
func (r *EntryRepository) WithTx(tx pgx.Tx) *EntryRepository {
	return &EntryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new entry and fills in its assigned id
func (r *EntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	query := `
		INSERT INTO entries (timestamp, kind, platform, external_order_id, amount,
			distance_miles, duration_minutes, category, note, receipt_reference,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		e.Timestamp,
		e.Kind,
		e.Platform,
		e.ExternalOrderID,
		e.Amount,
		e.DistanceMiles,
		e.DurationMinutes,
		e.Category,
		e.Note,
		e.ReceiptRef,
		e.CreatedAt,
		e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		r.logger.Error("Failed to create entry", "error", err)
		return fmt.Errorf("failed to create entry: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by its id
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*entry.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	e, err := scanEntry(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entry.ErrEntryNotFound{ID: id}
		}
		r.logger.Error("Failed to get entry", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return e, nil
}

// List retrieves entries matching the filter, newest first. The cursor
// excludes ids at or past the cursor so callers can page backwards.
func (r *EntryRepository) List(ctx context.Context, filter entry.ListFilter) ([]*entry.Entry, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, "timestamp >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, "timestamp <= $"+strconv.Itoa(len(args)))
	}
	if filter.Cursor != nil {
		args = append(args, *filter.Cursor)
		conditions = append(conditions, "id < $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += " LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list entries", "error", err)
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*entry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// ListRange retrieves every entry inside the optional time bounds, oldest
// first. Used by the rollup which must see the full window.
func (r *EntryRepository) ListRange(ctx context.Context, from, to *time.Time) ([]*entry.Entry, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if from != nil {
		args = append(args, *from)
		conditions = append(conditions, "timestamp >= $"+strconv.Itoa(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conditions = append(conditions, "timestamp <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp ASC, id ASC"

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list entry range", "error", err)
		return nil, fmt.Errorf("failed to list entry range: %w", err)
	}
	defer rows.Close()

	var entries []*entry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// Update persists a mutated entry
func (r *EntryRepository) Update(ctx context.Context, e *entry.Entry) error {
	query := `
		UPDATE entries
		SET timestamp = $1, kind = $2, platform = $3, external_order_id = $4,
			amount = $5, distance_miles = $6, duration_minutes = $7,
			category = $8, note = $9, receipt_reference = $10, updated_at = $11
		WHERE id = $12
	`

	result, err := r.querier.Exec(ctx, query,
		e.Timestamp,
		e.Kind,
		e.Platform,
		e.ExternalOrderID,
		e.Amount,
		e.DistanceMiles,
		e.DurationMinutes,
		e.Category,
		e.Note,
		e.ReceiptRef,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update entry", "id", e.ID, "error", err)
		return fmt.Errorf("failed to update entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entry.ErrEntryNotFound{ID: e.ID}
	}

	return nil
}

// Delete removes an entry permanently
func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete entry", "id", id, "error", err)
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entry.ErrEntryNotFound{ID: id}
	}

	return nil
}

// DeleteAll wipes the full ledger
func (r *EntryRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.querier.Exec(ctx, `DELETE FROM entries`); err != nil {
		r.logger.Error("Failed to delete all entries", "error", err)
		return fmt.Errorf("failed to delete all entries: %w", err)
	}
	return nil
}

func scanEntry(row pgx.Row) (*entry.Entry, error) {
	var e entry.Entry
	err := row.Scan(
		&e.ID,
		&e.Timestamp,
		&e.Kind,
		&e.Platform,
		&e.ExternalOrderID,
		&e.Amount,
		&e.DistanceMiles,
		&e.DurationMinutes,
		&e.Category,
		&e.Note,
		&e.ReceiptRef,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
