package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dashledger/internal/domain/entry"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var entryColumnNames = []string{
	"id", "timestamp", "kind", "platform", "external_order_id", "amount",
	"distance_miles", "duration_minutes", "category", "note",
	"receipt_reference", "created_at", "updated_at",
}

func entryRow(e *entry.Entry) *pgxmock.Rows {
	return pgxmock.NewRows(entryColumnNames).AddRow(
		e.ID, e.Timestamp, e.Kind, e.Platform, e.ExternalOrderID, e.Amount,
		e.DistanceMiles, e.DurationMinutes, e.Category, e.Note,
		e.ReceiptRef, e.CreatedAt, e.UpdatedAt,
	)
}

func testEntry(id int64) *entry.Entry {
	now := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)
	return &entry.Entry{
		ID:              id,
		Timestamp:       now,
		Kind:            entry.KindOrder,
		Platform:        entry.PlatformDoorDash,
		ExternalOrderID: "dd-1001",
		Amount:          decimal.NewFromFloat(12.50),
		DistanceMiles:   4.2,
		DurationMinutes: 25,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestEntryRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: logger}
	e := testEntry(0)

	query := `INSERT INTO entries \(timestamp, kind, platform, external_order_id, amount,`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(e.Timestamp, e.Kind, e.Platform, e.ExternalOrderID, e.Amount,
				e.DistanceMiles, e.DurationMinutes, e.Category, e.Note, e.ReceiptRef,
				e.CreatedAt, e.UpdatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

		err := repo.Create(ctx, e)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), e.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(e.Timestamp, e.Kind, e.Platform, e.ExternalOrderID, e.Amount,
				e.DistanceMiles, e.DurationMinutes, e.Category, e.Note, e.ReceiptRef,
				e.CreatedAt, e.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, e)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create entry")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: logger}
	expected := testEntry(42)

	query := `SELECT .+ FROM entries WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnRows(entryRow(expected))

		e, err := repo.GetByID(ctx, expected.ID)
		assert.NoError(t, err)
		assert.Equal(t, expected, e)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnError(pgx.ErrNoRows)

		e, err := repo.GetByID(ctx, expected.ID)
		assert.Error(t, err)
		assert.Nil(t, e)
		var notFoundErr entry.ErrEntryNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, expected.ID, notFoundErr.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("some db error")
		mock.ExpectQuery(query).WithArgs(expected.ID).WillReturnError(dbErr)

		e, err := repo.GetByID(ctx, expected.ID)
		assert.Error(t, err)
		assert.Nil(t, e)
		assert.Contains(t, err.Error(), "failed to get entry")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_List(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: logger}
	e1 := testEntry(2)
	e2 := testEntry(1)

	t.Run("no filter uses default limit", func(t *testing.T) {
		query := `SELECT .+ FROM entries ORDER BY timestamp DESC, id DESC LIMIT \$1`
		rows := pgxmock.NewRows(entryColumnNames).
			AddRow(e1.ID, e1.Timestamp, e1.Kind, e1.Platform, e1.ExternalOrderID, e1.Amount,
				e1.DistanceMiles, e1.DurationMinutes, e1.Category, e1.Note,
				e1.ReceiptRef, e1.CreatedAt, e1.UpdatedAt).
			AddRow(e2.ID, e2.Timestamp, e2.Kind, e2.Platform, e2.ExternalOrderID, e2.Amount,
				e2.DistanceMiles, e2.DurationMinutes, e2.Category, e2.Note,
				e2.ReceiptRef, e2.CreatedAt, e2.UpdatedAt)

		mock.ExpectQuery(query).WithArgs(100).WillReturnRows(rows)

		entries, err := repo.List(ctx, entry.ListFilter{})
		assert.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, e1, entries[0])
		assert.Equal(t, e2, entries[1])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("date range and cursor", func(t *testing.T) {
		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
		cursor := int64(50)

		query := `SELECT .+ FROM entries WHERE timestamp >= \$1 AND timestamp <= \$2 AND id < \$3 ORDER BY timestamp DESC, id DESC LIMIT \$4`
		mock.ExpectQuery(query).
			WithArgs(from, to, cursor, 10).
			WillReturnRows(entryRow(e1))

		entries, err := repo.List(ctx, entry.ListFilter{From: &from, To: &to, Cursor: &cursor, Limit: 10})
		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, e1, entries[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("query failed")
		mock.ExpectQuery(`SELECT .+ FROM entries ORDER BY timestamp DESC, id DESC LIMIT \$1`).
			WithArgs(100).
			WillReturnError(dbErr)

		entries, err := repo.List(ctx, entry.ListFilter{})
		assert.Error(t, err)
		assert.Nil(t, entries)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_ListRange(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: logger}
	e := testEntry(5)

	t.Run("bounded window", func(t *testing.T) {
		from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

		query := `SELECT .+ FROM entries WHERE timestamp >= \$1 AND timestamp <= \$2 ORDER BY timestamp ASC, id ASC`
		mock.ExpectQuery(query).WithArgs(from, to).WillReturnRows(entryRow(e))

		entries, err := repo.ListRange(ctx, &from, &to)
		assert.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, e, entries[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unbounded window has no conditions", func(t *testing.T) {
		query := `SELECT .+ FROM entries ORDER BY timestamp ASC, id ASC`
		mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows(entryColumnNames))

		entries, err := repo.ListRange(ctx, nil, nil)
		assert.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_Update(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: logger}
	e := testEntry(42)

	query := `UPDATE entries`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(e.Timestamp, e.Kind, e.Platform, e.ExternalOrderID, e.Amount,
				e.DistanceMiles, e.DurationMinutes, e.Category, e.Note, e.ReceiptRef,
				e.UpdatedAt, e.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.Update(ctx, e)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(e.Timestamp, e.Kind, e.Platform, e.ExternalOrderID, e.Amount,
				e.DistanceMiles, e.DurationMinutes, e.Category, e.Note, e.ReceiptRef,
				e.UpdatedAt, e.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(ctx, e)
		var notFoundErr entry.ErrEntryNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, e.ID, notFoundErr.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: logger}
	id := int64(42)

	query := `DELETE FROM entries WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(ctx, id)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, id)
		var notFoundErr entry.ErrEntryNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_DeleteAll(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: logger}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM entries`).WillReturnResult(pgxmock.NewResult("DELETE", 3))

		err := repo.DeleteAll(ctx)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db down")
		mock.ExpectExec(`DELETE FROM entries`).WillReturnError(dbErr)

		err := repo.DeleteAll(ctx)
		assert.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
