package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/dashledger/internal/domain/settings"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_Get(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &SettingsRepository{querier: mock, logger: logger}

	query := `SELECT cost_per_mile FROM settings WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"cost_per_mile"}).AddRow(decimal.NewFromFloat(0.58))
		mock.ExpectQuery(query).WithArgs(settingsRowID).WillReturnRows(rows)

		s, err := repo.Get(ctx)
		assert.NoError(t, err)
		require.NotNil(t, s)
		assert.True(t, s.CostPerMile.Equal(decimal.NewFromFloat(0.58)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row returns nil", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(settingsRowID).WillReturnError(pgx.ErrNoRows)

		s, err := repo.Get(ctx)
		assert.NoError(t, err)
		assert.Nil(t, s)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(settingsRowID).WillReturnError(dbErr)

		s, err := repo.Get(ctx)
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSettingsRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &SettingsRepository{querier: mock, logger: logger}
	s := &settings.Settings{CostPerMile: decimal.NewFromFloat(0.62)}

	query := `INSERT INTO settings \(id, cost_per_mile\)`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(settingsRowID, s.CostPerMile).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Upsert(ctx, s)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(settingsRowID, s.CostPerMile).
			WillReturnError(dbErr)

		err := repo.Upsert(ctx, s)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upsert settings")
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
