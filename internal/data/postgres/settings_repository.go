package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dashledger/internal/domain/settings"
	"github.com/dashledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// settingsRowID pins the settings table to a single row
const settingsRowID = 1

// SettingsRepository implements the settings.Repository interface for PostgreSQL
type SettingsRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var _ settings.Repository = (*SettingsRepository)(nil)

// NewSettingsRepository creates a new PostgreSQL settings repository
func NewSettingsRepository(logger *slog.Logger, db *persistence.PostgresDB) *SettingsRepository {
	return &SettingsRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Get retrieves the settings singleton, or nil when it was never created
func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	query := `SELECT cost_per_mile FROM settings WHERE id = $1`

	var s settings.Settings
	err := r.querier.QueryRow(ctx, query, settingsRowID).Scan(&s.CostPerMile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get settings", "error", err)
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &s, nil
}

// Upsert creates or replaces the settings singleton
func (r *SettingsRepository) Upsert(ctx context.Context, s *settings.Settings) error {
	query := `
		INSERT INTO settings (id, cost_per_mile)
		VALUES ($1, $2)
		ON CONFLICT (id)
		DO UPDATE SET cost_per_mile = EXCLUDED.cost_per_mile
	`

	if _, err := r.querier.Exec(ctx, query, settingsRowID, s.CostPerMile); err != nil {
		r.logger.Error("Failed to upsert settings", "error", err)
		return fmt.Errorf("failed to upsert settings: %w", err)
	}

	return nil
}
