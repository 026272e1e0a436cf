package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dashledger/internal/domain/goal"
	"github.com/dashledger/internal/domain/shared"
	"github.com/dashledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// GoalRepository implements the goal.Repository interface for PostgreSQL
type GoalRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var _ goal.Repository = (*GoalRepository)(nil)

// NewGoalRepository creates a new PostgreSQL goal repository
func NewGoalRepository(logger *slog.Logger, db *persistence.PostgresDB) *GoalRepository {
	return &GoalRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Upsert creates the goal or overwrites the target of the existing goal for
// the same timeframe. The goal's id and bookkeeping timestamps are refreshed
// from the stored row.
func (r *GoalRepository) Upsert(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (timeframe, target_profit, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (timeframe)
		DO UPDATE SET target_profit = EXCLUDED.target_profit, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	err := r.querier.QueryRow(ctx, query,
		g.Timeframe,
		g.TargetProfit,
		g.CreatedAt,
		g.UpdatedAt,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert goal", "timeframe", g.Timeframe, "error", err)
		return fmt.Errorf("failed to upsert goal: %w", err)
	}

	return nil
}

// GetByTimeframe retrieves the goal recorded for a timeframe
func (r *GoalRepository) GetByTimeframe(ctx context.Context, tf shared.Timeframe) (*goal.Goal, error) {
	query := `
		SELECT id, timeframe, target_profit, created_at, updated_at
		FROM goals
		WHERE timeframe = $1
	`

	var g goal.Goal
	err := r.querier.QueryRow(ctx, query, tf).Scan(
		&g.ID,
		&g.Timeframe,
		&g.TargetProfit,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goal.ErrGoalNotFound{Timeframe: tf}
		}
		r.logger.Error("Failed to get goal", "timeframe", tf, "error", err)
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return &g, nil
}

// UpdateTarget overwrites the target of an existing goal
func (r *GoalRepository) UpdateTarget(ctx context.Context, tf shared.Timeframe, target decimal.Decimal) (*goal.Goal, error) {
	query := `
		UPDATE goals
		SET target_profit = $1, updated_at = NOW()
		WHERE timeframe = $2
		RETURNING id, timeframe, target_profit, created_at, updated_at
	`

	var g goal.Goal
	err := r.querier.QueryRow(ctx, query, target, tf).Scan(
		&g.ID,
		&g.Timeframe,
		&g.TargetProfit,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goal.ErrGoalNotFound{Timeframe: tf}
		}
		r.logger.Error("Failed to update goal", "timeframe", tf, "error", err)
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return &g, nil
}

// Delete removes the goal for a timeframe
func (r *GoalRepository) Delete(ctx context.Context, tf shared.Timeframe) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM goals WHERE timeframe = $1`, tf)
	if err != nil {
		r.logger.Error("Failed to delete goal", "timeframe", tf, "error", err)
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	if result.RowsAffected() == 0 {
		return goal.ErrGoalNotFound{Timeframe: tf}
	}

	return nil
}
