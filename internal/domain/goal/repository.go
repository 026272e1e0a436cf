package goal

import (
	"context"

	"github.com/dashledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Repository manages goal persistence keyed by timeframe
type Repository interface {
	// Upsert creates the goal, or overwrites the target of an existing goal
	// for the same timeframe
	Upsert(ctx context.Context, g *Goal) error
	GetByTimeframe(ctx context.Context, tf shared.Timeframe) (*Goal, error)
	UpdateTarget(ctx context.Context, tf shared.Timeframe, target decimal.Decimal) (*Goal, error)
	Delete(ctx context.Context, tf shared.Timeframe) error
}

// ErrGoalNotFound indicates no goal is recorded for a timeframe
type ErrGoalNotFound struct {
	Timeframe shared.Timeframe
}

func (e ErrGoalNotFound) Error() string {
	return "goal not found for timeframe: " + string(e.Timeframe)
}

// Is implements the errors.Is interface for ErrGoalNotFound
func (e ErrGoalNotFound) Is(target error) bool {
	t, ok := target.(ErrGoalNotFound)
	if !ok {
		return false
	}
	if t.Timeframe == "" {
		return true
	}
	return e.Timeframe == t.Timeframe
}
