package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/domain/entry"
	"github.com/dashledger/internal/domain/goal"
	"github.com/dashledger/internal/domain/settings"
	"github.com/dashledger/internal/rollup"
)

// RollupServiceImpl implements the RollupService interface
type RollupServiceImpl struct {
	entryRepo          entry.Repository
	goalRepo           goal.Repository
	settingsRepo       settings.Repository
	defaultCostPerMile decimal.Decimal
	now                func() time.Time
}

// NewRollupService creates a new rollup service
func NewRollupService(
	entryRepo entry.Repository,
	goalRepo goal.Repository,
	settingsRepo settings.Repository,
	defaultCostPerMile decimal.Decimal,
) *RollupServiceImpl {
	return &RollupServiceImpl{
		entryRepo:          entryRepo,
		goalRepo:           goalRepo,
		settingsRepo:       settingsRepo,
		defaultCostPerMile: defaultCostPerMile,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// Summarize computes the rollup over the selected window. A timeframe, when
// present, resolves to the query range and keys the goal lookup; a goal miss
// is not an error, the summary simply carries no goal.
func (s *RollupServiceImpl) Summarize(ctx context.Context, q RollupQuery) (*rollup.Result, error) {
	from, to := q.From, q.To

	if q.Timeframe != nil {
		rng, err := rollup.ResolvePeriod(*q.Timeframe, s.now())
		if err != nil {
			return nil, err
		}
		from, to = &rng.Start, &rng.End
	}

	entries, err := s.entryRepo.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	costPerMile := s.defaultCostPerMile
	stored, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		costPerMile = stored.CostPerMile
	}

	res := rollup.Compute(entries, costPerMile)

	if q.Timeframe != nil {
		g, err := s.goalRepo.GetByTimeframe(ctx, *q.Timeframe)
		if err != nil && !errors.Is(err, goal.ErrGoalNotFound{}) {
			return nil, err
		}
		rollup.AttachGoal(res, g)
	}

	return res, nil
}
