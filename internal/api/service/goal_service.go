package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/domain/goal"
	"github.com/dashledger/internal/domain/shared"
)

// GoalServiceImpl implements the GoalService interface
type GoalServiceImpl struct {
	goalRepo goal.Repository
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo goal.Repository) GoalService {
	return &GoalServiceImpl{
		goalRepo: goalRepo,
	}
}

// UpsertGoal creates or replaces the goal for a timeframe
func (s *GoalServiceImpl) UpsertGoal(ctx context.Context, tf shared.Timeframe, target decimal.Decimal) (*goal.Goal, error) {
	g, err := goal.NewGoal(tf, target)
	if err != nil {
		return nil, err
	}

	if err := s.goalRepo.Upsert(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// GetGoal retrieves the goal for a timeframe
func (s *GoalServiceImpl) GetGoal(ctx context.Context, tf shared.Timeframe) (*goal.Goal, error) {
	return s.goalRepo.GetByTimeframe(ctx, tf)
}

// UpdateGoalTarget changes the target of an existing goal
func (s *GoalServiceImpl) UpdateGoalTarget(ctx context.Context, tf shared.Timeframe, target decimal.Decimal) (*goal.Goal, error) {
	if target.IsNegative() {
		return nil, goal.ErrNegativeTarget
	}
	return s.goalRepo.UpdateTarget(ctx, tf, target)
}

// DeleteGoal removes the goal for a timeframe
func (s *GoalServiceImpl) DeleteGoal(ctx context.Context, tf shared.Timeframe) error {
	return s.goalRepo.Delete(ctx, tf)
}
