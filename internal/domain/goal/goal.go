package goal

import (
	"errors"
	"time"

	"github.com/dashledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrNegativeTarget rejects goals with a negative target profit
var ErrNegativeTarget = errors.New("target_profit must not be negative")

// Goal is a target profit associated with a timeframe. At most one goal
// exists per timeframe.
type Goal struct {
	ID           int64            `json:"id"`
	Timeframe    shared.Timeframe `json:"timeframe"`
	TargetProfit decimal.Decimal  `json:"target_profit"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewGoal creates a goal for the given timeframe
func NewGoal(tf shared.Timeframe, target decimal.Decimal) (*Goal, error) {
	if _, err := shared.ParseTimeframe(string(tf)); err != nil {
		return nil, err
	}
	if target.IsNegative() {
		return nil, ErrNegativeTarget
	}

	now := time.Now().UTC()
	return &Goal{
		Timeframe:    tf,
		TargetProfit: target,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
