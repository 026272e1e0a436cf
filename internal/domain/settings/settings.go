// Package settings models the single configuration row the ledger keeps:
// the driver's cost-per-mile estimate.
package settings

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNegativeCostPerMile indicates a cost-per-mile below zero
var ErrNegativeCostPerMile = errors.New("cost per mile must not be negative")

// Settings is the singleton configuration record
type Settings struct {
	CostPerMile decimal.Decimal `json:"cost_per_mile"`
}

// Repository persists the settings singleton. Get returns nil when no row
// exists yet; the service layer creates it with the configured default.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
}
