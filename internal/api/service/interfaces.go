package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/domain/entry"
	"github.com/dashledger/internal/domain/goal"
	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/domain/settings"
	"github.com/dashledger/internal/domain/shared"
	"github.com/dashledger/internal/rollup"
)

// EntryService defines the interface for ledger entry operations
type EntryService interface {
	// CreateEntry validates and persists a new entry; the stored amount sign
	// follows the entry kind regardless of the sign supplied
	CreateEntry(ctx context.Context, p entry.CreateParams) (*entry.Entry, error)

	// GetEntryByID retrieves an entry by its ID
	// Returns ErrEntryNotFound if the entry doesn't exist
	GetEntryByID(ctx context.Context, id int64) (*entry.Entry, error)

	// ListEntries retrieves entries matching the filter, newest first
	ListEntries(ctx context.Context, filter entry.ListFilter) ([]*entry.Entry, error)

	// UpdateEntry applies a partial update to an existing entry
	// Returns ErrEntryNotFound if the entry doesn't exist
	UpdateEntry(ctx context.Context, id int64, p entry.UpdateParams) (*entry.Entry, error)

	// DeleteEntry removes an entry
	// Returns ErrEntryNotFound if the entry doesn't exist
	DeleteEntry(ctx context.Context, id int64) error

	// DeleteAllEntries removes every entry in the ledger
	DeleteAllEntries(ctx context.Context) error
}

// RollupQuery selects the entry window for a rollup. A timeframe, when
// present, wins over the explicit bounds and also keys the goal lookup.
type RollupQuery struct {
	Timeframe *shared.Timeframe
	From      *time.Time
	To        *time.Time
}

// RollupService defines the interface for aggregate summaries
type RollupService interface {
	// Summarize computes the rollup over the selected window
	// Returns ErrInvalidTimeframe for unknown timeframe values
	Summarize(ctx context.Context, q RollupQuery) (*rollup.Result, error)
}

// GoalService defines the interface for profit goal operations
type GoalService interface {
	// UpsertGoal creates or replaces the goal for a timeframe
	UpsertGoal(ctx context.Context, tf shared.Timeframe, target decimal.Decimal) (*goal.Goal, error)

	// GetGoal retrieves the goal for a timeframe
	// Returns ErrGoalNotFound if no goal exists for the timeframe
	GetGoal(ctx context.Context, tf shared.Timeframe) (*goal.Goal, error)

	// UpdateGoalTarget changes the target of an existing goal
	// Returns ErrGoalNotFound if no goal exists for the timeframe
	UpdateGoalTarget(ctx context.Context, tf shared.Timeframe, target decimal.Decimal) (*goal.Goal, error)

	// DeleteGoal removes the goal for a timeframe
	// Returns ErrGoalNotFound if no goal exists for the timeframe
	DeleteGoal(ctx context.Context, tf shared.Timeframe) error
}

// SettingsService defines the interface for the settings singleton
type SettingsService interface {
	// GetSettings returns the stored settings, creating them with the
	// configured default cost-per-mile on first access
	GetSettings(ctx context.Context) (*settings.Settings, error)

	// UpdateSettings replaces the stored settings
	UpdateSettings(ctx context.Context, s *settings.Settings) (*settings.Settings, error)
}

// PlatformStatus reports one platform's connection state
type PlatformStatus struct {
	Platform  integration.SyncPlatform
	Connected bool
	ExpiresAt *time.Time
}

// OAuthService defines the interface for platform OAuth connections
type OAuthService interface {
	// AuthorizeURL builds the provider authorization URL for a platform
	AuthorizeURL(p integration.SyncPlatform, state string) (string, error)

	// HandleCallback exchanges an authorization code and stores the
	// resulting credential for the platform
	HandleCallback(ctx context.Context, p integration.SyncPlatform, code string) (*integration.Credential, error)

	// Disconnect deactivates the stored credential for a platform
	// Returns ErrCredentialNotFound if the platform was never connected
	Disconnect(ctx context.Context, p integration.SyncPlatform) error

	// Status reports the connection state of every supported platform
	Status(ctx context.Context) ([]PlatformStatus, error)
}
