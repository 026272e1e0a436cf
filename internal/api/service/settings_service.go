package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/domain/settings"
)

// SettingsServiceImpl implements the SettingsService interface
type SettingsServiceImpl struct {
	settingsRepo       settings.Repository
	defaultCostPerMile decimal.Decimal
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo settings.Repository, defaultCostPerMile decimal.Decimal) SettingsService {
	return &SettingsServiceImpl{
		settingsRepo:       settingsRepo,
		defaultCostPerMile: defaultCostPerMile,
	}
}

// GetSettings returns the stored settings, creating them with the configured
// default cost-per-mile on first access
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (*settings.Settings, error) {
	stored, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	created := &settings.Settings{CostPerMile: s.defaultCostPerMile}
	if err := s.settingsRepo.Upsert(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateSettings replaces the stored settings
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, in *settings.Settings) (*settings.Settings, error) {
	if in.CostPerMile.IsNegative() {
		return nil, settings.ErrNegativeCostPerMile
	}

	if err := s.settingsRepo.Upsert(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}
