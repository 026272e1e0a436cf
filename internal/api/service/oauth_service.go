package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/dashledger/internal/config"
	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/sync_worker/platforms"
)

// OAuthServiceImpl implements the OAuthService interface
type OAuthServiceImpl struct {
	credRepo integration.CredentialRepository
	syncCfg  config.SyncConfig
	logger   *slog.Logger
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(logger *slog.Logger, credRepo integration.CredentialRepository, syncCfg config.SyncConfig) OAuthService {
	return &OAuthServiceImpl{
		credRepo: credRepo,
		syncCfg:  syncCfg,
		logger:   logger,
	}
}

func (s *OAuthServiceImpl) providerConfig(p integration.SyncPlatform) (*oauth2.Config, error) {
	switch p {
	case integration.SyncPlatformUber:
		return platforms.OAuthConfig(p, s.syncCfg.Uber)
	case integration.SyncPlatformShipt:
		return platforms.OAuthConfig(p, s.syncCfg.Shipt)
	default:
		return nil, fmt.Errorf("no oauth configuration for platform %s", p)
	}
}

// AuthorizeURL builds the provider authorization URL for a platform
func (s *OAuthServiceImpl) AuthorizeURL(p integration.SyncPlatform, state string) (string, error) {
	cfg, err := s.providerConfig(p)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// HandleCallback exchanges an authorization code and stores the resulting
// credential for the platform
func (s *OAuthServiceImpl) HandleCallback(ctx context.Context, p integration.SyncPlatform, code string) (*integration.Credential, error) {
	cfg, err := s.providerConfig(p)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("OAuth code exchange failed", "platform", p, "error", err)
		return nil, fmt.Errorf("failed to exchange oauth code for %s: %w", p, err)
	}

	cred := &integration.Credential{
		Platform:     p,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		IsActive:     true,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		cred.TokenExpiresAt = &expiry
	}

	if err := s.credRepo.Upsert(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.Info("Platform connected", "platform", p)
	return cred, nil
}

// Disconnect deactivates the stored credential for a platform
func (s *OAuthServiceImpl) Disconnect(ctx context.Context, p integration.SyncPlatform) error {
	return s.credRepo.Deactivate(ctx, p)
}

// Status reports the connection state of every supported platform
func (s *OAuthServiceImpl) Status(ctx context.Context) ([]PlatformStatus, error) {
	creds, err := s.credRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byPlatform := make(map[integration.SyncPlatform]*integration.Credential, len(creds))
	for _, c := range creds {
		byPlatform[c.Platform] = c
	}

	statuses := make([]PlatformStatus, 0, len(integration.SyncPlatforms()))
	for _, p := range integration.SyncPlatforms() {
		st := PlatformStatus{Platform: p}
		if c, ok := byPlatform[p]; ok && c.IsActive {
			st.Connected = true
			st.ExpiresAt = c.TokenExpiresAt
		}
		statuses = append(statuses, st)
	}

	return statuses, nil
}
