// Package scheduler runs the periodic platform fetch: on each tick it walks
// the active platform credentials, pulls recently completed orders from each
// provider, and publishes them onto the sync order topic for ingestion.
// Scheduling is injectable; nothing in the ledger core knows about time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/oauth2"

	"github.com/dashledger/internal/config"
	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/domain/shared"
	"github.com/dashledger/internal/platform/messaging/producers"
	"github.com/dashledger/internal/sync_worker/platforms"
)

// ClientFactory builds a platform client from a stored credential. The token
// source is returned alongside so refreshed tokens can be persisted.
type ClientFactory func(ctx context.Context, cred *integration.Credential) (platforms.Client, oauth2.TokenSource, error)

// Scheduler drives the periodic fetch job
type Scheduler struct {
	cron     *cron.Cron
	credRepo integration.CredentialRepository
	producer producers.MessagePublisher
	syncCfg  config.SyncConfig
	clients  ClientFactory
	logger   *slog.Logger
	now      func() time.Time
}

// NewScheduler creates the fetch scheduler with the default OAuth-backed
// client factory
func NewScheduler(
	logger *slog.Logger,
	credRepo integration.CredentialRepository,
	producer producers.MessagePublisher,
	syncCfg config.SyncConfig,
) *Scheduler {
	s := &Scheduler{
		cron:     cron.New(),
		credRepo: credRepo,
		producer: producer,
		syncCfg:  syncCfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	s.clients = s.defaultClientFactory
	return s
}

// Start registers the fetch job on the configured schedule and starts the
// cron runner
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.syncCfg.Schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("Scheduled sync run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register sync schedule %q: %w", s.syncCfg.Schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Sync scheduler started", "schedule", s.syncCfg.Schedule, "lookback", s.syncCfg.Lookback)
	return nil
}

// Stop halts the cron runner and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sync scheduler stopped")
}

// RunOnce fetches and publishes orders for every active credential. One
// platform failing does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()
	logger := s.logger.With("correlation_id", runID)

	creds, err := s.credRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active credentials: %w", err)
	}
	if len(creds) == 0 {
		logger.Debug("No connected platforms, nothing to sync")
		return nil
	}

	var firstErr error
	for _, cred := range creds {
		if err := s.syncPlatform(ctx, logger, runID, cred); err != nil {
			logger.Error("Platform sync failed", "platform", cred.Platform, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Scheduler) syncPlatform(ctx context.Context, logger *slog.Logger, runID string, cred *integration.Credential) error {
	fetchCtx, cancel := context.WithTimeout(ctx, s.syncCfg.FetchTimeout)
	defer cancel()

	client, tokenSource, err := s.clients(fetchCtx, cred)
	if err != nil {
		return fmt.Errorf("failed to build client for %s: %w", cred.Platform, err)
	}

	since := s.now().Add(-s.syncCfg.Lookback)
	orders, err := client.FetchCompletedOrders(fetchCtx, since)
	if err != nil {
		return fmt.Errorf("failed to fetch orders from %s: %w", cred.Platform, err)
	}

	fetchedAt := s.now()
	published := 0
	for _, ord := range orders {
		msg := &shared.SyncOrderMessage{
			MessageID:       uuid.New(),
			Platform:        string(cred.Platform),
			PlatformOrderID: ord.PlatformOrderID,
			Order:           ord.Order,
			Raw:             ord.Raw,
			CorrelationID:   runID,
			FetchedAt:       fetchedAt,
		}
		key := string(cred.Platform) + ":" + ord.PlatformOrderID
		if err := s.producer.Publish(ctx, key, msg); err != nil {
			return fmt.Errorf("failed to publish order %s: %w", key, err)
		}
		published++
	}

	logger.Info("Published fetched orders", "platform", cred.Platform, "count", published)

	s.persistRefreshedToken(ctx, logger, cred, tokenSource)
	return nil
}

// persistRefreshedToken stores the token the source currently holds when the
// provider rotated it during the fetch
func (s *Scheduler) persistRefreshedToken(ctx context.Context, logger *slog.Logger, cred *integration.Credential, tokenSource oauth2.TokenSource) {
	if tokenSource == nil {
		return
	}

	token, err := tokenSource.Token()
	if err != nil || token.AccessToken == cred.AccessToken {
		return
	}

	updated := &integration.Credential{
		Platform:     cred.Platform,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		IsActive:     true,
	}
	if updated.RefreshToken == "" {
		updated.RefreshToken = cred.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		updated.TokenExpiresAt = &expiry
	}

	if err := s.credRepo.Upsert(ctx, updated); err != nil {
		logger.Error("Failed to persist refreshed token", "platform", cred.Platform, "error", err)
		return
	}
	logger.Info("Persisted refreshed token", "platform", cred.Platform)
}

// defaultClientFactory builds an OAuth-backed HTTP client for the credential's
// platform
func (s *Scheduler) defaultClientFactory(ctx context.Context, cred *integration.Credential) (platforms.Client, oauth2.TokenSource, error) {
	var providerCfg config.OAuthProviderConfig
	switch cred.Platform {
	case integration.SyncPlatformUber:
		providerCfg = s.syncCfg.Uber
	case integration.SyncPlatformShipt:
		providerCfg = s.syncCfg.Shipt
	default:
		return nil, nil, fmt.Errorf("no provider configuration for platform %s", cred.Platform)
	}

	oauthCfg, err := platforms.OAuthConfig(cred.Platform, providerCfg)
	if err != nil {
		return nil, nil, err
	}

	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
	}
	if cred.TokenExpiresAt != nil {
		token.Expiry = *cred.TokenExpiresAt
	}

	tokenSource := oauthCfg.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	switch cred.Platform {
	case integration.SyncPlatformUber:
		return platforms.NewUberClient(s.logger, httpClient), tokenSource, nil
	default:
		return platforms.NewShiptClient(s.logger, httpClient), tokenSource, nil
	}
}
