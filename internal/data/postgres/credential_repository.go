package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// CredentialRepository implements integration.CredentialRepository for PostgreSQL
type CredentialRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var _ integration.CredentialRepository = (*CredentialRepository)(nil)

// NewCredentialRepository creates a new PostgreSQL credential repository
func NewCredentialRepository(logger *slog.Logger, db *persistence.PostgresDB) *CredentialRepository {
	return &CredentialRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

const credentialColumns = `id, platform, access_token, refresh_token,
		token_expires_at, is_active, created_at, updated_at`

// Upsert creates or replaces the stored tokens for a platform
func (r *CredentialRepository) Upsert(ctx context.Context, c *integration.Credential) error {
	query := `
		INSERT INTO platform_credentials (platform, access_token, refresh_token,
			token_expires_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (platform)
		DO UPDATE SET access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.querier.QueryRow(ctx, query,
		c.Platform,
		c.AccessToken,
		c.RefreshToken,
		c.TokenExpiresAt,
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert credential", "platform", c.Platform, "error", err)
		return fmt.Errorf("failed to upsert credential: %w", err)
	}

	return nil
}

// GetByPlatform retrieves the credential for a platform, or nil when the
// platform has never been connected
func (r *CredentialRepository) GetByPlatform(ctx context.Context, p integration.SyncPlatform) (*integration.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM platform_credentials WHERE platform = $1`

	c, err := scanCredential(r.querier.QueryRow(ctx, query, p))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get credential", "platform", p, "error", err)
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return c, nil
}

// ListActive retrieves credentials for all currently connected platforms
func (r *CredentialRepository) ListActive(ctx context.Context) ([]*integration.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM platform_credentials WHERE is_active ORDER BY platform`
	return r.list(ctx, query)
}

// List retrieves every stored credential, connected or not
func (r *CredentialRepository) List(ctx context.Context) ([]*integration.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM platform_credentials ORDER BY platform`
	return r.list(ctx, query)
}

func (r *CredentialRepository) list(ctx context.Context, query string) ([]*integration.Credential, error) {
	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list credentials", "error", err)
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var creds []*integration.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credentials: %w", err)
	}

	return creds, nil
}

// Deactivate disconnects a platform, keeping the stored tokens
func (r *CredentialRepository) Deactivate(ctx context.Context, p integration.SyncPlatform) error {
	query := `UPDATE platform_credentials SET is_active = FALSE, updated_at = NOW() WHERE platform = $1`

	result, err := r.querier.Exec(ctx, query, p)
	if err != nil {
		r.logger.Error("Failed to deactivate credential", "platform", p, "error", err)
		return fmt.Errorf("failed to deactivate credential: %w", err)
	}

	if result.RowsAffected() == 0 {
		return integration.ErrCredentialNotFound{Platform: p}
	}

	return nil
}

func scanCredential(row pgx.Row) (*integration.Credential, error) {
	var c integration.Credential
	err := row.Scan(
		&c.ID,
		&c.Platform,
		&c.AccessToken,
		&c.RefreshToken,
		&c.TokenExpiresAt,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
