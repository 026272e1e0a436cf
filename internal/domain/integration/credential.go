// Package integration holds the state the platform-sync pipeline needs:
// OAuth credentials per connected delivery platform and the record of orders
// already imported from each.
package integration

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidPlatform rejects unknown sync platform names
var ErrInvalidPlatform = errors.New("invalid sync platform")

// SyncPlatform names a delivery platform with a sync integration. This is a
// narrower set than entry.Platform: only platforms with an API adapter.
type SyncPlatform string

const (
	SyncPlatformUber  SyncPlatform = "UBER"
	SyncPlatformShipt SyncPlatform = "SHIPT"
)

// SyncPlatforms returns every platform with a sync integration
func SyncPlatforms() []SyncPlatform {
	return []SyncPlatform{SyncPlatformUber, SyncPlatformShipt}
}

// ParseSyncPlatform validates a raw platform name
func ParseSyncPlatform(raw string) (SyncPlatform, error) {
	switch SyncPlatform(raw) {
	case SyncPlatformUber:
		return SyncPlatformUber, nil
	case SyncPlatformShipt:
		return SyncPlatformShipt, nil
	}
	return "", ErrInvalidPlatform
}

// Credential stores the OAuth tokens for one connected platform
type Credential struct {
	ID             int64        `json:"id"`
	Platform       SyncPlatform `json:"platform"`
	AccessToken    string       `json:"-"`
	RefreshToken   string       `json:"-"`
	TokenExpiresAt *time.Time   `json:"token_expires_at,omitempty"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// CredentialRepository persists per-platform OAuth credentials. GetByPlatform
// returns nil when the platform has never been connected.
type CredentialRepository interface {
	Upsert(ctx context.Context, c *Credential) error
	GetByPlatform(ctx context.Context, p SyncPlatform) (*Credential, error)
	ListActive(ctx context.Context) ([]*Credential, error)
	List(ctx context.Context) ([]*Credential, error)
	Deactivate(ctx context.Context, p SyncPlatform) error
}

// ErrCredentialNotFound indicates a platform has no stored connection
type ErrCredentialNotFound struct {
	Platform SyncPlatform
}

func (e ErrCredentialNotFound) Error() string {
	return "no connection found for platform: " + string(e.Platform)
}

// Is implements the errors.Is interface for ErrCredentialNotFound
func (e ErrCredentialNotFound) Is(target error) bool {
	t, ok := target.(ErrCredentialNotFound)
	if !ok {
		return false
	}
	if t.Platform == "" {
		return true
	}
	return e.Platform == t.Platform
}
