// Package platforms holds the delivery platform integrations: OAuth endpoint
// catalogs and the HTTP clients that pull completed orders from each
// provider's API.
package platforms

import (
	"fmt"

	"golang.org/x/oauth2"

	"github.com/dashledger/internal/config"
	"github.com/dashledger/internal/domain/integration"
)

var oauthEndpoints = map[integration.SyncPlatform]oauth2.Endpoint{
	integration.SyncPlatformUber: {
		AuthURL:  "https://auth.uber.com/oauth/v2/authorize",
		TokenURL: "https://auth.uber.com/oauth/v2/token",
	},
	integration.SyncPlatformShipt: {
		AuthURL:  "https://shop.shipt.com/oauth/authorize",
		TokenURL: "https://shop.shipt.com/oauth/token",
	},
}

var oauthScopes = map[integration.SyncPlatform][]string{
	integration.SyncPlatformUber:  {"partner.trips"},
	integration.SyncPlatformShipt: {"orders.read"},
}

// OAuthConfig builds the oauth2 client configuration for a platform from the
// stored client credentials
func OAuthConfig(p integration.SyncPlatform, pc config.OAuthProviderConfig) (*oauth2.Config, error) {
	endpoint, ok := oauthEndpoints[p]
	if !ok {
		return nil, fmt.Errorf("no oauth endpoint for platform %s", p)
	}

	return &oauth2.Config{
		ClientID:     pc.ClientID,
		ClientSecret: pc.ClientSecret,
		RedirectURL:  pc.RedirectURL,
		Scopes:       oauthScopes[p],
		Endpoint:     endpoint,
	}, nil
}
