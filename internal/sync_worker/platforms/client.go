package platforms

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/domain/shared"
)

// FetchedOrder is one completed order pulled from a provider API. Raw holds
// the untouched provider payload for archival.
type FetchedOrder struct {
	PlatformOrderID string
	Order           shared.PlatformOrder
	Raw             json.RawMessage
}

// Client pulls completed orders from one delivery platform
type Client interface {
	Platform() integration.SyncPlatform
	// FetchCompletedOrders returns every order completed at or after since
	FetchCompletedOrders(ctx context.Context, since time.Time) ([]FetchedOrder, error)
}
