package integration

import (
	"context"
	"time"
)

// SyncedOrder records one platform order that has already been imported as a
// ledger entry, keyed by (platform, platform order id) for de-duplication.
type SyncedOrder struct {
	ID              int64        `json:"id"`
	Platform        SyncPlatform `json:"platform"`
	PlatformOrderID string       `json:"platform_order_id"`
	EntryID         int64        `json:"entry_id"`
	SyncedAt        time.Time    `json:"synced_at"`
	CreatedAt       time.Time    `json:"created_at"`
}

// SyncedOrderRepository tracks imported orders
type SyncedOrderRepository interface {
	// Create records an imported order; returns ErrDuplicateSyncedOrder when
	// the (platform, platform_order_id) pair already exists
	Create(ctx context.Context, so *SyncedOrder) error
	Exists(ctx context.Context, p SyncPlatform, platformOrderID string) (bool, error)
}

// ErrDuplicateSyncedOrder indicates the order was already imported
type ErrDuplicateSyncedOrder struct {
	Platform        SyncPlatform
	PlatformOrderID string
}

func (e ErrDuplicateSyncedOrder) Error() string {
	return "order already synced: " + string(e.Platform) + "/" + e.PlatformOrderID
}

// Is implements the errors.Is interface for ErrDuplicateSyncedOrder
func (e ErrDuplicateSyncedOrder) Is(target error) bool {
	t, ok := target.(ErrDuplicateSyncedOrder)
	if !ok {
		return false
	}
	if t.Platform == "" && t.PlatformOrderID == "" {
		return true
	}
	return e.Platform == t.Platform && e.PlatformOrderID == t.PlatformOrderID
}
