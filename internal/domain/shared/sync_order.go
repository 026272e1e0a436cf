package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SyncOrderMessage is the Kafka message carrying one completed platform order
// from the fetcher to the ingestion consumer. Order holds the fields already
// parsed by the platform client; Raw is the untouched provider payload kept for
// archival.
type SyncOrderMessage struct {
	MessageID       uuid.UUID       `json:"message_id"`
	Platform        string          `json:"platform"`
	PlatformOrderID string          `json:"platform_order_id"`
	Order           PlatformOrder   `json:"order"`
	Raw             json.RawMessage `json:"raw"`
	CorrelationID   string          `json:"correlation_id"`
	FetchedAt       time.Time       `json:"fetched_at"`
}

// PlatformOrder is the provider-independent shape of a completed delivery order
type PlatformOrder struct {
	Total           decimal.Decimal `json:"total"`
	DistanceMiles   float64         `json:"distance_miles"`
	DurationMinutes int             `json:"duration_minutes"`
	CompletedAt     time.Time       `json:"completed_at"`
}
