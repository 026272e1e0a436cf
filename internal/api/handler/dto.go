package handler

import "time"

// CreateEntryRequest represents a request to create a new ledger entry. The
// amount may arrive with either sign; the stored sign follows the kind.
type CreateEntryRequest struct {
	Timestamp       *time.Time `json:"timestamp"`
	Kind            string     `json:"kind" binding:"required,oneof=ORDER BONUS EXPENSE CANCELLATION"`
	Platform        string     `json:"platform" binding:"required,oneof=DOORDASH UBEREATS INSTACART GRUBHUB SHIPT OTHER"`
	ExternalOrderID string     `json:"external_order_id"`
	Amount          float64    `json:"amount" binding:"required"`
	DistanceMiles   float64    `json:"distance_miles" binding:"min=0"`
	DurationMinutes int        `json:"duration_minutes" binding:"min=0"`
	Category        string     `json:"category"`
	Note            string     `json:"note"`
	ReceiptRef      string     `json:"receipt_reference"`
}

// UpdateEntryRequest represents a partial update; absent fields stay untouched
type UpdateEntryRequest struct {
	Timestamp       *time.Time `json:"timestamp"`
	Kind            *string    `json:"kind" binding:"omitempty,oneof=ORDER BONUS EXPENSE CANCELLATION"`
	Platform        *string    `json:"platform" binding:"omitempty,oneof=DOORDASH UBEREATS INSTACART GRUBHUB SHIPT OTHER"`
	ExternalOrderID *string    `json:"external_order_id"`
	Amount          *float64   `json:"amount"`
	DistanceMiles   *float64   `json:"distance_miles" binding:"omitempty,min=0"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=0"`
	Category        *string    `json:"category"`
	Note            *string    `json:"note"`
	ReceiptRef      *string    `json:"receipt_reference"`
}

// EntryResponse represents an entry in API responses
type EntryResponse struct {
	ID              int64   `json:"id"`
	Timestamp       string  `json:"timestamp"`
	Kind            string  `json:"kind"`
	Platform        string  `json:"platform"`
	ExternalOrderID string  `json:"external_order_id,omitempty"`
	Amount          float64 `json:"amount"`
	DistanceMiles   float64 `json:"distance_miles"`
	DurationMinutes int     `json:"duration_minutes"`
	Category        string  `json:"category,omitempty"`
	Note            string  `json:"note,omitempty"`
	ReceiptRef      string  `json:"receipt_reference,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// EntryListResponse represents a page of entries in API responses
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// ListEntriesParams represents query parameters for the entry list endpoint
type ListEntriesParams struct {
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
	Cursor   *int64 `form:"cursor" binding:"omitempty,min=1"`
	Limit    int    `form:"limit,default=100" binding:"min=1,max=500"`
}

// RollupParams represents query parameters for the rollup endpoint
type RollupParams struct {
	FromDate  string `form:"from_date"`
	ToDate    string `form:"to_date"`
	Timeframe string `form:"timeframe"`
}

// RollupResponse represents the aggregate summary in API responses. Monetary
// values are rounded to two decimal places here, at the presentation boundary.
type RollupResponse struct {
	Revenue            float64            `json:"revenue"`
	Expenses           float64            `json:"expenses"`
	Profit             float64            `json:"profit"`
	Miles              float64            `json:"miles"`
	Hours              float64            `json:"hours"`
	DollarsPerMile     float64            `json:"dollars_per_mile"`
	DollarsPerHour     float64            `json:"dollars_per_hour"`
	OrderCount         int                `json:"order_count"`
	AverageOrderValue  float64            `json:"average_order_value"`
	PerHourFirstToLast float64            `json:"per_hour_first_to_last"`
	ByKind             map[string]float64 `json:"by_kind"`
	ByPlatform         map[string]float64 `json:"by_platform"`
	GoalTarget         *float64           `json:"goal_target,omitempty"`
	GoalProgress       *float64           `json:"goal_progress,omitempty"`
}

// GoalRequest represents a request to create or update a profit goal
type GoalRequest struct {
	Timeframe    string  `json:"timeframe" binding:"required"`
	TargetProfit float64 `json:"target_profit" binding:"required,gt=0"`
}

// UpdateGoalRequest represents a request to change an existing goal's target
type UpdateGoalRequest struct {
	TargetProfit float64 `json:"target_profit" binding:"required,gt=0"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID           int64   `json:"id"`
	Timeframe    string  `json:"timeframe"`
	TargetProfit float64 `json:"target_profit"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// SettingsRequest represents a request to update the settings singleton
type SettingsRequest struct {
	CostPerMile float64 `json:"cost_per_mile" binding:"min=0"`
}

// SettingsResponse represents the settings singleton in API responses
type SettingsResponse struct {
	CostPerMile float64 `json:"cost_per_mile"`
}

// AuthorizeURLResponse carries the provider authorization URL
type AuthorizeURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

// PlatformStatusResponse reports one platform's connection state
type PlatformStatusResponse struct {
	Platform  string `json:"platform"`
	Connected bool   `json:"connected"`
	ExpiresAt string `json:"token_expires_at,omitempty"`
}

// OAuthStatusResponse lists the connection state of every supported platform
type OAuthStatusResponse struct {
	Platforms []PlatformStatusResponse `json:"platforms"`
}
