package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/domain/shared"
)

const defaultShiptBaseURL = "https://api.shipt.com"

// ShiptClient pulls completed delivery orders from the Shipt shopper API
type ShiptClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewShiptClient creates a Shipt platform client. The http client is expected
// to carry the OAuth token source for the stored credential.
func NewShiptClient(logger *slog.Logger, httpClient *http.Client) *ShiptClient {
	return &ShiptClient{
		httpClient: httpClient,
		baseURL:    defaultShiptBaseURL,
		logger:     logger,
	}
}

func (c *ShiptClient) Platform() integration.SyncPlatform {
	return integration.SyncPlatformShipt
}

// shiptOrder is the subset of the order payload the ledger needs
type shiptOrder struct {
	OrderID         string      `json:"order_id"`
	Payout          json.Number `json:"payout"`
	Miles           float64     `json:"miles"`
	DeliveryMinutes int         `json:"delivery_minutes"`
	DeliveredAt     time.Time   `json:"delivered_at"`
}

// FetchCompletedOrders returns orders delivered at or after since
func (c *ShiptClient) FetchCompletedOrders(ctx context.Context, since time.Time) ([]FetchedOrder, error) {
	url := c.baseURL + "/v1/shopper/orders?delivered_after=" + since.UTC().Format(time.RFC3339)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build shipt orders request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shipt orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shipt orders request returned status %d", resp.StatusCode)
	}

	var payload struct {
		Orders []json.RawMessage `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode shipt orders response: %w", err)
	}

	orders := make([]FetchedOrder, 0, len(payload.Orders))
	for _, raw := range payload.Orders {
		var ord shiptOrder
		if err := json.Unmarshal(raw, &ord); err != nil {
			c.logger.Warn("Skipping unparsable shipt order", "error", err)
			continue
		}

		payout, err := decimal.NewFromString(ord.Payout.String())
		if err != nil {
			c.logger.Warn("Skipping shipt order with unparsable payout", "order_id", ord.OrderID, "error", err)
			continue
		}

		orders = append(orders, FetchedOrder{
			PlatformOrderID: ord.OrderID,
			Order: shared.PlatformOrder{
				Total:           payout,
				DistanceMiles:   ord.Miles,
				DurationMinutes: ord.DeliveryMinutes,
				CompletedAt:     ord.DeliveredAt.UTC(),
			},
			Raw: raw,
		})
	}

	c.logger.Info("Fetched shipt orders", "count", len(orders), "since", since)
	return orders, nil
}
