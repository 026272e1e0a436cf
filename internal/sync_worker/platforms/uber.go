package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/domain/integration"
	"github.com/dashledger/internal/domain/shared"
)

const defaultUberBaseURL = "https://api.uber.com"

// UberClient pulls completed delivery trips from the Uber partner API
type UberClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewUberClient creates an Uber platform client. The http client is expected
// to carry the OAuth token source for the stored credential.
func NewUberClient(logger *slog.Logger, httpClient *http.Client) *UberClient {
	return &UberClient{
		httpClient: httpClient,
		baseURL:    defaultUberBaseURL,
		logger:     logger,
	}
}

func (c *UberClient) Platform() integration.SyncPlatform {
	return integration.SyncPlatformUber
}

// uberTrip is the subset of the trip payload the ledger needs
type uberTrip struct {
	TripID          string      `json:"trip_id"`
	FareAmount      json.Number `json:"fare_amount"`
	DistanceMiles   float64     `json:"distance_miles"`
	DurationSeconds int         `json:"duration_seconds"`
	DropoffTime     int64       `json:"dropoff_time"`
}

// FetchCompletedOrders returns trips completed at or after since
func (c *UberClient) FetchCompletedOrders(ctx context.Context, since time.Time) ([]FetchedOrder, error) {
	url := c.baseURL + "/v1.2/partners/trips?completed_after=" + strconv.FormatInt(since.Unix(), 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build uber trips request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch uber trips: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("uber trips request returned status %d", resp.StatusCode)
	}

	var payload struct {
		Trips []json.RawMessage `json:"trips"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode uber trips response: %w", err)
	}

	orders := make([]FetchedOrder, 0, len(payload.Trips))
	for _, raw := range payload.Trips {
		var trip uberTrip
		if err := json.Unmarshal(raw, &trip); err != nil {
			c.logger.Warn("Skipping unparsable uber trip", "error", err)
			continue
		}

		total, err := decimal.NewFromString(trip.FareAmount.String())
		if err != nil {
			c.logger.Warn("Skipping uber trip with unparsable fare", "trip_id", trip.TripID, "error", err)
			continue
		}

		orders = append(orders, FetchedOrder{
			PlatformOrderID: trip.TripID,
			Order: shared.PlatformOrder{
				Total:           total,
				DistanceMiles:   trip.DistanceMiles,
				DurationMinutes: trip.DurationSeconds / 60,
				CompletedAt:     time.Unix(trip.DropoffTime, 0).UTC(),
			},
			Raw: raw,
		})
	}

	c.logger.Info("Fetched uber trips", "count", len(orders), "since", since)
	return orders, nil
}
