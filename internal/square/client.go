// Package square is a thin client for the Square Appointments REST API:
// locations, catalog search, bookings and availability search, plus the
// OAuth flow that connects the merchant account.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smoothbar/studio-backend/internal/tokens"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// ErrNotConnected is returned when no merchant access token is available.
var ErrNotConnected = errors.New("square: no access token, authorize first")

// CredentialSource yields the current merchant credentials.
// *tokens.Store satisfies it.
type CredentialSource interface {
	Get() tokens.Credentials
}

// Client issues authenticated requests to the Square API.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
	creds      CredentialSource
	logger     *logging.Logger
}

// NewClient creates a Square API client.
func NewClient(baseURL, version string, creds CredentialSource, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL: baseURL,
		version: version,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		creds:  creds,
		logger: logger,
	}
}

// ListLocations returns the merchant's locations.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	var out locationsResponse
	if err := c.do(ctx, http.MethodGet, "/v2/locations", nil, &out); err != nil {
		return nil, err
	}
	return out.Locations, nil
}

// SearchCatalog returns all ITEM objects in the merchant's catalog.
func (c *Client) SearchCatalog(ctx context.Context) ([]CatalogObject, error) {
	var out catalogSearchResponse
	req := catalogSearchRequest{ObjectTypes: []string{"ITEM"}}
	if err := c.do(ctx, http.MethodPost, "/v2/catalog/search", req, &out); err != nil {
		return nil, err
	}
	return out.Objects, nil
}

// ListBookings returns up to limit bookings on the merchant's calendar.
// The result is never nil: an absent array in the response is an empty list.
func (c *Client) ListBookings(ctx context.Context, limit int) ([]Booking, error) {
	var out bookingsResponse
	path := fmt.Sprintf("/v2/bookings?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Bookings == nil {
		out.Bookings = []Booking{}
	}
	return out.Bookings, nil
}

// SearchAvailability returns open slots matching the query. The result is
// never nil.
func (c *Client) SearchAvailability(ctx context.Context, q AvailabilityQuery) ([]AvailabilitySlot, error) {
	var req availabilitySearchRequest
	req.Query.Filter.StartAtRange.StartAt = q.StartAt.UTC().Format(time.RFC3339)
	req.Query.Filter.StartAtRange.EndAt = q.EndAt.UTC().Format(time.RFC3339)
	req.Query.Filter.LocationID = q.LocationID
	req.Query.Filter.SegmentFilters = make([]segmentFilter, 0, len(q.ServiceVariationIDs))
	for _, id := range q.ServiceVariationIDs {
		req.Query.Filter.SegmentFilters = append(req.Query.Filter.SegmentFilters, segmentFilter{ServiceVariationID: id})
	}

	var out availabilityResponse
	if err := c.do(ctx, http.MethodPost, "/v2/bookings/availability/search", req, &out); err != nil {
		return nil, err
	}
	if out.Availabilities == nil {
		out.Availabilities = []AvailabilitySlot{}
	}
	return out.Availabilities, nil
}

// FetchAvailability resolves the merchant's first location and catalog
// variation IDs, then searches availability in [start, end). It mirrors the
// composite lookup the booking page needs: no variations means no searchable
// services, which yields an empty result rather than an error.
func (c *Client) FetchAvailability(ctx context.Context, start, end time.Time) ([]AvailabilitySlot, error) {
	locations, err := c.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("square: no location found")
	}
	locationID := locations[0].ID

	objects, err := c.SearchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	var variationIDs []string
	for _, obj := range objects {
		if obj.Type != "ITEM" || obj.ItemData == nil {
			continue
		}
		for _, v := range obj.ItemData.Variations {
			variationIDs = append(variationIDs, v.ID)
		}
	}
	if len(variationIDs) == 0 {
		return []AvailabilitySlot{}, nil
	}

	return c.SearchAvailability(ctx, AvailabilityQuery{
		StartAt:             start,
		EndAt:               end,
		LocationID:          locationID,
		ServiceVariationIDs: variationIDs,
	})
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	creds := c.creds.Get()
	if !creds.Connected() {
		return ErrNotConnected
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("square: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("square: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Square-Version", c.version)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("square: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("square: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return fmt.Errorf("square: %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("square: unmarshal response: %w", err)
	}
	return nil
}
