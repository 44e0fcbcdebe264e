package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/entrance-finder/internal/domain"
)

// SearchParams is a free-text station query with an optional bounding box.
// Infinite bounds are treated as unset.
type SearchParams struct {
	Query string
	Box   domain.BoundingBox
}

// RemoteServiceError is a non-success response from the entrances API.
type RemoteServiceError struct {
	Status int
	Body   string
}

func (e *RemoteServiceError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("entrances API error: %d", e.Status)
}

// Client queries the remote entrances search service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a search client against baseURL, e.g. "http://localhost:8000".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// BuildBoxQuery sets lat_min, lat_max, lon_min and lon_max for every finite bound.
func BuildBoxQuery(box domain.BoundingBox) url.Values {
	v := url.Values{}
	setBound(v, "lat_min", box.LatMin)
	setBound(v, "lat_max", box.LatMax)
	setBound(v, "lon_min", box.LonMin)
	setBound(v, "lon_max", box.LonMax)
	return v
}

// BuildSearchQuery adds the trimmed query text to the bounding box parameters.
func BuildSearchQuery(p SearchParams) url.Values {
	v := BuildBoxQuery(p.Box)
	v.Set("query", strings.TrimSpace(p.Query))
	return v
}

func setBound(v url.Values, key string, f float64) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return
	}
	v.Set(key, strconv.FormatFloat(f, 'f', -1, 64))
}

// Search calls GET /api/entrances.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]domain.Entrance, error) {
	u := c.baseURL + "/api/entrances?" + BuildSearchQuery(p).Encode()
	return c.doRequest(ctx, u, "search")
}

// Agency calls GET /api/entrances/{agency}, omitting the query string when the
// box is unbounded.
func (c *Client) Agency(ctx context.Context, agency string, box domain.BoundingBox) ([]domain.Entrance, error) {
	u := c.baseURL + "/api/entrances/" + url.PathEscape(agency)
	if qs := BuildBoxQuery(box).Encode(); qs != "" {
		u += "?" + qs
	}
	return c.doRequest(ctx, u, agency)
}

func (c *Client) doRequest(ctx context.Context, fullURL, endpoint string) ([]domain.Entrance, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s entrances request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Debug("entrances API error", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &RemoteServiceError{Status: resp.StatusCode, Body: string(body)}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Entrances == nil {
		return []domain.Entrance{}, nil
	}
	return out.Entrances, nil
}

// Entrances API response body.
type response struct {
	Entrances []domain.Entrance `json:"entrances"`
}
