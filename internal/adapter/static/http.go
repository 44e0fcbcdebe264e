package static

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/entrance-finder/internal/ingest"
)

// HTTPFetcher implements ingest.Fetcher by issuing GET <baseURL>/<resource>.
type HTTPFetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPFetcher creates a fetcher rooted at baseURL, e.g.
// "http://localhost:8000/data/entrances".
func NewHTTPFetcher(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch returns the response body. Any non-2xx status is a *ingest.FetchError
// carrying that status.
func (f *HTTPFetcher) Fetch(ctx context.Context, resource string) (string, error) {
	u, err := url.JoinPath(f.baseURL, resource)
	if err != nil {
		return "", &ingest.FetchError{Resource: resource, Err: fmt.Errorf("build url: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &ingest.FetchError{Resource: resource, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &ingest.FetchError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Debug("resource fetch rejected", "resource", resource, "status", resp.StatusCode)
		return "", &ingest.FetchError{Resource: resource, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ingest.FetchError{Resource: resource, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}
