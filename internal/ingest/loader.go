package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/entrance-finder/internal/domain"
	"github.com/couchcryptid/entrance-finder/internal/observability"
)

// Fetcher returns the raw text of a resource identified by a relative path.
type Fetcher interface {
	Fetch(ctx context.Context, resource string) (string, error)
}

// FetchError reports a failed resource fetch: a non-success status or a
// transport failure (Status 0).
type FetchError struct {
	Resource string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("failed to load %s: status %d", e.Resource, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
	default:
		return fmt.Sprintf("failed to load %s", e.Resource)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Request identifies one load: which resource, how its rows are laid out, and
// the source label stamped on every record.
type Request struct {
	Resource string
	Layout   domain.Layout
	Source   string
}

// Loader fetches a resource and parses it into entrance records. It keeps no
// state between calls; every Load builds a fresh slice.
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Loader over the given fetcher.
func New(fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// LoadPositional loads an "index, stationName, uniqueId, lat, lon" resource.
func (l *Loader) LoadPositional(ctx context.Context, resource, source string) ([]domain.Entrance, error) {
	return l.Load(ctx, Request{Resource: resource, Layout: domain.LayoutPositional, Source: source})
}

// LoadHeader loads a resource whose first line names its columns.
func (l *Loader) LoadHeader(ctx context.Context, resource, source string) ([]domain.Entrance, error) {
	return l.Load(ctx, Request{Resource: resource, Layout: domain.LayoutHeader, Source: source})
}

// Load fetches req.Resource and returns its valid rows in source order. Invalid
// rows are dropped silently. Errors are *FetchError or *domain.SchemaError; no
// partial results are returned with an error.
func (l *Loader) Load(ctx context.Context, req Request) ([]domain.Entrance, error) {
	start := time.Now()
	defer func() { l.metrics.LoadDuration.Observe(time.Since(start).Seconds()) }()
	layout := req.Layout.String()

	text, err := l.fetcher.Fetch(ctx, req.Resource)
	if err != nil {
		l.metrics.Loads.WithLabelValues(layout, "fetch_error").Inc()
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, &FetchError{Resource: req.Resource, Err: err}
	}

	res, err := domain.ParseText(req.Resource, text, req.Layout, req.Source)
	if err != nil {
		l.metrics.Loads.WithLabelValues(layout, "schema_error").Inc()
		return nil, err
	}

	l.metrics.Loads.WithLabelValues(layout, "ok").Inc()
	l.metrics.RecordsLoaded.Add(float64(len(res.Entrances)))
	l.metrics.RowsSkipped.Add(float64(res.Skipped))

	l.logger.Debug("resource loaded",
		"resource", req.Resource,
		"layout", layout,
		"source", req.Source,
		"records", len(res.Entrances),
		"skipped", res.Skipped,
	)
	return res.Entrances, nil
}
