package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/couchcryptid/entrance-finder/internal/config"
	"github.com/couchcryptid/entrance-finder/internal/domain"
	"github.com/couchcryptid/entrance-finder/internal/ingest"
)

// ErrUnknownAgency is returned by Agency for an id missing from the catalog.
var ErrUnknownAgency = errors.New("unknown agency")

// Options tune catalog location and name matching.
type Options struct {
	CatalogFile string
	ScoreCutoff float64
	Limit       int
}

// Service implements entrance search and per-agency listing.
type Service struct {
	fetcher  ingest.Fetcher
	loader   *ingest.Loader
	agencies *config.Agencies
	opts     Options
	logger   *slog.Logger
	ready    atomic.Bool
}

// NewService creates a Service. fetcher reads the catalog; loader reads entrance files.
func NewService(fetcher ingest.Fetcher, loader *ingest.Loader, agencies *config.Agencies, opts Options, logger *slog.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		loader:   loader,
		agencies: agencies,
		opts:     opts,
		logger:   logger,
	}
}

// CheckReadiness returns nil once the catalog has loaded successfully.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	if _, err := s.Catalog(ctx); err != nil {
		return fmt.Errorf("catalog not loaded: %w", err)
	}
	return nil
}

// Catalog loads and parses the catalog resource.
func (s *Service) Catalog(ctx context.Context) ([]Source, error) {
	text, err := s.fetcher.Fetch(ctx, s.opts.CatalogFile)
	if err != nil {
		return nil, err
	}
	sources, err := ParseCatalog(s.opts.CatalogFile, text)
	if err != nil {
		return nil, err
	}
	s.ready.Store(true)
	return sources, nil
}

// Search returns the entrances whose station names best match query inside box.
// A blank query yields no results. Sources that fail to load are skipped.
func (s *Service) Search(ctx context.Context, query string, box domain.BoundingBox) ([]domain.Entrance, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Entrance{}, nil
	}

	sources, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	results := []domain.Entrance{}
	for _, src := range selectSources(sources, box) {
		records, err := s.loader.LoadHeader(ctx, src.File, src.Label())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("skipping source", "resource", src.File, "error", err)
			continue
		}
		results = append(results, s.matchSource(query, box.Filter(records))...)
	}
	return results, nil
}

func (s *Service) matchSource(query string, records []domain.Entrance) []domain.Entrance {
	if len(records) == 0 {
		return nil
	}

	byName := make(map[string][]domain.Entrance)
	var names []string
	for _, r := range records {
		if _, ok := byName[r.StationName]; !ok {
			names = append(names, r.StationName)
		}
		byName[r.StationName] = append(byName[r.StationName], r)
	}

	var out []domain.Entrance
	for _, m := range bestMatches(query, names, s.opts.ScoreCutoff, s.opts.Limit) {
		out = append(out, byName[m.name]...)
	}
	return out
}

// Agency returns every entrance of one agency inside box. Open bounds of box
// fall back to the agency's configured bounding box.
func (s *Service) Agency(ctx context.Context, id string, box domain.BoundingBox) ([]domain.Entrance, error) {
	ag, ok := s.agencies.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgency, id)
	}

	records, err := s.loader.Load(ctx, ingest.Request{
		Resource: ag.File,
		Layout:   ag.DataLayout(),
		Source:   ag.Label,
	})
	if err != nil {
		return nil, err
	}
	return box.WithDefaults(ag.Bounds()).Filter(records), nil
}
