package static

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/couchcryptid/entrance-finder/internal/ingest"
)

// DirFetcher implements ingest.Fetcher over a local data directory.
type DirFetcher struct {
	root string
}

// NewDirFetcher creates a fetcher reading files below root.
func NewDirFetcher(root string) *DirFetcher {
	return &DirFetcher{root: root}
}

// Root returns the data directory.
func (d *DirFetcher) Root() string { return d.root }

// Fetch reads <root>/<resource>. Paths escaping root are rejected; a missing
// file reports status 404 so callers treat it like its HTTP counterpart.
func (d *DirFetcher) Fetch(ctx context.Context, resource string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ingest.FetchError{Resource: resource, Err: err}
	}
	if !filepath.IsLocal(resource) {
		return "", &ingest.FetchError{Resource: resource, Status: http.StatusBadRequest, Err: fmt.Errorf("path %q escapes data directory", resource)}
	}

	data, err := os.ReadFile(filepath.Join(d.root, resource))
	if errors.Is(err, fs.ErrNotExist) {
		return "", &ingest.FetchError{Resource: resource, Status: http.StatusNotFound, Err: err}
	}
	if err != nil {
		return "", &ingest.FetchError{Resource: resource, Err: err}
	}
	return string(data), nil
}
