// Command getentrance looks up station entrances by name.
//
// Usage:
//
//	getentrance [--remote URL | --data-dir DIR] QUERY [LAT_MIN LAT_MAX LON_MIN LON_MAX]
//	getentrance [--remote URL | --data-dir DIR] --agency ID [LAT_MIN LAT_MAX LON_MIN LON_MAX]
//
// With --data-dir the lookup runs against local entrance files; otherwise it
// calls the entrances API at --remote (or ENTRANCES_API_URL). --agency lists
// every entrance of one agency instead of searching by name.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/couchcryptid/entrance-finder/internal/adapter/remote"
	"github.com/couchcryptid/entrance-finder/internal/adapter/static"
	"github.com/couchcryptid/entrance-finder/internal/config"
	"github.com/couchcryptid/entrance-finder/internal/domain"
	"github.com/couchcryptid/entrance-finder/internal/ingest"
	"github.com/couchcryptid/entrance-finder/internal/observability"
	"github.com/couchcryptid/entrance-finder/internal/search"
)

// options are the resolved flag, environment and default settings.
type options struct {
	remote      string
	dataDir     string
	agency      string
	catalogFile string
	scoreCutoff float64
	limit       int
	timeout     time.Duration
	verbose     bool
	metrics     *observability.Metrics
}

func main() {
	pflag.StringP("remote", "r", "http://localhost:8000", "entrances API base URL")
	pflag.StringP("data-dir", "d", "", "search local entrance files instead of the API")
	pflag.StringP("agency", "a", "", "list all entrances of this agency id")
	pflag.String("catalog", "bounding.txt", "catalog file name inside --data-dir")
	pflag.Float64("score-cutoff", 45, "minimum name match score (0-100) for --data-dir")
	pflag.Int("limit", 15, "maximum matched names per source for --data-dir")
	pflag.DurationP("timeout", "t", 5*time.Second, "request timeout")
	pflag.BoolP("verbose", "v", false, "enable debug logging")
	pflag.Parse()
	//nolint:errcheck // flags and keys are registered above
	viper.BindPFlags(pflag.CommandLine)
	viper.BindEnv("remote", "ENTRANCES_API_URL")
	viper.BindEnv("catalog", "CATALOG_FILE")
	viper.BindEnv("score-cutoff", "SEARCH_SCORE_CUTOFF")
	viper.BindEnv("limit", "SEARCH_LIMIT")

	opts := options{
		remote:      viper.GetString("remote"),
		dataDir:     viper.GetString("data-dir"),
		agency:      viper.GetString("agency"),
		catalogFile: viper.GetString("catalog"),
		scoreCutoff: viper.GetFloat64("score-cutoff"),
		limit:       viper.GetInt("limit"),
		timeout:     viper.GetDuration("timeout"),
		verbose:     viper.GetBool("verbose"),
		metrics:     observability.NewMetrics(),
	}

	code := run(opts, pflag.Args(), os.Stdout, os.Stderr)
	if code == 2 {
		pflag.Usage()
	}
	os.Exit(code)
}

func run(opts options, args []string, stdout, stderr io.Writer) int {
	var (
		query string
		box   domain.BoundingBox
		err   error
	)
	if opts.agency != "" {
		box, err = parseBox(args)
	} else {
		query, box, err = parseArgs(args)
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	if opts.agency == "" && box.IsUnbounded() {
		fmt.Fprintln(stderr, "warning: no bounding box given, searching every source")
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := observability.NewLoggerTo(stderr, level, "text")

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	var results []domain.Entrance
	if opts.dataDir != "" {
		var svc *search.Service
		if svc, err = localService(opts, logger); err == nil {
			if opts.agency != "" {
				results, err = svc.Agency(ctx, opts.agency, box)
			} else {
				results, err = svc.Search(ctx, query, box)
			}
		}
	} else {
		client := remote.NewClient(opts.remote, opts.timeout, logger)
		if opts.agency != "" {
			results, err = client.Agency(ctx, opts.agency, box)
		} else {
			results, err = client.Search(ctx, remote.SearchParams{Query: query, Box: box})
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	printResults(stdout, results)
	return 0
}

// parseArgs reads QUERY and the optional four bounding box values.
func parseArgs(args []string) (string, domain.BoundingBox, error) {
	if len(args) == 0 {
		return "", domain.Unbounded(), errors.New("expected QUERY and optionally LAT_MIN LAT_MAX LON_MIN LON_MAX")
	}
	if strings.TrimSpace(args[0]) == "" {
		return "", domain.Unbounded(), errors.New("query must not be empty")
	}
	box, err := parseBox(args[1:])
	return args[0], box, err
}

// parseBox reads either no values or all four bounding box values.
func parseBox(args []string) (domain.BoundingBox, error) {
	box := domain.Unbounded()
	switch len(args) {
	case 0:
		return box, nil
	case 4:
	default:
		return box, errors.New("bounding box needs LAT_MIN LAT_MAX LON_MIN LON_MAX")
	}
	dst := [...]*float64{&box.LatMin, &box.LatMax, &box.LonMin, &box.LonMax}
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) {
			return box, fmt.Errorf("invalid coordinate %q", s)
		}
		*dst[i] = v
	}
	return box, nil
}

func localService(opts options, logger *slog.Logger) (*search.Service, error) {
	if opts.scoreCutoff < 0 || opts.scoreCutoff > 100 {
		return nil, errors.New("invalid score cutoff: must be between 0 and 100")
	}
	if opts.limit <= 0 {
		return nil, errors.New("invalid limit: must be a positive integer")
	}
	agencies, err := config.NewAgencies(config.DefaultAgencies())
	if err != nil {
		return nil, err
	}
	fetcher := static.NewDirFetcher(opts.dataDir)
	loader := ingest.New(fetcher, logger, opts.metrics)
	return search.NewService(fetcher, loader, agencies, search.Options{
		CatalogFile: opts.catalogFile,
		ScoreCutoff: opts.scoreCutoff,
		Limit:       opts.limit,
	}, logger), nil
}

func printResults(w io.Writer, results []domain.Entrance) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	type group struct{ name, source string }
	seen := make(map[group]bool)
	for _, e := range results {
		if g := (group{e.StationName, e.Source}); !seen[g] {
			seen[g] = true
			fmt.Fprintf(w, "%s — %s\n", e.Source, e.StationName)
		}
		fmt.Fprintf(w, "  (%g, %g)\n", e.Lat, e.Lon)
	}
}
