// Command checkdata performs integrity checks over a directory of entrance
// data: the bounding catalog, every catalogued source file, and every
// configured agency file. It reports per-phase pass/fail and exits non-zero
// when any phase fails.
//
// Usage:
//
//	go run ./cmd/checkdata --data-dir data/entrances [--agencies agencies.yaml]
//	go run ./cmd/checkdata --data-url http://localhost:8000/data/entrances
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/couchcryptid/entrance-finder/internal/adapter/static"
	"github.com/couchcryptid/entrance-finder/internal/config"
	"github.com/couchcryptid/entrance-finder/internal/domain"
	"github.com/couchcryptid/entrance-finder/internal/ingest"
	"github.com/couchcryptid/entrance-finder/internal/search"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// tally counts records across files.
type tally struct {
	files      int
	records    int
	skipped    int
	duplicates int
}

func (t *tally) add(res domain.ParseResult) {
	t.files++
	t.records += len(res.Entrances)
	t.skipped += res.Skipped
	t.duplicates += len(res.Entrances) - len(domain.Dedupe(res.Entrances))
}

func main() {
	dataDir := pflag.StringP("data-dir", "d", "data/entrances", "directory containing entrance files")
	dataURL := pflag.StringP("data-url", "u", "", "check files served at this base URL instead of --data-dir")
	timeout := pflag.Duration("timeout", 5*time.Second, "per-file fetch timeout for --data-url")
	catalog := pflag.StringP("catalog", "c", "bounding.txt", "catalog file name inside the data directory")
	agenciesFile := pflag.StringP("agencies", "a", "", "agency YAML file (defaults to the built-in list)")
	pflag.Parse()

	agencies, err := config.LoadAgencies(*agenciesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load agencies: %v\n", err)
		os.Exit(1)
	}

	var fetcher ingest.Fetcher = static.NewDirFetcher(*dataDir)
	if *dataURL != "" {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		fetcher = static.NewHTTPFetcher(*dataURL, *timeout, logger)
	}

	if code := run(context.Background(), os.Stdout, fetcher, *catalog, agencies); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, out io.Writer, fetcher ingest.Fetcher, catalogFile string, agencies *config.Agencies) int {
	fmt.Fprintln(out, "=== Entrance Data Integrity Check ===")
	fmt.Fprintln(out)

	var sources []search.Source
	catalogPhase := checkCatalog(ctx, fetcher, catalogFile, &sources)

	var srcTally, agTally tally
	phases := []*phase{
		catalogPhase,
		checkSources(ctx, fetcher, sources, &srcTally),
		checkAgencies(ctx, fetcher, agencies, &agTally),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Catalog: %d sources, %d records, %d skipped rows, %d duplicates\n",
		srcTally.files, srcTally.records, srcTally.skipped, srcTally.duplicates)
	fmt.Fprintf(out, "Agencies: %d files, %d records, %d skipped rows, %d duplicates\n",
		agTally.files, agTally.records, agTally.skipped, agTally.duplicates)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll checks passed.")
		return 0
	}
	fmt.Fprintln(out, "\nCheck FAILED.")
	return 1
}

// ── Phase 1: Catalog ──

func checkCatalog(ctx context.Context, fetcher ingest.Fetcher, catalogFile string, sources *[]search.Source) *phase {
	p := &phase{name: "Phase 1: Catalog (" + catalogFile + ")"}

	text, err := fetcher.Fetch(ctx, catalogFile)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	parsed, err := search.ParseCatalog(catalogFile, text)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if len(parsed) == 0 {
		p.errorf("%s lists no entrance files", catalogFile)
	}
	for _, src := range parsed {
		if src.Bounds.LatMin > src.Bounds.LatMax || src.Bounds.LonMin > src.Bounds.LonMax {
			p.errorf("%s: inverted bounds %+v", src.File, src.Bounds)
		}
	}
	*sources = parsed
	return p
}

// ── Phase 2: Catalog sources ──

func checkSources(ctx context.Context, fetcher ingest.Fetcher, sources []search.Source, t *tally) *phase {
	p := &phase{name: "Phase 2: Catalog sources (header layout)"}
	for _, src := range sources {
		res, ok := checkFile(ctx, p, fetcher, src.File, domain.LayoutHeader, src.Label())
		if !ok {
			continue
		}
		t.add(res)
		if outside := len(res.Entrances) - len(src.Bounds.Filter(res.Entrances)); outside > 0 {
			p.errorf("%s: %d records outside catalog bounds", src.File, outside)
		}
	}
	return p
}

// ── Phase 3: Agencies ──

func checkAgencies(ctx context.Context, fetcher ingest.Fetcher, agencies *config.Agencies, t *tally) *phase {
	p := &phase{name: "Phase 3: Agency files"}
	for _, ag := range agencies.All() {
		res, ok := checkFile(ctx, p, fetcher, ag.File, ag.DataLayout(), ag.Label)
		if !ok {
			continue
		}
		t.add(res)
	}
	return p
}

func checkFile(ctx context.Context, p *phase, fetcher ingest.Fetcher, file string, layout domain.Layout, source string) (domain.ParseResult, bool) {
	text, err := fetcher.Fetch(ctx, file)
	if err != nil {
		p.errorf("%v", err)
		return domain.ParseResult{}, false
	}
	res, err := domain.ParseText(file, text, layout, source)
	if err != nil {
		p.errorf("%v", err)
		return domain.ParseResult{}, false
	}
	if len(res.Entrances) == 0 {
		p.errorf("%s: no usable records (%d rows skipped)", file, res.Skipped)
	}
	return res, true
}
