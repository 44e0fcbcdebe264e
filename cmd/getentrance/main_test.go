package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/entrance-finder/internal/domain"
	"github.com/couchcryptid/entrance-finder/internal/observability"
)

func testOptions() options {
	return options{
		catalogFile: "bounding.txt",
		scoreCutoff: 45,
		limit:       15,
		timeout:     5 * time.Second,
		metrics:     observability.NewMetricsForTesting(),
	}
}

func runCLI(opts options, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(opts, args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600))
	}
	return dir
}

const (
	mbtaCatalog = ",file,latMin,latMax,lonMin,lonMax\n0,mbta.txt,42.2,42.5,-71.3,-70.9\n"
	mbtaData    = "stationName,uniqueId,lat,lon\n" +
		"Back Bay,place-bbsta,42.34735,-71.075727\n" +
		"Back Bay,place-bbsta-2,42.3474,-71.0758\n" +
		"Clinton Square,x1,42.3,-71.0\n"
	ctaPositional = "0,Clark/Lake,UID1,41.885737,-87.630886\n1,Far Away,UID2,40.0,-87.7\n"
)

func remoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/entrances", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Clark/Lake", r.URL.Query().Get("query"))
		assert.Equal(t, "41.7", r.URL.Query().Get("lat_min"))
		body := `{"entrances":[` +
			`{"stationName":"Clark/Lake","source":"CTA","lat":41.885737,"lon":-87.630886},` +
			`{"stationName":"Clark/Lake","source":"CTA","lat":41.8858,"lon":-87.6312}]}`
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body)) //nolint:errcheck // test server
	})
	mux.HandleFunc("GET /api/entrances/{agency}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("unknown agency: " + r.PathValue("agency"))) //nolint:errcheck // test server
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRun_RemoteSearch(t *testing.T) {
	opts := testOptions()
	opts.remote = remoteServer(t).URL

	code, stdout, stderr := runCLI(opts, "Clark/Lake", "41.7", "42.1", "-87.9", "-87.6")

	assert.Equal(t, 0, code)
	assert.Equal(t, "CTA — Clark/Lake\n  (41.885737, -87.630886)\n  (41.8858, -87.6312)\n", stdout)
	assert.NotContains(t, stderr, "warning")
}

func TestRun_RemoteErrorBodyOnStderr(t *testing.T) {
	opts := testOptions()
	opts.remote = remoteServer(t).URL
	opts.agency = "septa"

	code, stdout, stderr := runCLI(opts)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error: unknown agency: septa")
}

func TestRun_LocalSearch(t *testing.T) {
	opts := testOptions()
	opts.dataDir = writeDataDir(t, map[string]string{"bounding.txt": mbtaCatalog, "mbta.txt": mbtaData})

	code, stdout, stderr := runCLI(opts, "Back Bay")

	assert.Equal(t, 0, code)
	assert.Equal(t, "MBTA — Back Bay\n  (42.34735, -71.075727)\n  (42.3474, -71.0758)\n", stdout)
	assert.Contains(t, stderr, "warning: no bounding box given")
}

func TestRun_LocalSearchUsesCatalogOption(t *testing.T) {
	opts := testOptions()
	opts.catalogFile = "catalog.txt"
	opts.dataDir = writeDataDir(t, map[string]string{"catalog.txt": mbtaCatalog, "mbta.txt": mbtaData})

	code, stdout, _ := runCLI(opts, "Clinton Square")

	assert.Equal(t, 0, code)
	assert.Equal(t, "MBTA — Clinton Square\n  (42.3, -71)\n", stdout)
}

func TestRun_LocalNoResults(t *testing.T) {
	opts := testOptions()
	opts.scoreCutoff = 100
	opts.dataDir = writeDataDir(t, map[string]string{"bounding.txt": mbtaCatalog, "mbta.txt": mbtaData})

	code, stdout, _ := runCLI(opts, "Back")

	assert.Equal(t, 0, code)
	assert.Equal(t, "No results found.\n", stdout)
}

func TestRun_LocalAgencyListing(t *testing.T) {
	opts := testOptions()
	opts.agency = "cta"
	opts.dataDir = writeDataDir(t, map[string]string{"cta.txt": ctaPositional})

	code, stdout, _ := runCLI(opts)

	assert.Equal(t, 0, code)
	assert.Equal(t, "CTA — Clark/Lake\n  (41.885737, -87.630886)\n", stdout, "default CTA bounds drop the far record")
}

func TestRun_LocalMissingCatalog(t *testing.T) {
	opts := testOptions()
	opts.dataDir = t.TempDir()

	code, _, stderr := runCLI(opts, "Back Bay")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to load bounding.txt: status 404")
}

func TestRun_InvalidLimit(t *testing.T) {
	opts := testOptions()
	opts.limit = 0
	opts.dataDir = t.TempDir()

	code, _, stderr := runCLI(opts, "Back Bay")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid limit")
}

func TestRun_UsageError(t *testing.T) {
	code, stdout, stderr := runCLI(testOptions(), "Clinton", "41.7")

	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "bounding box needs")
}

func TestParseArgs_QueryOnly(t *testing.T) {
	query, box, err := parseArgs([]string{"Clark/Lake"})
	require.NoError(t, err)
	assert.Equal(t, "Clark/Lake", query)
	assert.True(t, box.IsUnbounded())
}

func TestParseArgs_WithBox(t *testing.T) {
	_, box, err := parseArgs([]string{"Clinton", "41.7", "42.1", "-87.9", "-87.6"})
	require.NoError(t, err)
	assert.Equal(t, domain.BoundingBox{LatMin: 41.7, LatMax: 42.1, LonMin: -87.9, LonMax: -87.6}, box)
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"partial box", []string{"Clinton", "41.7", "42.1"}},
		{"bad coordinate", []string{"Clinton", "41.7", "north", "-87.9", "-87.6"}},
		{"nan coordinate", []string{"Clinton", "NaN", "42.1", "-87.9", "-87.6"}},
		{"blank query", []string{"  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseArgs(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, []domain.Entrance{
		{StationName: "Clark/Lake", Source: "CTA", Lat: 41.885737, Lon: -87.630886},
	})
	assert.Equal(t, "CTA — Clark/Lake\n  (41.885737, -87.630886)\n", buf.String())
}

func TestPrintResults_GroupsByStationAndSource(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, []domain.Entrance{
		{StationName: "Clinton", Source: "CTA", Lat: 41.875478, Lon: -87.631008},
		{StationName: "Clinton", Source: "CTA", Lat: 41.885678, Lon: -87.641782},
		{StationName: "Clinton", Source: "METRA", Lat: 41.8781, Lon: -87.6403},
	})
	want := "CTA — Clinton\n" +
		"  (41.875478, -87.631008)\n" +
		"  (41.885678, -87.641782)\n" +
		"METRA — Clinton\n" +
		"  (41.8781, -87.6403)\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, nil)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestParseBox(t *testing.T) {
	box, err := parseBox(nil)
	require.NoError(t, err)
	assert.True(t, box.IsUnbounded())

	box, err = parseBox([]string{"38.8", "39.0", "-77.1", "-76.9"})
	require.NoError(t, err)
	assert.Equal(t, domain.BoundingBox{LatMin: 38.8, LatMax: 39.0, LonMin: -77.1, LonMax: -76.9}, box)

	_, err = parseBox([]string{"38.8"})
	assert.Error(t, err)
}
