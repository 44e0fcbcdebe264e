package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for loading and search.
type Metrics struct {
	Loads          *prometheus.CounterVec // labels: layout={positional,header}, outcome={ok,fetch_error,schema_error}
	RecordsLoaded  prometheus.Counter
	RowsSkipped    prometheus.Counter
	LoadDuration   prometheus.Histogram
	FetchCache     *prometheus.CounterVec // labels: result={hit,miss}
	CacheEntries   prometheus.Gauge
	SearchRequests *prometheus.CounterVec // labels: endpoint={search,agency}, outcome={ok,error}
	SearchResults  prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Loads,
		m.RecordsLoaded,
		m.RowsSkipped,
		m.LoadDuration,
		m.FetchCache,
		m.CacheEntries,
		m.SearchRequests,
		m.SearchResults,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entrances",
			Name:      "loads_total",
			Help:      "Resource loads by layout and outcome.",
		}, []string{"layout", "outcome"}),
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "entrances",
			Name:      "records_loaded_total",
			Help:      "Total entrance records produced by loads.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "entrances",
			Name:      "rows_skipped_total",
			Help:      "Total data rows dropped during normalization.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "entrances",
			Name:      "load_duration_seconds",
			Help:      "Duration of a fetch-and-parse load.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		FetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entrances",
			Name:      "fetch_cache_total",
			Help:      "Resource cache lookups by result.",
		}, []string{"result"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "entrances",
			Name:      "fetch_cache_entries",
			Help:      "Resources currently held in the fetch cache.",
		}),
		SearchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entrances",
			Name:      "search_requests_total",
			Help:      "Search API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "entrances",
			Name:      "search_results",
			Help:      "Number of entrances returned per search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		}),
	}
}
