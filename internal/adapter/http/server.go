package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/entrance-finder/internal/domain"
	"github.com/couchcryptid/entrance-finder/internal/observability"
	"github.com/couchcryptid/entrance-finder/internal/search"
)

// EntranceService answers entrance queries.
type EntranceService interface {
	Search(ctx context.Context, query string, box domain.BoundingBox) ([]domain.Entrance, error)
	Agency(ctx context.Context, id string, box domain.BoundingBox) ([]domain.Entrance, error)
}

// Server exposes the entrances API, the raw data files, and health, readiness
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        EntranceService
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server. data is served under /data/entrances/.
func NewServer(addr string, svc EntranceService, ready sharedobs.ReadinessChecker, data fs.FS, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:     svc,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /api/entrances", s.handleSearch)
	mux.HandleFunc("GET /api/entrances/{agency}", s.handleAgency)
	mux.Handle("GET /data/entrances/", http.StripPrefix("/data/entrances/", http.FileServerFS(data)))
	mux.HandleFunc("GET /health", handleStatusOK)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		s.fail(w, "search", http.StatusUnprocessableEntity, "query is required")
		return
	}
	box, err := parseBox(q)
	if err != nil {
		s.fail(w, "search", http.StatusUnprocessableEntity, err.Error())
		return
	}

	results, err := s.svc.Search(r.Context(), query, box)
	if err != nil {
		s.logger.Error("search failed", "query", query, "error", err)
		s.fail(w, "search", http.StatusInternalServerError, err.Error())
		return
	}
	s.succeed(w, "search", results)
}

func (s *Server) handleAgency(w http.ResponseWriter, r *http.Request) {
	agency := r.PathValue("agency")
	box, err := parseBox(r.URL.Query())
	if err != nil {
		s.fail(w, "agency", http.StatusUnprocessableEntity, err.Error())
		return
	}

	results, err := s.svc.Agency(r.Context(), agency, box)
	if errors.Is(err, search.ErrUnknownAgency) {
		s.fail(w, "agency", http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("agency listing failed", "agency", agency, "error", err)
		s.fail(w, "agency", http.StatusInternalServerError, err.Error())
		return
	}
	s.succeed(w, "agency", results)
}

func (s *Server) succeed(w http.ResponseWriter, endpoint string, results []domain.Entrance) {
	s.metrics.SearchRequests.WithLabelValues(endpoint, "ok").Inc()
	s.metrics.SearchResults.Observe(float64(len(results)))
	writeJSON(w, http.StatusOK, entrancesResponse{Entrances: results})
}

func (s *Server) fail(w http.ResponseWriter, endpoint string, status int, msg string) {
	s.metrics.SearchRequests.WithLabelValues(endpoint, "error").Inc()
	writeText(w, status, msg)
}

type entrancesResponse struct {
	Entrances []domain.Entrance `json:"entrances"`
}

var boxParams = [...]string{"lat_min", "lat_max", "lon_min", "lon_max"}

// parseBox reads the optional bounding box parameters; absent bounds stay open.
func parseBox(q map[string][]string) (domain.BoundingBox, error) {
	box := domain.Unbounded()
	dst := [...]*float64{&box.LatMin, &box.LatMax, &box.LonMin, &box.LonMax}
	for i, name := range boxParams {
		vals := q[name]
		if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		if err != nil || math.IsNaN(v) {
			return domain.BoundingBox{}, fmt.Errorf("invalid %s: %q", name, vals[0])
		}
		*dst[i] = v
	}
	return box, nil
}

func handleStatusOK(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

// writeText writes msg verbatim so clients can surface it as the error message.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, msg) //nolint:errcheck // best-effort response
}
