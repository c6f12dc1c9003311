package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xtding233/ttk-backend/internal/config"
	"github.com/xtding233/ttk-backend/internal/game"
	"github.com/xtding233/ttk-backend/internal/telemetry"
)

// Server answers statistics queries over the current catalog.
type Server struct {
	log     zerolog.Logger
	sim     config.SimConfig
	metrics *telemetry.Metrics
	health  *health.Server

	catalog atomic.Pointer[game.Catalog]
}

func New(log zerolog.Logger, sim config.SimConfig, metrics *telemetry.Metrics) *Server {
	return &Server{log: log, sim: sim, metrics: metrics}
}

// SetHealth attaches the gRPC health service whose overall status follows catalog reloads.
func (s *Server) SetHealth(h *health.Server) {
	s.health = h
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if s.catalog.Load() != nil {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.SetServingStatus("", status)
}

func (s *Server) SetCatalog(c *game.Catalog) { s.catalog.Store(c) }
func (s *Server) Catalog() *game.Catalog     { return s.catalog.Load() }

// Reload re-reads the catalog. On failure the previous catalog keeps serving
// queries while the health status reports NOT_SERVING.
func (s *Server) Reload(ctx context.Context, l *game.Loader) error {
	cat, err := l.Reload()
	s.metrics.Reload(ctx, err)
	if err != nil {
		s.log.Error().Err(err).Str("dir", l.Dir()).Msg("catalog reload failed")
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}
	s.SetCatalog(cat)
	s.log.Info().
		Str("version", cat.Version).
		Int("weapons", len(cat.Weapons)).
		Int("ammo", len(cat.Ammo)).
		Strs("files", l.Files()).
		Msg("catalog loaded")
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

func (s *Server) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	if s.health != nil {
		s.health.SetServingStatus("", st)
	}
}

// Handler returns the HTTP routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /loadouts", s.handleLoadouts)
	mux.HandleFunc("GET /shot", s.handleShot)
	mux.HandleFunc("GET /burst", s.handleBurst)
	mux.HandleFunc("GET /mag", s.handleMag)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /curve", s.handleCurve)
	mux.HandleFunc("GET /sample", s.handleSample)

	var h http.Handler = mux
	h = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(h)
	h = requestID(h)
	h = hlog.NewHandler(s.log)(h)
	return h
}

// requestID tags the request logger and response with X-Request-Id, generating one when absent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		log := hlog.FromRequest(r).With().Str("req_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
	})
}
