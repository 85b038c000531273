// Package http exposes the catalog and the simulation queue over a JSON API.
//
// Every route described by openapi.yaml is validated against it before the
// handler runs. Simulation routes require an "Authorization: Api-Key <key>"
// header; catalog routes are public but still reject a bad key.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/codenameuriel/exo-intel/internal/logging"
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/observability"
	"github.com/codenameuriel/exo-intel/pkg/ports"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Tasks submits simulations and reports their status. *queue.Queue satisfies it.
type Tasks interface {
	Submit(ctx context.Context, userID int64, kind domain.Kind, params domain.Parameters) (string, error)
	Status(ctx context.Context, taskID string) (domain.TaskStatus, error)
}

// Services are the ports the API is served from.
type Services struct {
	Catalog ports.Catalog
	Users   ports.UserDirectory
	History ports.RunHistory
	Tasks   Tasks
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics counts submissions and mounts GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithHealthCheck makes GET /health/ report 503 while check fails.
func WithHealthCheck(check func(context.Context) error) Option {
	return func(s *Server) { s.health = check }
}

// WithVersion sets the version reported by GET /info.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// Server holds the handler dependencies.
type Server struct {
	catalog ports.Catalog
	users   ports.UserDirectory
	history ports.RunHistory
	tasks   Tasks

	metrics *observability.Metrics
	health  func(context.Context) error
	logger  *slog.Logger
	version string
	router  routers.Router
}

// NewHandler builds the API router.
func NewHandler(svc Services, opts ...Option) (http.Handler, error) {
	router, err := loadRouter()
	if err != nil {
		return nil, err
	}
	s := &Server{
		catalog: svc.Catalog,
		users:   svc.Users,
		history: svc.History,
		tasks:   svc.Tasks,
		logger:  logging.NewNop(),
		version: "dev",
		router:  router,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, s.recoverer, s.requestLog, enableCORS)

	r.Get("/health/", s.handleHealth)
	r.Get("/info", s.handleInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openAPISpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/rest", func(r chi.Router) {
		r.Use(s.authenticate, s.validate)
		r.Get("/planets/", s.handleListPlanets)
		r.Get("/planets/{id}/", s.handleGetPlanet)
		r.Get("/stars/", s.handleListStars)
		r.Get("/stars/{id}/", s.handleGetStar)
		r.Get("/starsystems/", s.handleListStarSystems)
		r.Get("/starsystems/{id}/", s.handleGetStarSystem)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate, requireUser, s.validate)
		for _, route := range simulationRoutes {
			r.Post("/simulations/"+route.path+"/", s.handleSubmit(route.kind))
		}
		r.Get("/simulations/history/", s.handleHistory)
		r.Get("/tasks/status/{task_id}/", s.handleTaskStatus)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, msgNotFound, nil)
	})
	return r, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
	}
	_, _ = w.Write([]byte("ok"))
}

// KindInfo describes one simulation kind in GET /info.
type KindInfo struct {
	Kind  domain.Kind `json:"kind"`
	Label string      `json:"label"`
}

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Simulations []KindInfo `json:"simulations"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := InfoResponse{Name: "exo-intel", Version: s.version}
	for _, k := range domain.Kinds() {
		info.Simulations = append(info.Simulations, KindInfo{Kind: k, Label: k.Label()})
	}
	writeJSON(w, http.StatusOK, info)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>exo-intel API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
