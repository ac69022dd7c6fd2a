// Package httpapi exposes the user and item API over HTTP.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/dmitrijs2005/apiapp/internal/dbx"
	"github.com/dmitrijs2005/apiapp/internal/logging"
	"github.com/dmitrijs2005/apiapp/internal/server/models"
	"github.com/dmitrijs2005/apiapp/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the API routes. Every API route runs in its own transaction.
type Server struct {
	db       *sql.DB
	provider *services.Provider
	logger   logging.Logger
	registry *prometheus.Registry
	metrics  *Metrics

	// extra handlers mounted under their prefix, e.g. "/occupancy"
	mounts map[string]http.Handler
}

type Option func(*Server)

// WithMount mounts h under pattern next to the API routes.
func WithMount(pattern string, h http.Handler) Option {
	return func(s *Server) { s.mounts[pattern] = h }
}

// WithRegistry uses registry for metrics instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) { s.registry = registry }
}

func NewServer(db *sql.DB, provider *services.Provider, logger logging.Logger, opts ...Option) *Server {
	s := &Server{
		db:       db,
		provider: provider,
		logger:   logger.With("module", "httpapi"),
		mounts:   map[string]http.Handler{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(s.registry)
	return s
}

// apiRequest is what an API handler sees: the raw request, the session
// bound to the request transaction and the authenticated caller, if any.
type apiRequest struct {
	w       http.ResponseWriter
	r       *http.Request
	session *services.Session
	caller  *models.User
}

type apiHandler func(ctx context.Context, req *apiRequest) (int, any, error)

// api wraps h with the request transaction and the access check for level.
// The response is written after the transaction has been committed or
// rolled back.
func (s *Server) api(level services.Access, h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			status int
			body   any
		)

		err := dbx.WithTx(r.Context(), s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			session := s.provider.Session(tx)

			caller, err := session.Authorize(ctx, bearerToken(r), level)
			if err != nil {
				return err
			}

			status, body, err = h(ctx, &apiRequest{w: w, r: r, session: session, caller: caller})
			return err
		})

		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := writeJSON(w, status, body); err != nil {
			s.logger.Warn(r.Context(), "write response", "error", err)
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err)
	}
	writeErrorMessage(w, status, detail)
}

// Router builds the chi router with middleware, API routes and the
// operational endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(accessLog(s.logger))
	r.Use(s.metrics.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/", s.hello)
	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/login/access-token", s.api(services.AccessPublic, s.login))

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.api(services.AccessPublic, s.listUsers))
		r.Post("/", s.api(services.AccessSuperuser, s.createUser))
		r.Get("/me", s.api(services.AccessAuthenticated, s.me))
		r.Get("/{id}", s.api(services.AccessPublic, s.getUser))
		r.Post("/{id}/items/", s.api(services.AccessSuperuser, s.createItemForUser))
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.api(services.AccessPublic, s.listItems))
		r.Post("/", s.api(services.AccessAuthenticated, s.createItem))
	})

	for pattern, h := range s.mounts {
		r.Mount(pattern, h)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
