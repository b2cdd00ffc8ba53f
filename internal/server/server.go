// Package server exposes a Store over a small REST surface: JSON in and
// out, optional bearer-token auth, CORS enabled for every origin.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/canac/mailbox/internal/store"
)

// Server wraps a chi router around a *store.Store.
type Server struct {
	store  *store.Store
	token  string
	logger *slog.Logger
	router chi.Router
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on every request when
// token is non-empty. An empty token (the default) disables auth.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New builds a Server backed by st.
func New(st *store.Store, opts ...Option) *Server {
	s := &Server{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDHeader)
	r.Use(corsHeaders)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.authGate)

	r.Get("/mailboxes", s.handleListMailboxes)
	r.Get("/messages", s.handleListMessages)
	r.Post("/messages", s.handleAddMessages)
	r.Put("/messages", s.handleChangeState)
	r.Delete("/messages", s.handleDeleteMessages)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestIDHeader stamps the chi request id (or a fresh uuid if chi's
// middleware was bypassed) onto the response so clients can correlate
// requests with server logs.
func requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
}
