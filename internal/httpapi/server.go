// Package httpapi is the thin web surface over the shelfstore repositories.
// Handlers validate input, call one repository or service operation, and
// encode the result; no storage logic lives here.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shelfstore/shelfstore"
)

// Server bundles the handlers with their router
type Server struct {
	books    *shelfstore.BookRepository
	users    *shelfstore.UserRepository
	carts    *shelfstore.CartRepository
	service  *shelfstore.CartService
	searcher *shelfstore.BookSearcher
	logger   shelfstore.Logger
	timeout  time.Duration
}

// NewServer creates the HTTP server façade
func NewServer(
	books *shelfstore.BookRepository,
	users *shelfstore.UserRepository,
	carts *shelfstore.CartRepository,
	service *shelfstore.CartService,
	searcher *shelfstore.BookSearcher,
	logger shelfstore.Logger,
) *Server {
	return &Server{
		books:    books,
		users:    users,
		carts:    carts,
		service:  service,
		searcher: searcher,
		logger:   logger,
		timeout:  30 * time.Second,
	}
}

// Router builds the chi router. When registry is non-nil a /metrics
// endpoint is mounted for it.
func (s *Server) Router(registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", s.listBooks)
		r.Get("/search", s.searchBooks)
		r.Get("/authors", s.suggestAuthors)
		r.Get("/{isbn}", s.getBook)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", s.listUsers)
		r.Get("/{id}", s.getUser)
	})

	r.Route("/api/carts", func(r chi.Router) {
		r.Get("/{id}", s.getCart)
		r.Post("/{id}/items", s.addToCart)
		r.Delete("/{id}/items/{isbn}", s.removeFromCart)
		r.Post("/{id}/checkout", s.checkout)
	})

	return r
}

// ErrorResponse is the JSON body for failed requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{Error: code, Details: details})
}
