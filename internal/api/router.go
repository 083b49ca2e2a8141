package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rflorenc/catalog-console/internal/console"
	"github.com/rflorenc/catalog-console/internal/logging"
	"github.com/rflorenc/catalog-console/internal/models"
)

// Console is the request engine the handlers drive.
type Console interface {
	Preview(resource, operation string, fields models.FieldSet) (models.RequestDescriptor, error)
	Submit(ctx context.Context, resource, operation string, fields models.FieldSet) (*console.Exchange, error)
}

// Server holds shared state for all API handlers.
type Server struct {
	Console Console
	Backend *models.Backend
	Logger  *slog.Logger
}

// NewRouter builds the chi router with all API routes.
func NewRouter(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.Nop()
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.Health)

		// Registry
		r.Get("/resources", s.ListResourceTypes)
		r.Get("/resources/{kind}/operations", s.ListOperations)

		// Requests
		r.Post("/requests/preview", s.PreviewRequest)
		r.Post("/requests", s.SendRequest)
	})

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
