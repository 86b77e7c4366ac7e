package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"twutter/internal/handler"
	"twutter/internal/httputil"
)

const healthCheckTimeout = 2 * time.Second

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	UserHandler    *handler.UserHandler
	SearchHandler  *handler.SearchHandler
	MediaHandler   *handler.MediaHandler
	StatsHandler   *handler.StatsHandler

	// HealthCheck pings storage; nil means always healthy
	HealthCheck func(ctx context.Context) error

	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router. Every API route is
// served both at the root and under /api.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler(cfg.HealthCheck))

	mountAPI(r, cfg)
	r.Route("/api", func(r chi.Router) {
		mountAPI(r, cfg)
	})

	return r
}

func mountAPI(r chi.Router, cfg RouterConfig) {
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", cfg.PostHandler.List)
		r.Post("/", cfg.PostHandler.Create)
		r.Post("/bulk", cfg.PostHandler.Bulk)
		r.Post("/comments", cfg.CommentHandler.Create)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", cfg.UserHandler.List)
		r.Post("/", cfg.UserHandler.Create)
	})

	r.Get("/search", cfg.SearchHandler.Search)

	r.Post("/media/avatar", cfg.MediaHandler.UploadAvatar)
	r.Get("/stats/authors", cfg.StatsHandler.TopAuthors)
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			if err := check(ctx); err != nil {
				log.Printf("[ERROR] Health check: err=%v", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
