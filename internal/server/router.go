// Package server assembles the HTTP routes and middleware chain.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ayush/photo-portfolio/backend/internal/auth"
	"github.com/ayush/photo-portfolio/backend/internal/content"
	"github.com/ayush/photo-portfolio/backend/internal/httpx"
	"github.com/ayush/photo-portfolio/backend/internal/listings"
	"github.com/ayush/photo-portfolio/backend/internal/logging"
	"github.com/ayush/photo-portfolio/backend/internal/metrics"
	"github.com/ayush/photo-portfolio/backend/internal/middleware"
	"github.com/ayush/photo-portfolio/backend/internal/models"
	"github.com/ayush/photo-portfolio/backend/internal/portfolio"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Guard        *middleware.Guard
	Auth         *auth.Handler
	Portfolio    *portfolio.Handler
	Content      *content.Handler
	Services     *listings.ServiceHandler
	Testimonials *listings.TestimonialHandler
	Contacts     *listings.ContactHandler
	DB           Pinger
	UploadDir    string
	CORSOrigins  []string
	MaxBodyBytes int64
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

// NewRouter wires every route onto a chi router.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteMessage(w, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", d.Metrics.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(d.UploadDir)))))

	admin := d.Guard.RequireRole(models.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		}))
		if d.MaxBodyBytes > 0 {
			r.Use(httpx.LimitBody(d.MaxBodyBytes))
		}

		r.Get("/health", health(d.DB, d.Logger))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			r.Get("/verify", d.Auth.Verify)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", d.Portfolio.List)
			r.Get("/{id}", d.Portfolio.Get)
			r.With(admin).Post("/", d.Portfolio.Create)
			r.With(admin).Put("/{id}", d.Portfolio.Update)
			r.With(admin).Delete("/{id}", d.Portfolio.Delete)
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/{section}", d.Content.Get)
			r.With(admin).Put("/{section}", d.Content.Upsert)
			r.With(admin).Post("/{section}", d.Content.Upsert)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", d.Services.List)
			r.With(admin).Post("/", d.Services.Create)
			r.With(admin).Put("/{id}", d.Services.Update)
			r.With(admin).Delete("/{id}", d.Services.Delete)
		})

		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/", d.Testimonials.List)
			r.With(admin).Post("/", d.Testimonials.Create)
			r.With(admin).Put("/{id}", d.Testimonials.Update)
			r.With(admin).Delete("/{id}", d.Testimonials.Delete)
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", d.Contacts.Create)
			r.With(admin).Get("/", d.Contacts.List)
			r.With(admin).Delete("/{id}", d.Contacts.Delete)
		})
	})

	return r
}

func health(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("health check: database unreachable", "error", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "DEGRADED", Message: "Database unreachable", Database: "PostgreSQL",
			})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status: "OK", Message: "Server is running", Database: "PostgreSQL",
		})
	}
}

// noListing hides directory indexes from the uploads file server.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			httpx.WriteMessage(w, http.StatusNotFound, "Resource not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}
