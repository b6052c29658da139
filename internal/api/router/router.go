// Package router wires the studio site's routes: static pages and assets,
// the public JSON API, the Square OAuth connect flow, and operational
// endpoints.
package router

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smoothbar/studio-backend/internal/http/handlers"
	httpmiddleware "github.com/smoothbar/studio-backend/internal/http/middleware"
	"github.com/smoothbar/studio-backend/internal/square"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

// assetDirs are the static asset prefixes served from the assets root.
var assetDirs = []string{"css", "js", "img", "components"}

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	Pages        *handlers.PagesHandler
	Services     *handlers.ServicesHandler
	Availability *handlers.AvailabilityHandler
	Calendar     *handlers.CalendarHandler
	Status       *handlers.StatusHandler
	Health       *handlers.HealthHandler
	SquareOAuth  *square.OAuthHandler

	AssetsDir       string
	AdminAuthSecret string
	MetricsHandler  http.Handler

	APIRateLimit  int
	APIRateWindow time.Duration
	AuthRateLimit int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Static assets.
	for _, dir := range assetDirs {
		prefix := "/" + dir
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(filepath.Join(cfg.AssetsDir, dir))))
		r.Handle(prefix+"/*", fs)
	}

	// Site pages.
	if cfg.Pages != nil {
		r.Get("/", cfg.Pages.Page("index"))
		for _, name := range handlers.PageNames {
			r.Get("/"+name, cfg.Pages.Page(name))
		}
	}

	// Public JSON API, rate limited per IP.
	r.Group(func(api chi.Router) {
		if cfg.APIRateLimit > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
		}
		if cfg.Services != nil {
			api.Get("/api/services", cfg.Services.List)
			api.Get("/api/services/grouped", cfg.Services.Grouped)
		}
		if cfg.Availability != nil {
			api.Get("/api/availability", cfg.Availability.List)
		}
		if cfg.Calendar != nil {
			api.Get("/api/calendar", cfg.Calendar.Week)
			api.Get("/api/calendar/month", cfg.Calendar.Month)
		}
		if cfg.Status != nil {
			api.Get("/api/status", cfg.Status.Get)
		}
	})

	// Square connect flow: the connect page needs the admin token, the
	// callback is public because Square redirects the browser to it.
	if cfg.SquareOAuth != nil {
		r.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RateLimit(cfg.AuthRateLimit, cfg.APIRateWindow))
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/connect-square", cfg.SquareOAuth.HandleConnect)
		})
		r.Get("/callback", cfg.SquareOAuth.HandleCallback)
	}

	// Operational endpoints.
	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Check)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
