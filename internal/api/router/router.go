package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/callbridge/internal/bridge"
	httpmiddleware "github.com/wolfman30/callbridge/internal/http/middleware"
	"github.com/wolfman30/callbridge/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Bridge         *bridge.Handler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	h := cfg.Bridge
	if h == nil {
		h = bridge.NewHandler(bridge.Options{Logger: cfg.Logger})
	}

	r.Get("/", h.Home)
	r.Get("/health", h.HealthCheck)
	r.Post("/telegram/webhook", h.TelegramWebhook)

	r.Route("/voice", func(v chi.Router) {
		v.Post("/outbound-start", h.OutboundStart)
		v.Post("/incoming", h.Incoming)
		v.Post("/gather", h.Gather)
		v.Post("/status", h.Status)
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
