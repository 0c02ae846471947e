package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wemarques/dashboard-financeiro/internal/domain"
	"github.com/wemarques/dashboard-financeiro/internal/guard"
	"github.com/wemarques/dashboard-financeiro/internal/intervention"
	"github.com/wemarques/dashboard-financeiro/internal/notify"
	"github.com/wemarques/dashboard-financeiro/internal/rules"
	"github.com/wemarques/dashboard-financeiro/internal/velocity"
)

// Server represents the HTTP API server.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  domain.ServerConfig
}

// Deps bundles the handler dependencies.
type Deps struct {
	Repo     domain.Repository
	Cache    domain.Cache
	Bus      domain.EventBus
	Gate     *guard.Guard
	Composer *intervention.Engine
	Ledger   *intervention.DelayLedger
	Velocity *velocity.Service
	Rules    *rules.Engine
	Notifier *notify.Notifier
	Version  string
}

// NewServer creates a new API server.
func NewServer(cfg domain.ServerConfig, deps Deps) *Server {
	handler := NewHandler(deps)
	router := chi.NewRouter()

	// Global middleware stack
	router.Use(CORSMiddleware)         // CORS for browser clients
	router.Use(RecoverMiddleware)      // Recover from panics
	router.Use(TracingMiddleware)      // OpenTelemetry tracing
	router.Use(LoggingMiddleware)      // Request logging
	router.Use(middleware.RealIP)      // Extract real IP
	router.Use(middleware.Compress(5)) // Gzip compression

	// Health endpoints (no user required)
	router.Get("/health", handler.Health)
	router.Get("/ready", handler.Ready)

	// API routes (user resolved from header, default local)
	router.Route("/", func(r chi.Router) {
		r.Use(UserMiddleware)

		// Transaction gate
		r.Post("/transactions/check", handler.CheckTransaction)
		r.Get("/transactions/{id}", handler.GetTransaction)
		r.Get("/assessments/{txId}", handler.GetAssessment)

		// Interventions
		r.Post("/interventions", handler.ComposeIntervention)
		r.Get("/interventions/stats", handler.InterventionStats)

		// Protection state
		r.Get("/protection/status", handler.ProtectionStatus)
		r.Post("/protection/enable", handler.EnableProtection)
		r.Post("/protection/disable", handler.DisableProtection)
		r.Post("/protection/bypass", handler.BypassProtection)

		// Delay ledger
		r.Post("/delays", handler.SetDelay)
		r.Get("/delays/{txId}", handler.DelayStatus)

		// Goals
		r.Get("/goals", handler.ListGoals)
		r.Post("/goals", handler.CreateGoal)
		r.Put("/goals/{id}/progress", handler.UpdateGoalProgress)

		// Custom risk rules
		r.Get("/rules", handler.ListRules)
		r.Post("/rules", handler.CreateRule)
		r.Post("/rules/reload", handler.ReloadRules)

		// Notification feed
		r.Get("/notifications", handler.ListNotifications)
		r.Post("/notifications/{id}/read", handler.MarkNotificationRead)
		r.Post("/notifications/read-all", handler.MarkAllNotificationsRead)
	})

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Handler returns the handler for testing.
func (s *Server) Handler() *Handler {
	return s.handler
}
