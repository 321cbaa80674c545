package rest

import (
	"net/http"

	"propwire/application/services"
	"propwire/infrastructure/config"
	"propwire/interfaces/http/protocol"
	"propwire/interfaces/http/rest/handlers"
	"propwire/interfaces/http/rest/middleware"
	"propwire/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	renderer *protocol.Renderer
	activity *services.ActivityService
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	renderer *protocol.Renderer,
	activity *services.ActivityService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		renderer: renderer,
		activity: activity,
		metrics:  metrics,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}

	// CORS configuration
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept", "Authorization", "Content-Type", "X-Request-ID",
				protocol.HeaderPropwire, protocol.HeaderPartialOnly,
				protocol.HeaderPartialComponent, protocol.HeaderVersion,
			},
			ExposedHeaders:   []string{"X-Request-ID", protocol.HeaderPropwire, protocol.HeaderLocation},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	// Page routes
	router.Route("/app", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg, rt.logger))

		pageHandler := handlers.NewPageHandler(rt.renderer, rt.activity, rt.logger)
		r.Get("/dashboard", pageHandler.Dashboard)
		r.Get("/activity", pageHandler.Activity)
		r.Post("/activity", pageHandler.RecordActivity)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
