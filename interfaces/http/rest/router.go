package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cortex/infrastructure/di"
	"cortex/interfaces/http/rest/handlers"
	"cortex/interfaces/http/rest/middleware"
	"cortex/pkg/auth"
	pkgerrors "cortex/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() (http.Handler, error) {
	cfg := rt.container.Config

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.container.Metrics))
	}
	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if cfg.EnableMetrics {
		router.Method("GET", "/metrics", promhttp.HandlerFor(
			rt.container.Metrics.Registry(),
			promhttp.HandlerOpts{},
		))
	}

	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret-change-in-production"
	}
	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
	if err != nil {
		return nil, err
	}

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, cfg.IsDevelopment())

	ingestHandler := handlers.NewIngestHandler(rt.container.Ingest, errorHandler, rt.logger)
	nodeHandler := handlers.NewNodeHandler(rt.container.CommandBus, rt.container.QueryBus, rt.container.NodeActions, errorHandler, rt.logger)
	graphHandler := handlers.NewGraphHandler(rt.container.QueryBus, errorHandler, rt.logger)
	reviewHandler := handlers.NewReviewHandler(rt.container.CommandBus, rt.container.QueryBus, rt.container.Suppression, errorHandler, rt.logger)
	timelineHandler := handlers.NewTimelineHandler(rt.container.QueryBus, errorHandler, rt.logger)
	profileHandler := handlers.NewProfileHandler(rt.container.CommandBus, rt.container.QueryBus, errorHandler, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(validator, rt.logger))

		r.Post("/ingest", ingestHandler.Ingest)

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/pending", nodeHandler.ListPending)
			r.Post("/{nodeID}/approve", nodeHandler.Approve)
			r.Post("/{nodeID}/reject", nodeHandler.Reject)
			r.Put("/{nodeID}", nodeHandler.Edit)
			r.Get("/{nodeID}/neighbors", nodeHandler.Neighbors)
		})

		r.Route("/graph", func(r chi.Router) {
			r.Get("/", graphHandler.GetGraph)
			r.Get("/statistics", graphHandler.GetStatistics)
		})

		r.Route("/contradictions", func(r chi.Router) {
			r.Get("/", reviewHandler.ListContradictions)
			r.Post("/{contradictionID}/resolve", reviewHandler.ResolveContradiction)
		})

		r.Route("/suppressions", func(r chi.Router) {
			r.Get("/", reviewHandler.ListRules)
			r.Post("/", reviewHandler.AddRule)
			r.Post("/{ruleID}/toggle", reviewHandler.ToggleRule)
		})

		r.Route("/timeline", func(r chi.Router) {
			r.Get("/", timelineHandler.List)
			r.Get("/{eventID}/related", timelineHandler.Related)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Post("/samples", profileHandler.RecordSample)
			r.Post("/breaks", profileHandler.RecordBreak)
		})
	})

	return router, nil
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
