package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"memoryweb/infrastructure/di"
	"memoryweb/interfaces/http/rest/handlers"
	"memoryweb/interfaces/http/rest/middleware"
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

// Setup configures all routes and middleware. When lambdaAuth is true the
// auth middleware trusts API Gateway's authorizer instead of validating
// tokens itself.
func (rt *Router) Setup(lambdaAuth bool) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.memoryweb.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		if lambdaAuth {
			r.Use(middleware.AuthenticateForLambda())
		} else {
			r.Use(middleware.Authenticate(rt.container.JWTValidator, rt.logger))
		}

		memoryHandler := handlers.NewMemoryHandler(
			rt.container.CreateMemoryHandler,
			rt.container.CommandBus,
			rt.container.QueryBus,
			rt.logger,
		)
		r.Route("/memories", func(r chi.Router) {
			r.Post("/", memoryHandler.CreateMemory)
			r.Get("/{memoryID}", memoryHandler.GetMemory)
			r.Put("/{memoryID}", memoryHandler.UpdateMemory)
			r.Delete("/{memoryID}", memoryHandler.DeleteMemory)
		})

		graphHandler := handlers.NewGraphHandler(
			rt.container.QueryBus,
			rt.container.ConnectionService,
			rt.logger,
		)
		r.Route("/graph", func(r chi.Router) {
			r.Get("/", graphHandler.GetGraph)
			r.Post("/rebuild", graphHandler.RebuildConnections)
		})

		layoutHandler := handlers.NewLayoutHandler(rt.container.QueryBus, rt.logger)
		r.Route("/layouts", func(r chi.Router) {
			r.Post("/compute", layoutHandler.ComputeLayout)
			r.Get("/clusters", layoutHandler.GetClusters)
		})

		collectionHandler := handlers.NewCollectionHandler(
			rt.container.CreateCollectionHandler,
			rt.container.QueryBus,
			rt.logger,
		)
		r.Route("/collections", func(r chi.Router) {
			r.Post("/", collectionHandler.CreateCollection)
			r.Get("/", collectionHandler.ListCollections)
		})
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
