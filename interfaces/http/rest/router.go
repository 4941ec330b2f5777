package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"crossroads-backend/application/services"
	"crossroads-backend/interfaces/http/rest/handlers"
	"crossroads-backend/interfaces/http/rest/middleware"
	"crossroads-backend/pkg/auth"
)

// Options carries the deployment flags the router needs.
type Options struct {
	// EnableCORS installs the CORS middleware; the gateway handles CORS in
	// the Lambda deployment, so it is off there.
	EnableCORS bool
	// IsLambda switches authentication to the gateway-forwarded identity
	// headers.
	IsLambda bool
}

// Router creates and configures the HTTP router
type Router struct {
	treeService    *services.TreeService
	advisorService *services.AdvisorService
	jwtValidator   *auth.JWTValidator
	opts           Options
	logger         *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	treeService *services.TreeService,
	advisorService *services.AdvisorService,
	jwtValidator *auth.JWTValidator,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		treeService:    treeService,
		advisorService: advisorService,
		jwtValidator:   jwtValidator,
		opts:           opts,
		logger:         logger,
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

	// CORS configuration
	if rt.opts.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.crossroads.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.jwtValidator, rt.opts.IsLambda, rt.logger))

		// Tree lifecycle and traversal
		r.Route("/trees", func(r chi.Router) {
			treeHandler := handlers.NewTreeHandler(rt.treeService, rt.logger)
			r.Post("/", treeHandler.CreateTree)
			r.Get("/", treeHandler.ListTrees)
			r.Get("/{treeID}", treeHandler.GetTree)
			r.Delete("/{treeID}", treeHandler.DeleteTree)

			navHandler := handlers.NewNavigationHandler(rt.treeService, rt.logger)
			r.Post("/{treeID}/advance", navHandler.Advance)
			r.Post("/{treeID}/back", navHandler.GoBack)
			r.Get("/{treeID}/conclusion", navHandler.CheckConclusion)
			r.Post("/{treeID}/conclusion", navHandler.Finalize)
			r.Get("/{treeID}/summary", navHandler.Summary)
		})

		// Advisor personalization
		r.Route("/advisor", func(r chi.Router) {
			advisorHandler := handlers.NewAdvisorHandler(rt.advisorService, rt.logger)
			r.Get("/", advisorHandler.GetProfile)
			r.Put("/", advisorHandler.SaveProfile)
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
