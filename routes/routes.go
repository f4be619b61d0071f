package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/handlers"
	"github.com/upb/casting-agency/middleware"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 60 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := defaultRequestTimeout
	origins := []string{"*"}
	if deps.Config != nil {
		if deps.Config.Server.RequestTimeout > 0 {
			timeout = deps.Config.Server.RequestTimeout
		}
		if len(deps.Config.Server.AllowedOrigins) > 0 {
			origins = deps.Config.Server.AllowedOrigins
		}
	}

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/", handlers.Welcome(deps))
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	guard := func(permission string) func(http.Handler) http.Handler {
		return deps.AuthMiddleware.RequirePermission(permission)
	}

	r.Route("/actors", func(r chi.Router) {
		r.With(guard(auth.PermGetActors)).Get("/", handlers.ListActors(deps))
		r.With(guard(auth.PermPostActors)).Post("/", handlers.CreateActor(deps))
		r.With(guard(auth.PermGetActors)).Get("/{id}", handlers.GetActor(deps))
		r.With(guard(auth.PermPatchActors)).Patch("/{id}", handlers.UpdateActor(deps))
		r.With(guard(auth.PermDeleteActors)).Delete("/{id}", handlers.DeleteActor(deps))
	})

	r.Route("/movies", func(r chi.Router) {
		r.With(guard(auth.PermGetMovies)).Get("/", handlers.ListMovies(deps))
		r.With(guard(auth.PermPostMovies)).Post("/", handlers.CreateMovie(deps))
		r.With(guard(auth.PermGetMovies)).Get("/{id}", handlers.GetMovie(deps))
		r.With(guard(auth.PermPatchMovies)).Patch("/{id}", handlers.UpdateMovie(deps))
		r.With(guard(auth.PermDeleteMovies)).Delete("/{id}", handlers.DeleteMovie(deps))
	})

	r.Route("/castings", func(r chi.Router) {
		r.With(guard(auth.PermGetCastings)).Get("/", handlers.ListCastings(deps))
		r.With(guard(auth.PermPostCastings)).Post("/", handlers.CreateCasting(deps))
		r.With(guard(auth.PermGetCastings)).Get("/{id}", handlers.GetCasting(deps))
		r.With(guard(auth.PermDeleteCastings)).Delete("/{id}", handlers.DeleteCasting(deps))
	})

	return r
}
