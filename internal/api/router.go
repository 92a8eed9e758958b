package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hoanghai1803/mealcraft/internal/api/handlers"
	"github.com/hoanghai1803/mealcraft/internal/auth"
	"github.com/hoanghai1803/mealcraft/internal/recipes"
)

// NewRouter creates and configures the HTTP router with all API routes. db
// backs the readiness check.
func NewRouter(authSvc *auth.Service, recipeSvc *recipes.Service, db handlers.Pinger, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(SecurityHeaders)
	r.Use(CORS(allowedOrigins))

	r.Get("/", handlers.Root())

	r.Route("/api", func(api chi.Router) {
		api.Get("/test", handlers.Ping())
		api.Get("/ready", handlers.Ready(db))

		api.Post("/signup", handlers.Signup(authSvc))
		api.Post("/login", handlers.Login(authSvc))

		api.Post("/preferences", handlers.SavePreferences(recipeSvc))
		api.Post("/recipe", handlers.GenerateRecipe(recipeSvc))

		api.Group(func(protected chi.Router) {
			protected.Use(RequireAuth(authSvc.Tokens()))
			protected.Post("/update-email", handlers.UpdateEmail(authSvc))
			protected.Post("/update-password", handlers.UpdatePassword(authSvc))
		})
	})

	return r
}
