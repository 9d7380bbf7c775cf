package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/memberhub/memberhub/internal/api/handlers"
	"github.com/memberhub/memberhub/internal/auth"
	"github.com/memberhub/memberhub/internal/services"
	"github.com/memberhub/memberhub/internal/session"
	"github.com/memberhub/memberhub/internal/web"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	eventService services.AuthEventServiceProvider,
	sessions *session.Manager,
	renderer *web.Renderer,
	frontendOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Credentialed CORS for a separately hosted frontend during development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, eventService, sessions, renderer)
	pageHandler := handlers.NewPageHandler(userService, renderer)

	r.Get("/", pageHandler.Home)

	r.Group(func(r chi.Router) {
		// Resolve the session if present so the login page can short-circuit
		// for already-authenticated visitors.
		r.Use(auth.CurrentUser(sessions))

		r.Get("/signup", authHandler.ShowSignup)
		r.Post("/signup", authHandler.Signup)
		r.Get("/login", authHandler.ShowLogin)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		// Everything in this group requires a live session.
		r.Use(auth.RequireAuth(sessions))

		r.Get("/dashboard", pageHandler.Dashboard)
	})

	return r
}
