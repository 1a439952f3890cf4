package api

import (
	"net/http"

	"github.com/anish/devshowcase/internal/api/handlers"
	"github.com/anish/devshowcase/internal/api/middleware"
	"github.com/anish/devshowcase/internal/config"
	"github.com/anish/devshowcase/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	userHandler := handlers.NewUserHandler(services.User)
	projectHandler := handlers.NewProjectHandler(services.Project)

	r.Route("/users", func(r chi.Router) {
		// Public auth routes
		r.Post("/register", authHandler.Register)
		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh-token", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Tokens))
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
			r.Patch("/me", userHandler.UpdateProfile)
			r.Post("/projects", projectHandler.Create)
			r.Post("/projects/{projectId}/watch", projectHandler.Watch)
			r.Delete("/projects/{projectId}/watch", projectHandler.Unwatch)
		})

		// Public profile routes
		r.Get("/{username}/projects", projectHandler.ListByUser)
		r.Get("/{username}/projects/{projectName}", projectHandler.GetByName)
		r.Post("/{username}/contact", userHandler.Contact)
	})

	return r
}
