package api

import (
	"github.com/avelin/snapfeed-be/internal/api/handlers"
	"github.com/avelin/snapfeed-be/internal/auth"
	"github.com/avelin/snapfeed-be/internal/config"
	"github.com/avelin/snapfeed-be/internal/services"
	"github.com/avelin/snapfeed-be/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	guard *auth.Guard,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	sessionService services.SessionServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessionService, eventService, cfg.SessionSecret, cfg.IsProd)
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService, eventService, hub)
	adminHandler := handlers.NewAdminHandler(userService, sessionService, eventService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Everything below requires a live session.
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireLogin)

			r.Get("/auth/me", authHandler.Me)

			r.Get("/feed", postHandler.Feed)
			r.Post("/posts", postHandler.Create)
			r.Get("/ws/feed", wsHandler.Serve)

			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Get("/users/{username}", userHandler.GetByUsername)

			r.Route("/admin", func(r chi.Router) {
				r.Use(guard.RequireAdmin)
				r.Get("/users", adminHandler.ListUsers)
				r.Delete("/users/{id}", adminHandler.DeleteUser)
				r.Post("/users/{id}/promote", adminHandler.PromoteUser)
				r.Get("/events", eventHandler.GetRecent)
			})
		})
	})

	return r
}
