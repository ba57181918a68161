package api

import (
	"net/http"

	"github.com/dom/blog-api/internal/api/handlers"
	"github.com/dom/blog-api/internal/api/middleware"
	"github.com/dom/blog-api/internal/api/response"
	"github.com/dom/blog-api/internal/config"
	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, domain.NotFound("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, domain.MethodNotAllowed("Method not allowed"))
	})

	// Health check
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Blog API is running"))
	})

	gate := middleware.NewGate(services.Auth)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, handlers.CookieSettings{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.AccessTokenExpiry,
		RefreshTTL: cfg.RefreshTokenExpiry,
	})
	postHandler := handlers.NewPostHandler(services.Post)
	commentHandler := handlers.NewCommentHandler(services.Comment)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/refresh-token", authHandler.Refresh)

			r.With(gate.Require).Get("/profile", authHandler.Profile)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.With(gate.Optional).Get("/{id}", postHandler.Get)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(gate.Require)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/post/{postId}", commentHandler.ListByPost)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(gate.Require)
				r.Post("/", commentHandler.Create)
				r.Put("/{id}", commentHandler.Update)
				r.Delete("/{id}", commentHandler.Delete)
			})
		})
	})

	return r
}
