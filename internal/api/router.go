package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/scribehq/scribe-api/internal/api/middleware"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	PostHandler    *PostHandler
	CommentHandler *CommentHandler

	AuthMiddleware *middleware.AuthMiddleware
	LoginLimiter   *middleware.RateLimiter
}

// NewRouter builds the chi router with all API routes mounted under /api.
// Only registration and login are public; every other route, reads included,
// sits behind bearer auth.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", deps.AuthHandler.Register)
		r.With(deps.LoginLimiter.Limit).Post("/login", deps.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.Authenticate)

			r.Get("/user", deps.AuthHandler.CurrentUser)
			r.Post("/logout", deps.AuthHandler.Logout)
			r.Post("/logout-all", deps.AuthHandler.LogoutAll)

			r.Get("/users/{userID}", deps.UserHandler.Show)

			r.Get("/posts", deps.PostHandler.List)
			r.Post("/posts", deps.PostHandler.Create)
			r.Get("/posts/{postID}", deps.PostHandler.Show)
			r.Put("/posts/{postID}", deps.PostHandler.Update)
			r.Delete("/posts/{postID}", deps.PostHandler.Delete)

			r.Get("/posts/{postID}/comments", deps.CommentHandler.List)
			r.Post("/posts/{postID}/comments", deps.CommentHandler.Create)
			r.Get("/posts/{postID}/comments/{commentID}", deps.CommentHandler.Show)
			r.Put("/posts/{postID}/comments/{commentID}", deps.CommentHandler.Update)
			r.Delete("/posts/{postID}/comments/{commentID}", deps.CommentHandler.Delete)
		})
	})

	return r
}
