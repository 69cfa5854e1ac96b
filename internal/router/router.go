package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-book-review/internal/config"
	"go-book-review/internal/handler"
	"go-book-review/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Book   *handler.BookHandler
	Review *handler.ReviewHandler
	Tag    *handler.TagHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", h.Auth.Signup)
			auth.Post("/login", h.Auth.Login)
			auth.Get("/verify/{token}", h.Auth.Verify)
			auth.With(authMiddleware.RequireRefresh).Post("/refresh_token", h.Auth.Refresh)
			auth.With(authMiddleware.RequireAccess).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAccess, authMiddleware.RequireRoles("admin", "user")).Get("/me", h.Auth.Me)
		})

		api.Route("/books", func(books chi.Router) {
			books.Use(authMiddleware.RequireAccess, authMiddleware.RequireRoles("admin", "user"))
			books.Get("/", h.Book.List)
			books.Post("/", h.Book.Create)
			books.Get("/user/{user_uid}", h.Book.ListByUser)
			books.Get("/{book_uid}", h.Book.Get)
			books.Patch("/{book_uid}", h.Book.Update)
			books.Delete("/{book_uid}", h.Book.Delete)
		})

		api.Route("/reviews", func(reviews chi.Router) {
			reviews.Use(authMiddleware.RequireAccess, authMiddleware.RequireRoles("admin", "user"))
			reviews.Get("/", h.Review.List)
			reviews.Get("/{review_uid}", h.Review.Get)
			reviews.Post("/book/{book_uid}", h.Review.CreateForBook)
			reviews.Delete("/{review_uid}", h.Review.Delete)
		})

		api.Route("/tags", func(tags chi.Router) {
			tags.Use(authMiddleware.RequireAccess, authMiddleware.RequireRoles("admin", "user"))
			tags.Get("/", h.Tag.List)
			tags.Post("/", h.Tag.Create)
			tags.Post("/book/{book_uid}/tags", h.Tag.AddToBook)
			tags.Put("/{tag_uid}", h.Tag.Update)
			tags.Delete("/{tag_uid}", h.Tag.Delete)
		})
	})

	return r
}
