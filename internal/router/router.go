// Package router sets up all HTTP routes and middleware chains for the
// blog API. Reads are public; every mutation sits behind bearer-token
// authentication.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vinicio/internal/handlers"
	"vinicio/internal/middleware"
	"vinicio/internal/token"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(tokens *token.Manager, posts *handlers.Posts, upload *handlers.Upload, aboutMe *handlers.AboutMe, auth *handlers.Auth, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(allowedOrigins))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Posts — reads public, mutations authenticated.
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", posts.List)
		r.Get("/{idOrSlug}", posts.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Post("/", posts.Create)
			r.Put("/{id}", posts.Update)
			r.Delete("/{id}", posts.Delete)
			r.Post("/{id}/image", upload.AttachImage)
			r.Post("/{id}/images", upload.AttachImages)
			r.Get("/{id}/media", upload.ListForPost)
		})
	})

	// Media management.
	r.Route("/media", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Delete("/{id}", upload.Delete)
	})

	// About-me profile — read public, mutations authenticated.
	r.Route("/aboutme", func(r chi.Router) {
		r.Get("/", aboutMe.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Put("/", aboutMe.Update)
			r.Post("/skills", aboutMe.AddSkill)
			r.Delete("/skills/{skill}", aboutMe.RemoveSkill)
			r.Post("/interests", aboutMe.AddInterest)
			r.Delete("/interests/{interest}", aboutMe.RemoveInterest)
			r.Post("/socials", aboutMe.AddSocial)
			r.Delete("/socials/{label}", aboutMe.RemoveSocial)
		})
	})

	// Authentication.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", auth.Login)
		r.Post("/refresh", auth.Refresh)
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Get("/me", auth.Me)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/enable", auth.TwoFAEnable)

			// Account creation — admin only.
			r.With(middleware.RequireAdmin).Post("/register", auth.Register)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
