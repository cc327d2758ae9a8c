package auth

import (
	"net/http"

	"github.com/FestivalLedger/FL-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) SetupRoutes(limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.With(limiter.Middleware).Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	// ListUsers and ResetPassword run their own superadmin guard.
	r.Get("/users", h.ListUsers)
	r.Post("/reset-password", h.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(h.Sessions))
		r.Get("/me", h.Me)
	})

	return r
}
