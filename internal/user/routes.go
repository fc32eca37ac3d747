package user

import (
	"github.com/go-chi/chi/v5"
	"github.com/qbacid/DentorAcademy/internal/auth"
)

// AuthRoutes are mounted unauthenticated under /auth.
func AuthRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", auth.NewHandler().Logout)
	return r
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.AuthMiddleware)

	r.Get("/me", h.GetUser)
	r.Get("/me/performance", h.Performance)
	r.Get("/me/performance/categories", h.PerformanceByCategory)
	r.Get("/leaderboard", h.TopPerformers)
	return r
}
