package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/qbacid/DentorAcademy/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListPublished)
	r.Get("/categories", h.ListCategories)
	r.Get("/{id}", h.GetCourse)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Get("/enrollments", h.MyEnrollments)
		r.Post("/{id}/enroll", h.Enroll)
		r.Delete("/{id}/enroll", h.Unenroll)
		r.Get("/{id}/progress", h.Progress)
		r.Post("/contents/{contentID}/complete", h.CompleteContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Use(auth.RequireRole("Admin"))

		r.Post("/", h.CreateCourse)
		r.Put("/{id}", h.UpdateCourse)
		r.Delete("/{id}", h.DeleteCourse)
		r.Post("/{id}/publish", h.Publish)
		r.Post("/{id}/unpublish", h.Unpublish)
		r.Post("/{id}/modules", h.AddModule)
		r.Put("/{id}/modules/order", h.ReorderModules)
		r.Put("/modules/{moduleID}", h.UpdateModule)
		r.Delete("/modules/{moduleID}", h.DeleteModule)
		r.Post("/modules/{moduleID}/contents", h.AddContent)
		r.Put("/contents/{contentID}", h.UpdateContent)
		r.Delete("/contents/{contentID}", h.DeleteContent)
		r.Post("/categories", h.CreateCategory)
	})

	return r
}
