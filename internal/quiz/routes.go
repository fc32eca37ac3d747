package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/qbacid/DentorAcademy/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListAvailable)
	r.Get("/{id}", h.GetForTaking)

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Post("/{id}/attempts", h.StartAttempt)
		r.Get("/{id}/attempts/active", h.GetActiveAttempt)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Use(auth.RequireRole("Admin"))

		r.Post("/import", h.Import)
		r.Post("/", h.CreateQuiz)
		r.Put("/{id}", h.UpdateQuiz)
		r.Delete("/{id}", h.DeleteQuiz)
		r.Post("/{id}/questions", h.CreateQuestion)
		r.Put("/{id}/questions/order", h.ReorderQuestions)
		r.Put("/questions/{questionID}", h.UpdateQuestion)
		r.Delete("/questions/{questionID}", h.DeleteQuestion)
	})

	return r
}

func AttemptRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.AuthMiddleware)

	r.Post("/{id}/answers", h.SubmitAnswer)
	r.Post("/{id}/complete", h.CompleteAttempt)
	r.Get("/{id}/results", h.AttemptResults)
	r.Get("/{id}/answers", h.SavedAnswers)

	return r
}
