package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/qbacid/DentorAcademy/internal/course"
	"github.com/qbacid/DentorAcademy/internal/middlewares"
	"github.com/qbacid/DentorAcademy/internal/quiz"
	"github.com/qbacid/DentorAcademy/internal/user"
)

type RouterConfig struct {
	UserHandler   *user.Handler
	CourseHandler *course.Handler
	QuizHandler   *quiz.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Mount("/auth", user.AuthRoutes(cfg.UserHandler))
	r.Mount("/users", user.Routes(cfg.UserHandler))
	r.Mount("/courses", course.Routes(cfg.CourseHandler))
	r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
	r.Mount("/attempts", quiz.AttemptRoutes(cfg.QuizHandler))

	return r
}
