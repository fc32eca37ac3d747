package container

import (
	"context"
	"log"
	"os"

	"github.com/qbacid/DentorAcademy/internal/auth"
	"github.com/qbacid/DentorAcademy/internal/config"
	"github.com/qbacid/DentorAcademy/internal/course"
	"github.com/qbacid/DentorAcademy/internal/quiz"
	"github.com/qbacid/DentorAcademy/internal/user"
)

type Container struct {
	UserContainer   *user.UserContainer
	CourseContainer *course.CourseContainer
	QuizContainer   *quiz.QuizContainer
}

func New() *Container {
	config.Init()
	auth.Init()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := migrate(); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return &Container{
		UserContainer:   user.NewUserContainer(config.DB),
		CourseContainer: course.NewCourseContainer(config.DB),
		QuizContainer:   quiz.NewQuizContainer(config.DB),
	}
}

// migrate keeps referenced tables ahead of the ones referencing them.
func migrate() error {
	models := user.Entities()
	models = append(models, course.Entities()...)
	models = append(models, quiz.Entities()...)
	return config.DB.AutoMigrate(models...)
}
