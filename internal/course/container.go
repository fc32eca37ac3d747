package course

import (
	"time"

	"github.com/qbacid/DentorAcademy/internal/video"
	"gorm.io/gorm"
)

type CourseContainer struct {
	Handler     *Handler
	Service     Service
	Enrollments EnrollmentService
}

func NewCourseContainer(db *gorm.DB) *CourseContainer {
	videos := video.NewCachingProvider(video.NewVimeoProvider(""), 15*time.Minute)
	repo := NewRepository(db)
	service := NewService(db, repo, videos)
	enrollments := NewEnrollmentService(db, repo)
	handler := NewHandler(service, enrollments)

	return &CourseContainer{
		Handler:     handler,
		Service:     service,
		Enrollments: enrollments,
	}
}
