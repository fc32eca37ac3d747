package course

import (
	"context"
	"errors"
	"time"

	"github.com/qbacid/DentorAcademy/internal/config"
	"gorm.io/gorm"
)

var ErrNotEnrolled = errors.New("user is not enrolled in this course")

// EnrollmentService manages a learner's membership in courses and their
// progress through course content.
type EnrollmentService interface {
	Enroll(ctx context.Context, courseID uint, userID string) (*CourseEnrollment, error)
	Unenroll(ctx context.Context, courseID uint, userID string) error
	CompleteContent(ctx context.Context, contentID uint, userID string) (*CourseEnrollment, error)
	Progress(ctx context.Context, courseID uint, userID string) (*ProgressReport, error)
	MyEnrollments(ctx context.Context, userID string) ([]*CourseEnrollment, error)
}

type enrollmentService struct {
	db   *gorm.DB
	repo Repository
}

func NewEnrollmentService(db *gorm.DB, repo Repository) EnrollmentService {
	return &enrollmentService{db: db, repo: repo}
}

// Enroll is idempotent: enrolling twice returns the existing enrollment.
func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, userID string) (*CourseEnrollment, error) {
	log := config.WithContext(ctx)

	c, err := s.repo.FindCourse(courseID)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsPublished {
		return nil, ErrCourseNotFound
	}

	existing, err := s.repo.FindEnrollment(courseID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	enrollment := &CourseEnrollment{
		CourseID:   courseID,
		UserID:     userID,
		EnrolledAt: time.Now().UTC(),
	}
	if err := s.db.Create(enrollment).Error; err != nil {
		log.WithError(err).Error("Failed to create enrollment")
		return nil, err
	}

	log.WithField("enrollment_id", enrollment.ID).Info("User enrolled in course")
	return enrollment, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, courseID uint, userID string) error {
	enrollment, err := s.repo.FindEnrollment(courseID, userID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return ErrNotEnrolled
	}
	// Completions go with the enrollment by cascade.
	return s.db.Delete(&CourseEnrollment{}, "id = ?", enrollment.ID).Error
}

// CompleteContent marks a content item done and recomputes the enrollment's
// progress from the persisted completion set. Completing the same item twice
// is a no-op. The course's completion timestamp is set the first time
// progress reaches 100%.
func (s *enrollmentService) CompleteContent(ctx context.Context, contentID uint, userID string) (*CourseEnrollment, error) {
	log := config.WithContext(ctx)

	content, err := s.repo.FindContent(contentID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}

	module, err := s.repo.FindModule(content.ModuleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, ErrModuleNotFound
	}

	enrollment, err := s.repo.FindEnrollment(module.CourseID, userID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrNotEnrolled
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var existing ContentCompletion
		err := tx.First(&existing, "enrollment_id = ? AND content_id = ?", enrollment.ID, contentID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			completion := ContentCompletion{
				EnrollmentID: enrollment.ID,
				ContentID:    contentID,
				CompletedAt:  now,
			}
			if err := tx.Create(&completion).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		return s.refreshProgress(tx, enrollment, module.CourseID, now)
	})
	if err != nil {
		log.WithError(err).Error("Failed to record content completion")
		return nil, err
	}
	return enrollment, nil
}

// refreshProgress recomputes the percentage from completion and content
// counts inside the caller's transaction.
func (s *enrollmentService) refreshProgress(tx *gorm.DB, enrollment *CourseEnrollment, courseID uint, now time.Time) error {
	var total int64
	err := tx.Model(&CourseContent{}).
		Joins("JOIN course_modules ON course_modules.id = course_contents.module_id").
		Where("course_modules.course_id = ?", courseID).
		Count(&total).Error
	if err != nil {
		return err
	}

	var done int64
	err = tx.Model(&ContentCompletion{}).
		Where("enrollment_id = ?", enrollment.ID).
		Count(&done).Error
	if err != nil {
		return err
	}

	progress := 0.0
	if total > 0 {
		progress = float64(done) / float64(total) * 100
	}

	enrollment.ProgressPercent = progress
	enrollment.LastAccessedAt = &now
	if progress >= 100 && enrollment.CompletedAt == nil {
		enrollment.CompletedAt = &now
	}
	return tx.Save(enrollment).Error
}

func (s *enrollmentService) Progress(ctx context.Context, courseID uint, userID string) (*ProgressReport, error) {
	c, err := s.repo.FindCourse(courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	enrollment, err := s.repo.FindEnrollment(courseID, userID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrNotEnrolled
	}

	total, err := s.repo.CountContents(courseID)
	if err != nil {
		return nil, err
	}

	completions, err := s.repo.CompletionsByEnrollment(enrollment.ID)
	if err != nil {
		return nil, err
	}

	completedIDs := make([]uint, 0, len(completions))
	for _, completion := range completions {
		completedIDs = append(completedIDs, completion.ContentID)
	}

	return &ProgressReport{
		CourseID:        courseID,
		CourseTitle:     c.Title,
		TotalContents:   int(total),
		CompletedCount:  len(completions),
		ProgressPercent: enrollment.ProgressPercent,
		EnrolledAt:      enrollment.EnrolledAt,
		CompletedAt:     enrollment.CompletedAt,
		CompletedIDs:    completedIDs,
	}, nil
}

func (s *enrollmentService) MyEnrollments(ctx context.Context, userID string) ([]*CourseEnrollment, error) {
	return s.repo.EnrollmentsByUser(userID)
}
