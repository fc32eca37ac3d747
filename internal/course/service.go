package course

import (
	"context"
	"errors"
	"time"

	"github.com/qbacid/DentorAcademy/internal/config"
	"github.com/qbacid/DentorAcademy/internal/video"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrContentNotFound    = errors.New("content not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrMissingContentRef  = errors.New("content reference missing for its type")
)

// Service covers course authoring and the public catalog. Enrollment and
// progress live in EnrollmentService.
type Service interface {
	ListPublished(ctx context.Context, categoryID *uint) ([]CourseCard, error)
	ListAll(ctx context.Context, categoryID *uint) ([]*Course, error)
	GetCourse(ctx context.Context, id uint) (*Course, error)
	CreateCourse(ctx context.Context, dto CourseUpdate) (*Course, error)
	UpdateCourse(ctx context.Context, id uint, dto CourseUpdate) (*Course, error)
	DeleteCourse(ctx context.Context, id uint) error
	Publish(ctx context.Context, id uint) (*Course, error)
	Unpublish(ctx context.Context, id uint) (*Course, error)

	AddModule(ctx context.Context, courseID uint, dto ModuleUpdate) (*CourseModule, error)
	UpdateModule(ctx context.Context, moduleID uint, dto ModuleUpdate) (*CourseModule, error)
	DeleteModule(ctx context.Context, moduleID uint) error
	ReorderModules(ctx context.Context, courseID uint, orderedIDs []uint) error

	AddContent(ctx context.Context, moduleID uint, dto ContentUpdate) (*CourseContent, error)
	UpdateContent(ctx context.Context, contentID uint, dto ContentUpdate) (*CourseContent, error)
	DeleteContent(ctx context.Context, contentID uint) error

	ListCategories(ctx context.Context) ([]*CourseCategory, error)
	CreateCategory(ctx context.Context, dto CategoryUpdate) (*CourseCategory, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	videos video.Provider
}

func NewService(db *gorm.DB, repo Repository, videos video.Provider) Service {
	return &service{db: db, repo: repo, videos: videos}
}

func (s *service) ListPublished(ctx context.Context, categoryID *uint) ([]CourseCard, error) {
	courses, err := s.repo.ListCourses(categoryID, true)
	if err != nil {
		return nil, err
	}

	cards := make([]CourseCard, 0, len(courses))
	for _, c := range courses {
		card := CourseCard{
			ID:             c.ID,
			Title:          c.Title,
			Description:    c.Description,
			InstructorName: c.InstructorName,
			ThumbnailURL:   c.ThumbnailURL,
			ModuleCount:    len(c.Modules),
		}
		if c.Category != nil {
			card.CategoryName = &c.Category.Name
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *service) ListAll(ctx context.Context, categoryID *uint) ([]*Course, error) {
	return s.repo.ListCourses(categoryID, false)
}

func (s *service) GetCourse(ctx context.Context, id uint) (*Course, error) {
	c, err := s.repo.FindCourseWithModules(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *service) CreateCourse(ctx context.Context, dto CourseUpdate) (*Course, error) {
	log := config.WithContext(ctx)

	if dto.CategoryID != nil {
		category, err := s.repo.FindCategory(*dto.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}

	now := time.Now().UTC()
	c := &Course{
		Title:          dto.Title,
		Description:    dto.Description,
		CategoryID:     dto.CategoryID,
		InstructorName: dto.InstructorName,
		ThumbnailURL:   dto.ThumbnailURL,
		IsPublished:    false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateCourse(c); err != nil {
		log.WithError(err).Error("Failed to create course")
		return nil, err
	}

	log.WithField("course_id", c.ID).Info("Course created")
	return c, nil
}

func (s *service) UpdateCourse(ctx context.Context, id uint, dto CourseUpdate) (*Course, error) {
	c, err := s.repo.FindCourse(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	if dto.CategoryID != nil {
		category, err := s.repo.FindCategory(*dto.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
	}

	c.Title = dto.Title
	c.Description = dto.Description
	c.CategoryID = dto.CategoryID
	c.InstructorName = dto.InstructorName
	c.ThumbnailURL = dto.ThumbnailURL
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveCourse(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCourse(ctx context.Context, id uint) error {
	log := config.WithContext(ctx)

	c, err := s.repo.FindCourse(id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCourseNotFound
	}

	if err := s.repo.DeleteCourse(id); err != nil {
		log.WithError(err).Error("Failed to delete course")
		return err
	}

	log.WithField("course_id", id).Info("Course deleted")
	return nil
}

func (s *service) Publish(ctx context.Context, id uint) (*Course, error) {
	return s.setPublished(ctx, id, true)
}

func (s *service) Unpublish(ctx context.Context, id uint) (*Course, error) {
	return s.setPublished(ctx, id, false)
}

func (s *service) setPublished(ctx context.Context, id uint, published bool) (*Course, error) {
	c, err := s.repo.FindCourse(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	c.IsPublished = published
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveCourse(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) AddModule(ctx context.Context, courseID uint, dto ModuleUpdate) (*CourseModule, error) {
	c, err := s.repo.FindCourse(courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}

	maxOrder, err := s.repo.MaxModuleOrder(courseID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &CourseModule{
		CourseID:    courseID,
		Title:       dto.Title,
		Description: dto.Description,
		OrderIndex:  maxOrder + 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) UpdateModule(ctx context.Context, moduleID uint, dto ModuleUpdate) (*CourseModule, error) {
	m, err := s.repo.FindModule(moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrModuleNotFound
	}

	m.Title = dto.Title
	m.Description = dto.Description
	m.UpdatedAt = time.Now().UTC()
	if err := s.db.Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) DeleteModule(ctx context.Context, moduleID uint) error {
	m, err := s.repo.FindModule(moduleID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrModuleNotFound
	}
	return s.db.Delete(&CourseModule{}, "id = ?", moduleID).Error
}

func (s *service) ReorderModules(ctx context.Context, courseID uint, orderedIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			err := tx.Model(&CourseModule{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Updates(map[string]interface{}{"order_index": i, "updated_at": time.Now().UTC()}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) AddContent(ctx context.Context, moduleID uint, dto ContentUpdate) (*CourseContent, error) {
	m, err := s.repo.FindModule(moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrModuleNotFound
	}

	content, err := s.buildContent(ctx, dto)
	if err != nil {
		return nil, err
	}

	maxOrder, err := s.repo.MaxContentOrder(moduleID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	content.ModuleID = moduleID
	content.OrderIndex = maxOrder + 1
	content.CreatedAt = now
	content.UpdatedAt = now
	if err := s.db.Create(content).Error; err != nil {
		return nil, err
	}
	return content, nil
}

func (s *service) UpdateContent(ctx context.Context, contentID uint, dto ContentUpdate) (*CourseContent, error) {
	existing, err := s.repo.FindContent(contentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrContentNotFound
	}

	content, err := s.buildContent(ctx, dto)
	if err != nil {
		return nil, err
	}

	existing.Title = content.Title
	existing.ContentType = content.ContentType
	existing.VideoURL = content.VideoURL
	existing.VideoDurationSeconds = content.VideoDurationSeconds
	existing.DocumentURL = content.DocumentURL
	existing.QuizID = content.QuizID
	existing.UpdatedAt = time.Now().UTC()

	if err := s.db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) DeleteContent(ctx context.Context, contentID uint) error {
	content, err := s.repo.FindContent(contentID)
	if err != nil {
		return err
	}
	if content == nil {
		return ErrContentNotFound
	}
	return s.db.Delete(&CourseContent{}, "id = ?", contentID).Error
}

// buildContent validates the type-specific reference and, for videos,
// verifies the URL against the hosting provider and captures its duration.
func (s *service) buildContent(ctx context.Context, dto ContentUpdate) (*CourseContent, error) {
	log := config.WithContext(ctx)

	contentType, ok := ParseContentType(dto.ContentType)
	if !ok {
		return nil, ErrInvalidContentType
	}

	content := &CourseContent{
		Title:       dto.Title,
		ContentType: contentType,
	}

	switch contentType {
	case ContentVideo:
		if dto.VideoURL == nil {
			return nil, ErrMissingContentRef
		}
		meta, err := s.videos.Validate(ctx, *dto.VideoURL)
		if err != nil {
			log.WithError(err).WithField("video_url", *dto.VideoURL).Warn("Video validation failed")
			return nil, err
		}
		content.VideoURL = dto.VideoURL
		content.VideoDurationSeconds = &meta.DurationSeconds
	case ContentDocument:
		if dto.DocumentURL == nil {
			return nil, ErrMissingContentRef
		}
		content.DocumentURL = dto.DocumentURL
	case ContentQuiz:
		if dto.QuizID == nil {
			return nil, ErrMissingContentRef
		}
		content.QuizID = dto.QuizID
	}
	return content, nil
}

func (s *service) ListCategories(ctx context.Context) ([]*CourseCategory, error) {
	return s.repo.ListCategories()
}

func (s *service) CreateCategory(ctx context.Context, dto CategoryUpdate) (*CourseCategory, error) {
	now := time.Now().UTC()
	category := &CourseCategory{
		Name:        dto.Name,
		Description: dto.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}
