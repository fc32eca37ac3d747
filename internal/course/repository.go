package course

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	FindCourse(id uint) (*Course, error)
	FindCourseWithModules(id uint) (*Course, error)
	ListCourses(categoryID *uint, publishedOnly bool) ([]*Course, error)
	CreateCourse(c *Course) error
	SaveCourse(c *Course) error
	DeleteCourse(id uint) error

	FindModule(id uint) (*CourseModule, error)
	MaxModuleOrder(courseID uint) (int, error)

	FindContent(id uint) (*CourseContent, error)
	MaxContentOrder(moduleID uint) (int, error)
	CountContents(courseID uint) (int64, error)

	FindEnrollment(courseID uint, userID string) (*CourseEnrollment, error)
	EnrollmentsByUser(userID string) ([]*CourseEnrollment, error)
	CompletionsByEnrollment(enrollmentID uint) ([]ContentCompletion, error)

	FindCategory(id uint) (*CourseCategory, error)
	ListCategories() ([]*CourseCategory, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindCourse(id uint) (*Course, error) {
	var c Course
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindCourseWithModules(id uint) (*Course, error) {
	var c Course
	err := r.db.
		Preload("Category").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		Preload("Modules.Contents", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListCourses(categoryID *uint, publishedOnly bool) ([]*Course, error) {
	query := r.db.Model(&Course{}).Preload("Category").Preload("Modules")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var courses []*Course
	if err := query.Order("title ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *repository) CreateCourse(c *Course) error {
	return r.db.Create(c).Error
}

func (r *repository) SaveCourse(c *Course) error {
	return r.db.Save(c).Error
}

func (r *repository) DeleteCourse(id uint) error {
	return r.db.Delete(&Course{}, "id = ?", id).Error
}

func (r *repository) FindModule(id uint) (*CourseModule, error) {
	var m CourseModule
	err := r.db.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) MaxModuleOrder(courseID uint) (int, error) {
	var max *int
	err := r.db.Model(&CourseModule{}).
		Where("course_id = ?", courseID).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

func (r *repository) FindContent(id uint) (*CourseContent, error) {
	var c CourseContent
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) MaxContentOrder(moduleID uint) (int, error) {
	var max *int
	err := r.db.Model(&CourseContent{}).
		Where("module_id = ?", moduleID).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// CountContents counts every content item in the course across all modules.
func (r *repository) CountContents(courseID uint) (int64, error) {
	var n int64
	err := r.db.Model(&CourseContent{}).
		Joins("JOIN course_modules ON course_modules.id = course_contents.module_id").
		Where("course_modules.course_id = ?", courseID).
		Count(&n).Error
	return n, err
}

func (r *repository) FindEnrollment(courseID uint, userID string) (*CourseEnrollment, error) {
	var e CourseEnrollment
	err := r.db.First(&e, "course_id = ? AND user_id = ?", courseID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) EnrollmentsByUser(userID string) ([]*CourseEnrollment, error) {
	var enrollments []*CourseEnrollment
	err := r.db.Where("user_id = ?", userID).Order("enrolled_at DESC").Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *repository) CompletionsByEnrollment(enrollmentID uint) ([]ContentCompletion, error) {
	var completions []ContentCompletion
	err := r.db.Where("enrollment_id = ?", enrollmentID).Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *repository) FindCategory(id uint) (*CourseCategory, error) {
	var c CourseCategory
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) ListCategories() ([]*CourseCategory, error) {
	var categories []*CourseCategory
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
