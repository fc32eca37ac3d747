package course

import "time"

type CourseCategory struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description *string `gorm:"size:500" json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Course struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Title          string  `gorm:"size:200;not null" json:"title"`
	Description    *string `gorm:"size:2000" json:"description,omitempty"`
	CategoryID     *uint   `gorm:"index" json:"category_id,omitempty"`
	InstructorName *string `gorm:"size:200" json:"instructor_name,omitempty"`
	ThumbnailURL   *string `gorm:"size:1000" json:"thumbnail_url,omitempty"`
	IsPublished    bool    `json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category    *CourseCategory    `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Modules     []CourseModule     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

type CourseModule struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CourseID    uint    `gorm:"not null;index:idx_modules_course_order" json:"course_id"`
	Title       string  `gorm:"size:200;not null" json:"title"`
	Description *string `gorm:"size:1000" json:"description,omitempty"`
	OrderIndex  int     `gorm:"index:idx_modules_course_order" json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Contents []CourseContent `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"contents,omitempty"`
}

type CourseContent struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ModuleID    uint        `gorm:"not null;index:idx_contents_module_order" json:"module_id"`
	Title       string      `gorm:"size:200;not null" json:"title"`
	ContentType ContentType `gorm:"size:20;not null" json:"content_type"`
	OrderIndex  int         `gorm:"index:idx_contents_module_order" json:"order_index"`

	// Exactly one of the following is set, matching ContentType.
	VideoURL             *string `gorm:"size:1000" json:"video_url,omitempty"`
	VideoDurationSeconds *int    `json:"video_duration_seconds,omitempty"`
	DocumentURL          *string `gorm:"size:1000" json:"document_url,omitempty"`
	QuizID               *uint   `json:"quiz_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CourseEnrollment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CourseID        uint       `gorm:"not null;uniqueIndex:idx_enrollments_course_user" json:"course_id"`
	UserID          string     `gorm:"size:450;not null;uniqueIndex:idx_enrollments_course_user" json:"user_id"`
	EnrolledAt      time.Time  `json:"enrolled_at"`
	ProgressPercent float64    `json:"progress_percent"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	LastAccessedAt  *time.Time `json:"last_accessed_at,omitempty"`

	Completions []ContentCompletion `gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// ContentCompletion marks a single content item as done within an enrollment.
type ContentCompletion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EnrollmentID uint      `gorm:"not null;uniqueIndex:idx_completions_enrollment_content" json:"enrollment_id"`
	ContentID    uint      `gorm:"not null;uniqueIndex:idx_completions_enrollment_content" json:"content_id"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Entities lists every table in this package in migration order.
func Entities() []interface{} {
	return []interface{}{
		&CourseCategory{},
		&Course{},
		&CourseModule{},
		&CourseContent{},
		&CourseEnrollment{},
		&ContentCompletion{},
	}
}
