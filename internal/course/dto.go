package course

import "time"

type CourseUpdate struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    *string `json:"description"`
	CategoryID     *uint   `json:"category_id"`
	InstructorName *string `json:"instructor_name"`
	ThumbnailURL   *string `json:"thumbnail_url"`
}

type ModuleUpdate struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
}

type ContentUpdate struct {
	Title       string  `json:"title" validate:"required,max=200"`
	ContentType string  `json:"content_type" validate:"required"`
	VideoURL    *string `json:"video_url"`
	DocumentURL *string `json:"document_url"`
	QuizID      *uint   `json:"quiz_id"`
}

type CategoryUpdate struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
}

// CourseCard is the catalog projection for browsing.
type CourseCard struct {
	ID             uint    `json:"id"`
	Title          string  `json:"title"`
	Description    *string `json:"description,omitempty"`
	CategoryName   *string `json:"category_name,omitempty"`
	InstructorName *string `json:"instructor_name,omitempty"`
	ThumbnailURL   *string `json:"thumbnail_url,omitempty"`
	ModuleCount    int     `json:"module_count"`
}

// ProgressReport summarizes a learner's standing within a course.
type ProgressReport struct {
	CourseID        uint       `json:"course_id"`
	CourseTitle     string     `json:"course_title"`
	TotalContents   int        `json:"total_contents"`
	CompletedCount  int        `json:"completed_count"`
	ProgressPercent float64    `json:"progress_percent"`
	EnrolledAt      time.Time  `json:"enrolled_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletedIDs    []uint     `json:"completed_content_ids"`
}
