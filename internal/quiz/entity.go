package quiz

import (
	"time"
)

type Quiz struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:200;not null;index" json:"title"`
	Description      *string   `gorm:"size:1000" json:"description,omitempty"`
	Category         *string   `gorm:"size:100;index" json:"category,omitempty"`
	PassingScore     float64   `gorm:"not null" json:"passing_score"`
	TimeLimitMinutes *int      `json:"time_limit_minutes,omitempty"`
	IsActive         bool      `gorm:"not null;index" json:"is_active"`
	CourseID         *uint     `gorm:"index" json:"course_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	// Attempt history is preserved even if the quiz is removed.
	Attempts []QuizAttempt `gorm:"foreignKey:QuizID;constraint:OnDelete:RESTRICT" json:"-"`
}

type Question struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	QuizID              uint         `gorm:"not null;index:idx_questions_quiz_order" json:"quiz_id"`
	QuestionText        string       `gorm:"size:1000;not null" json:"question_text"`
	QuestionType        QuestionType `gorm:"size:30;not null" json:"question_type"`
	Explanation         *string      `gorm:"size:2000" json:"explanation,omitempty"`
	ExplanationImageURL *string      `gorm:"size:500" json:"explanation_image_url,omitempty"`
	Points              float64      `gorm:"not null" json:"points"`
	OrderIndex          int          `gorm:"not null;index:idx_questions_quiz_order" json:"order_index"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`

	AnswerOptions []AnswerOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answer_options,omitempty"`
	Responses     []UserResponse `gorm:"foreignKey:QuestionID;constraint:OnDelete:RESTRICT" json:"-"`
}

type AnswerOption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index:idx_options_question_order" json:"question_id"`
	OptionText string    `gorm:"size:500;not null" json:"option_text"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	OrderIndex int       `gorm:"not null;index:idx_options_question_order" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`

	Selections []UserResponseAnswer `gorm:"foreignKey:AnswerOptionID;constraint:OnDelete:RESTRICT" json:"-"`
}

type QuizAttempt struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	QuizID              uint       `gorm:"not null;index:idx_attempts_user_quiz" json:"quiz_id"`
	UserID              string     `gorm:"size:450;not null;index:idx_attempts_user_quiz" json:"user_id"`
	StartedAt           time.Time  `gorm:"not null;index" json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	Score               *float64   `json:"score,omitempty"`
	TotalPointsEarned   *float64   `json:"total_points_earned,omitempty"`
	TotalPointsPossible *float64   `json:"total_points_possible,omitempty"`
	Passed              *bool      `json:"passed,omitempty"`
	IsCompleted         bool       `gorm:"not null;index" json:"is_completed"`

	Responses []UserResponse `gorm:"foreignKey:QuizAttemptID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserResponse is the single answer a learner holds for a question within an
// attempt; re-answering replaces it rather than adding a second row.
type UserResponse struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuizAttemptID uint      `gorm:"not null;uniqueIndex:idx_responses_attempt_question" json:"quiz_attempt_id"`
	QuestionID    uint      `gorm:"not null;uniqueIndex:idx_responses_attempt_question" json:"question_id"`
	IsCorrect     bool      `gorm:"not null" json:"is_correct"`
	PointsEarned  float64   `gorm:"not null" json:"points_earned"`
	TextAnswer    *string   `gorm:"size:500" json:"text_answer,omitempty"`
	AnsweredAt    time.Time `gorm:"not null" json:"answered_at"`

	SelectedAnswers []UserResponseAnswer `gorm:"foreignKey:UserResponseID;constraint:OnDelete:CASCADE" json:"selected_answers,omitempty"`
}

type UserResponseAnswer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserResponseID uint      `gorm:"not null;uniqueIndex:idx_answers_response_option" json:"user_response_id"`
	AnswerOptionID uint      `gorm:"not null;uniqueIndex:idx_answers_response_option" json:"answer_option_id"`
	SelectedAt     time.Time `gorm:"not null" json:"selected_at"`
}

// Entities lists every table of the quiz feature in migration order.
func Entities() []interface{} {
	return []interface{}{
		&Quiz{},
		&Question{},
		&AnswerOption{},
		&QuizAttempt{},
		&UserResponse{},
		&UserResponseAnswer{},
	}
}
