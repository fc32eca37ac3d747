package quiz

import "time"

// QuizCard is the catalog projection shown before a learner starts a quiz.
type QuizCard struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	Category         *string `json:"category,omitempty"`
	QuestionCount    int     `json:"question_count"`
	PassingScore     float64 `json:"passing_score"`
	TimeLimitMinutes *int    `json:"time_limit_minutes,omitempty"`
}

type QuizDisplay struct {
	QuizID           uint              `json:"quiz_id"`
	Title            string            `json:"title"`
	Description      *string           `json:"description,omitempty"`
	Category         *string           `json:"category,omitempty"`
	PassingScore     float64           `json:"passing_score"`
	TimeLimitMinutes *int              `json:"time_limit_minutes,omitempty"`
	TotalQuestions   int               `json:"total_questions"`
	Questions        []QuestionDisplay `json:"questions"`
}

type QuestionDisplay struct {
	QuestionID          uint            `json:"question_id"`
	QuestionText        string          `json:"question_text"`
	QuestionType        QuestionType    `json:"question_type"`
	Explanation         *string         `json:"explanation,omitempty"`
	ExplanationImageURL *string         `json:"explanation_image_url,omitempty"`
	Points              float64         `json:"points"`
	OrderIndex          int             `json:"order_index"`
	AnswerOptions       []OptionDisplay `json:"answer_options"`
}

type OptionDisplay struct {
	AnswerOptionID uint   `json:"answer_option_id"`
	OptionText     string `json:"option_text"`
	OrderIndex     int    `json:"order_index"`
	IsCorrect      bool   `json:"is_correct"`
}

// AttemptResult is the post-attempt review projection. Correctness flags are
// the persisted ones from finalization, never recomputed here.
type AttemptResult struct {
	QuizAttemptID       uint             `json:"quiz_attempt_id"`
	QuizTitle           string           `json:"quiz_title"`
	Score               float64          `json:"score"`
	TotalPointsEarned   float64          `json:"total_points_earned"`
	TotalPointsPossible float64          `json:"total_points_possible"`
	Passed              bool             `json:"passed"`
	StartedAt           time.Time        `json:"started_at"`
	CompletedAt         *time.Time       `json:"completed_at,omitempty"`
	QuestionResults     []QuestionResult `json:"question_results"`
}

type QuestionResult struct {
	QuestionID        uint         `json:"question_id"`
	QuestionText      string       `json:"question_text"`
	QuestionType      QuestionType `json:"question_type"`
	IsCorrect         bool         `json:"is_correct"`
	PointsEarned      float64      `json:"points_earned"`
	PointsPossible    float64      `json:"points_possible"`
	SelectedAnswerIDs []uint       `json:"selected_answer_ids"`
	CorrectAnswerIDs  []uint       `json:"correct_answer_ids"`
	Explanation       *string      `json:"explanation,omitempty"`
	TextAnswer        *string      `json:"text_answer,omitempty"`
}

// QuizUpdate is the manual-authoring counterpart of the import document.
type QuizUpdate struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Description      *string  `json:"description"`
	Category         *string  `json:"category"`
	PassingScore     float64  `json:"passing_score" validate:"gte=0,lte=100"`
	TimeLimitMinutes *int     `json:"time_limit_minutes"`
	IsActive         bool     `json:"is_active"`
	CourseID         *uint    `json:"course_id"`
}

type QuestionUpdate struct {
	QuestionText        string         `json:"question_text" validate:"required,max=1000"`
	QuestionType        string         `json:"question_type" validate:"required"`
	Explanation         *string        `json:"explanation"`
	ExplanationImageURL *string        `json:"explanation_image_url"`
	Points              float64        `json:"points" validate:"gt=0"`
	AnswerOptions       []OptionUpdate `json:"answer_options"`
}

type OptionUpdate struct {
	OptionText   string `json:"option_text" validate:"required,max=500"`
	IsCorrect    bool   `json:"is_correct"`
	DisplayOrder int    `json:"display_order"`
}
