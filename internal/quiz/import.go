package quiz

import (
	"fmt"
	"strings"
)

// QuizImportDocument is the wire format for bulk quiz creation. Field names
// are matched case-insensitively on decode (encoding/json default).
type QuizImportDocument struct {
	Title            string           `json:"title"`
	Description      *string          `json:"description"`
	Category         *string          `json:"category"`
	PassingScore     *float64         `json:"passingScore"`
	TimeLimitMinutes *int             `json:"timeLimitMinutes"`
	IsActive         *bool            `json:"isActive"`
	Questions        []QuestionImport `json:"questions"`
}

type QuestionImport struct {
	QuestionText        string               `json:"questionText"`
	QuestionType        string               `json:"questionType"`
	Explanation         *string              `json:"explanation"`
	ExplanationImageURL *string              `json:"explanationImageUrl"`
	Points              *float64             `json:"points"`
	DisplayOrder        int                  `json:"displayOrder"`
	AnswerOptions       []AnswerOptionImport `json:"answerOptions"`
}

type AnswerOptionImport struct {
	OptionText   string `json:"optionText"`
	IsCorrect    bool   `json:"isCorrect"`
	DisplayOrder int    `json:"displayOrder"`
}

func (d *QuizImportDocument) passingScore() float64 {
	if d.PassingScore == nil {
		return 70.0
	}
	return *d.PassingScore
}

func (d *QuizImportDocument) active() bool {
	if d.IsActive == nil {
		return true
	}
	return *d.IsActive
}

func (q *QuestionImport) pointValue() float64 {
	if q.Points == nil {
		return 1.0
	}
	return *q.Points
}

type ImportResult struct {
	Success           bool     `json:"success"`
	QuizID            uint     `json:"quiz_id,omitempty"`
	QuestionsImported int      `json:"questions_imported"`
	Message           string   `json:"message,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
	Errors            []string `json:"errors,omitempty"`
}

// ValidateImport checks a candidate document for structural and semantic
// correctness. All violations are collected; nothing is persisted here. An
// empty result means the document is importable.
func ValidateImport(doc *QuizImportDocument) []string {
	var errs []string

	if doc == nil {
		return []string{"import document is required"}
	}

	if isBlank(doc.Title) {
		errs = append(errs, "quiz title is required")
	}

	if ps := doc.passingScore(); ps < 0 || ps > 100 {
		errs = append(errs, "passing score must be between 0 and 100")
	}

	if len(doc.Questions) == 0 {
		errs = append(errs, "quiz must have at least one question")
		return errs
	}

	for _, q := range doc.Questions {
		if isBlank(q.QuestionText) {
			errs = append(errs, fmt.Sprintf("question at display order %d has no text", q.DisplayOrder))
		}

		qType, ok := ParseQuestionType(q.QuestionType)
		if !ok {
			errs = append(errs, fmt.Sprintf("invalid question type %q for question: %s", q.QuestionType, q.QuestionText))
			// An unresolvable type only blocks this question's remaining
			// checks, not the rest of the document.
			continue
		}

		// TrueFalse is expected to carry exactly two options; a mismatch is
		// advisory only and does not block the import.

		if qType == ShortAnswer {
			// No options and no correct answer required.
			continue
		}

		if len(q.AnswerOptions) == 0 {
			errs = append(errs, fmt.Sprintf("question %q has no answer options", q.QuestionText))
		}

		hasCorrect := false
		for _, opt := range q.AnswerOptions {
			if opt.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			errs = append(errs, fmt.Sprintf("question %q has no correct answer marked", q.QuestionText))
		}
	}

	return errs
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
