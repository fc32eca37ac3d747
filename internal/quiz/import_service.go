package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/qbacid/DentorAcademy/internal/config"
	"github.com/qbacid/DentorAcademy/internal/storage"
	"gorm.io/gorm"
)

// ImportService persists a validated quiz document as one atomic unit.
type ImportService interface {
	ImportFromJSON(ctx context.Context, data []byte) *ImportResult
	Import(ctx context.Context, doc *QuizImportDocument) *ImportResult
}

type importService struct {
	db     *gorm.DB
	runner storage.TxRunner
}

func NewImportService(db *gorm.DB, runner storage.TxRunner) ImportService {
	return &importService{db: db, runner: runner}
}

func (s *importService) ImportFromJSON(ctx context.Context, data []byte) *ImportResult {
	log := config.WithContext(ctx)

	var doc QuizImportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		log.WithError(err).Error("Failed to parse quiz import document")
		return &ImportResult{Errors: []string{fmt.Sprintf("JSON parsing error: %v", err)}}
	}

	return s.Import(ctx, &doc)
}

func (s *importService) Import(ctx context.Context, doc *QuizImportDocument) *ImportResult {
	log := config.WithContext(ctx)
	result := &ImportResult{}

	if errs := ValidateImport(doc); len(errs) > 0 {
		result.Errors = errs
		return result
	}

	var quizID uint
	var warnings []string

	err := s.runner.Run(s.db, func(tx *gorm.DB) error {
		// The whole body re-executes on a transient retry; state collected
		// during a rolled-back attempt must not leak into the next one.
		quizID = 0
		warnings = nil

		now := time.Now().UTC()
		q := Quiz{
			Title:            doc.Title,
			Description:      doc.Description,
			Category:         doc.Category,
			PassingScore:     doc.passingScore(),
			TimeLimitMinutes: doc.TimeLimitMinutes,
			IsActive:         doc.active(),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Create(&q).Error; err != nil {
			return err
		}

		for _, qd := range doc.Questions {
			qType, ok := ParseQuestionType(qd.QuestionType)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("invalid question type %q for question: %s", qd.QuestionType, qd.QuestionText))
				continue
			}

			question := Question{
				QuizID:              q.ID,
				QuestionText:        qd.QuestionText,
				QuestionType:        qType,
				Explanation:         qd.Explanation,
				ExplanationImageURL: qd.ExplanationImageURL,
				Points:              qd.pointValue(),
				OrderIndex:          qd.DisplayOrder,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}

			if qType == ShortAnswer {
				// Options on short-answer questions are ignored by scoring
				// and never persisted.
				continue
			}

			for _, od := range qd.AnswerOptions {
				option := AnswerOption{
					QuestionID: question.ID,
					OptionText: od.OptionText,
					IsCorrect:  od.IsCorrect,
					OrderIndex: od.DisplayOrder,
					CreatedAt:  now,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}

		quizID = q.ID
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Quiz import transaction failed")
		result.Errors = append(result.Errors, fmt.Sprintf("database error: %v", err))
		return result
	}

	result.Success = true
	result.QuizID = quizID
	result.QuestionsImported = len(doc.Questions)
	result.Warnings = warnings
	result.Message = fmt.Sprintf("Successfully imported quiz %q with %d questions", doc.Title, result.QuestionsImported)

	log.WithField("quiz_id", quizID).Info("Quiz imported successfully")
	return result
}
