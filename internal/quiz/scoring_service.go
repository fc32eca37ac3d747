package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/qbacid/DentorAcademy/internal/config"
	"gorm.io/gorm"
)

// ScoringService evaluates per-question correctness and aggregates the final
// score and pass decision for an attempt.
type ScoringService interface {
	EvaluateResponse(ctx context.Context, questionID uint, selectedOptionIDs []uint) (bool, error)
	FinalScore(ctx context.Context, attemptID uint) (*QuizAttempt, error)
	AttemptResults(ctx context.Context, attemptID uint) (*AttemptResult, error)
}

type scoringService struct {
	db   *gorm.DB
	repo Repository
}

func NewScoringService(db *gorm.DB, repo Repository) ScoringService {
	return &scoringService{db: db, repo: repo}
}

// EvaluateResponse applies the exact-set-match rule: the submitted option set
// must equal the question's correct set, order-independent, with no partial
// credit. A single-answer question is simply a correct set of size one.
func (s *scoringService) EvaluateResponse(ctx context.Context, questionID uint, selectedOptionIDs []uint) (bool, error) {
	question, err := s.repo.FindQuestionWithOptions(questionID)
	if err != nil {
		return false, err
	}
	if question == nil {
		return false, ErrQuestionNotFound
	}

	correct := make(map[uint]bool)
	for _, opt := range question.AnswerOptions {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}

	selected := make(map[uint]bool)
	for _, id := range selectedOptionIDs {
		selected[id] = true
	}

	if len(selected) != len(correct) {
		return false, nil
	}
	for id := range selected {
		if !correct[id] {
			return false, nil
		}
	}
	return true, nil
}

// FinalScore recomputes the attempt's score from the full set of persisted
// responses in a single read-then-write transaction and marks the attempt
// completed. Safe to re-run: score fields are overwritten, but the first
// completion timestamp is kept authoritative.
func (s *scoringService) FinalScore(ctx context.Context, attemptID uint) (*QuizAttempt, error) {
	log := config.WithContext(ctx)

	var attempt QuizAttempt
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&attempt, "id = ?", attemptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttemptNotFound
			}
			return err
		}

		var q Quiz
		if err := tx.First(&q, "id = ?", attempt.QuizID).Error; err != nil {
			return err
		}

		var responses []UserResponse
		if err := tx.Where("quiz_attempt_id = ?", attempt.ID).Find(&responses).Error; err != nil {
			return err
		}

		questions, err := questionsForResponses(tx, responses)
		if err != nil {
			return err
		}

		var totalEarned, totalPossible float64
		for _, resp := range responses {
			question, ok := questions[resp.QuestionID]
			if !ok || !question.QuestionType.Gradable() {
				// Short-answer responses never contribute to the numeric
				// score; they exist for human review only.
				continue
			}
			totalEarned += resp.PointsEarned
			totalPossible += question.Points
		}

		// An attempt with zero gradable questions scores 0, not 100.
		score := 0.0
		if totalPossible > 0 {
			score = totalEarned / totalPossible * 100
		}
		passed := score >= q.PassingScore

		attempt.TotalPointsEarned = &totalEarned
		attempt.TotalPointsPossible = &totalPossible
		attempt.Score = &score
		attempt.Passed = &passed
		if !attempt.IsCompleted {
			now := time.Now().UTC()
			attempt.CompletedAt = &now
			attempt.IsCompleted = true
		}

		return tx.Save(&attempt).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithField("attempt_id", attempt.ID).Info("Attempt finalized")
	return &attempt, nil
}

// AttemptResults builds the per-question review breakdown from persisted
// state. It reflects exactly the correctness flags written by FinalScore.
func (s *scoringService) AttemptResults(ctx context.Context, attemptID uint) (*AttemptResult, error) {
	attempt, err := s.repo.FindAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrAttemptNotFound
	}

	q, err := s.repo.FindQuiz(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	responses, err := s.repo.ResponsesByAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	result := &AttemptResult{
		QuizAttemptID: attempt.ID,
		StartedAt:     attempt.StartedAt,
		CompletedAt:   attempt.CompletedAt,
	}
	if q != nil {
		result.QuizTitle = q.Title
	}
	if attempt.Score != nil {
		result.Score = *attempt.Score
	}
	if attempt.TotalPointsEarned != nil {
		result.TotalPointsEarned = *attempt.TotalPointsEarned
	}
	if attempt.TotalPointsPossible != nil {
		result.TotalPointsPossible = *attempt.TotalPointsPossible
	}
	if attempt.Passed != nil {
		result.Passed = *attempt.Passed
	}

	for _, resp := range responses {
		question, err := s.repo.FindQuestionWithOptions(resp.QuestionID)
		if err != nil {
			return nil, err
		}
		if question == nil {
			continue
		}

		selected := make([]uint, 0, len(resp.SelectedAnswers))
		for _, sel := range resp.SelectedAnswers {
			selected = append(selected, sel.AnswerOptionID)
		}
		correct := make([]uint, 0)
		for _, opt := range question.AnswerOptions {
			if opt.IsCorrect {
				correct = append(correct, opt.ID)
			}
		}

		result.QuestionResults = append(result.QuestionResults, QuestionResult{
			QuestionID:        question.ID,
			QuestionText:      question.QuestionText,
			QuestionType:      question.QuestionType,
			IsCorrect:         resp.IsCorrect,
			PointsEarned:      resp.PointsEarned,
			PointsPossible:    question.Points,
			SelectedAnswerIDs: selected,
			CorrectAnswerIDs:  correct,
			Explanation:       question.Explanation,
			TextAnswer:        resp.TextAnswer,
		})
	}

	return result, nil
}

func questionsForResponses(tx *gorm.DB, responses []UserResponse) (map[uint]*Question, error) {
	out := make(map[uint]*Question, len(responses))
	if len(responses) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(responses))
	for _, resp := range responses {
		ids = append(ids, resp.QuestionID)
	}

	var questions []*Question
	if err := tx.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	for _, q := range questions {
		out[q.ID] = q
	}
	return out, nil
}
