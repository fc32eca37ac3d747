package quiz

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/qbacid/DentorAcademy/internal/config"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAttemptCompleted = errors.New("attempt already completed")
)

// maxTextAnswerLength caps stored short answers.
const maxTextAnswerLength = 500

// TakingService drives the attempt lifecycle (start, answer, complete) for a
// learner identified by an opaque user id.
type TakingService interface {
	StartQuiz(ctx context.Context, quizID uint, userID string) (*QuizAttempt, error)
	ActiveAttempt(ctx context.Context, quizID uint, userID string) (*QuizAttempt, error)
	SubmitAnswer(ctx context.Context, attemptID, questionID uint, selectedOptionIDs []uint, textAnswer string) error
	CompleteQuiz(ctx context.Context, attemptID uint) (*QuizAttempt, error)
	IsAttemptValid(ctx context.Context, attemptID uint) (bool, error)
	AvailableQuizzes(ctx context.Context, category string) ([]QuizCard, error)
	QuizForTaking(ctx context.Context, quizID uint) (*QuizDisplay, error)
	SavedAnswers(ctx context.Context, attemptID uint) (map[uint][]uint, error)
}

type takingService struct {
	db      *gorm.DB
	repo    Repository
	scoring ScoringService
}

func NewTakingService(db *gorm.DB, repo Repository, scoring ScoringService) TakingService {
	return &takingService{db: db, repo: repo, scoring: scoring}
}

// StartQuiz is idempotent with respect to an open attempt: if the learner
// already has an incomplete attempt on this quiz, that attempt is returned
// instead of a new one.
func (s *takingService) StartQuiz(ctx context.Context, quizID uint, userID string) (*QuizAttempt, error) {
	log := config.WithContext(ctx)

	q, err := s.repo.FindQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if q == nil || !q.IsActive {
		log.WithField("quiz_id", quizID).Warn("Quiz not found or not active")
		return nil, ErrQuizNotFound
	}

	existing, err := s.repo.ActiveAttempt(quizID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	attempt := &QuizAttempt{
		QuizID:      quizID,
		UserID:      userID,
		StartedAt:   time.Now().UTC(),
		IsCompleted: false,
	}
	if err := s.repo.CreateAttempt(attempt); err != nil {
		log.WithError(err).Error("Failed to create quiz attempt")
		return nil, err
	}

	log.WithField("attempt_id", attempt.ID).Info("Quiz attempt started")
	return attempt, nil
}

// ActiveAttempt returns the most recently started incomplete attempt for the
// (quiz, learner) pair, or nil when there is none.
func (s *takingService) ActiveAttempt(ctx context.Context, quizID uint, userID string) (*QuizAttempt, error) {
	return s.repo.ActiveAttempt(quizID, userID)
}

// SubmitAnswer upserts the learner's answer for a question within an attempt.
// Each call fully replaces the prior answer: previously selected options are
// discarded before the new selection is recorded.
func (s *takingService) SubmitAnswer(ctx context.Context, attemptID, questionID uint, selectedOptionIDs []uint, textAnswer string) error {
	log := config.WithContext(ctx)

	attempt, err := s.repo.FindAttempt(attemptID)
	if err != nil {
		return err
	}
	if attempt == nil {
		return ErrAttemptNotFound
	}
	if attempt.IsCompleted {
		return ErrAttemptCompleted
	}

	question, err := s.repo.FindQuestion(questionID)
	if err != nil {
		return err
	}
	if question == nil {
		log.WithField("question_id", questionID).Warn("Question not found")
		return ErrQuestionNotFound
	}

	isCorrect := false
	if question.QuestionType.Gradable() {
		isCorrect, err = s.scoring.EvaluateResponse(ctx, questionID, selectedOptionIDs)
		if err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var resp UserResponse
		err := tx.Where("quiz_attempt_id = ? AND question_id = ?", attemptID, questionID).First(&resp).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp = UserResponse{
				QuizAttemptID: attemptID,
				QuestionID:    questionID,
				AnsweredAt:    now,
			}
			if err := tx.Create(&resp).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Where("user_response_id = ?", resp.ID).Delete(&UserResponseAnswer{}).Error; err != nil {
				return err
			}
		}

		resp.TextAnswer = normalizeTextAnswer(textAnswer)

		if question.QuestionType == ShortAnswer {
			// Option ids are ignored for short answers; they are never
			// auto-graded.
			resp.IsCorrect = false
			resp.PointsEarned = 0
		} else {
			for _, optionID := range selectedOptionIDs {
				sel := UserResponseAnswer{
					UserResponseID: resp.ID,
					AnswerOptionID: optionID,
					SelectedAt:     now,
				}
				if err := tx.Create(&sel).Error; err != nil {
					return err
				}
			}

			resp.IsCorrect = isCorrect
			if isCorrect {
				resp.PointsEarned = question.Points
			} else {
				resp.PointsEarned = 0
			}
		}

		resp.AnsweredAt = now
		return tx.Save(&resp).Error
	})
}

// CompleteQuiz finalizes the attempt through the scoring engine.
func (s *takingService) CompleteQuiz(ctx context.Context, attemptID uint) (*QuizAttempt, error) {
	return s.scoring.FinalScore(ctx, attemptID)
}

// IsAttemptValid reports whether the attempt exists and can still receive
// answers.
func (s *takingService) IsAttemptValid(ctx context.Context, attemptID uint) (bool, error) {
	attempt, err := s.repo.FindAttempt(attemptID)
	if err != nil {
		return false, err
	}
	return attempt != nil && !attempt.IsCompleted, nil
}

func (s *takingService) AvailableQuizzes(ctx context.Context, category string) ([]QuizCard, error) {
	quizzes, err := s.repo.ListQuizzes(category, true)
	if err != nil {
		return nil, err
	}

	cards := make([]QuizCard, 0, len(quizzes))
	for _, q := range quizzes {
		cards = append(cards, QuizCard{
			ID:               q.ID,
			Title:            q.Title,
			Description:      q.Description,
			Category:         q.Category,
			QuestionCount:    len(q.Questions),
			PassingScore:     q.PassingScore,
			TimeLimitMinutes: q.TimeLimitMinutes,
		})
	}
	return cards, nil
}

func (s *takingService) QuizForTaking(ctx context.Context, quizID uint) (*QuizDisplay, error) {
	q, err := s.repo.FindQuizWithQuestions(quizID)
	if err != nil {
		return nil, err
	}
	if q == nil || !q.IsActive {
		return nil, ErrQuizNotFound
	}

	display := &QuizDisplay{
		QuizID:           q.ID,
		Title:            q.Title,
		Description:      q.Description,
		Category:         q.Category,
		PassingScore:     q.PassingScore,
		TimeLimitMinutes: q.TimeLimitMinutes,
		TotalQuestions:   len(q.Questions),
	}
	for _, question := range q.Questions {
		qd := QuestionDisplay{
			QuestionID:          question.ID,
			QuestionText:        question.QuestionText,
			QuestionType:        question.QuestionType,
			Explanation:         question.Explanation,
			ExplanationImageURL: question.ExplanationImageURL,
			Points:              question.Points,
			OrderIndex:          question.OrderIndex,
		}
		for _, opt := range question.AnswerOptions {
			qd.AnswerOptions = append(qd.AnswerOptions, OptionDisplay{
				AnswerOptionID: opt.ID,
				OptionText:     opt.OptionText,
				OrderIndex:     opt.OrderIndex,
				IsCorrect:      opt.IsCorrect,
			})
		}
		display.Questions = append(display.Questions, qd)
	}
	return display, nil
}

// SavedAnswers maps each answered question to the learner's selected option
// ids, used to restore an in-progress attempt in the UI.
func (s *takingService) SavedAnswers(ctx context.Context, attemptID uint) (map[uint][]uint, error) {
	responses, err := s.repo.ResponsesByAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	saved := make(map[uint][]uint, len(responses))
	for _, resp := range responses {
		ids := make([]uint, 0, len(resp.SelectedAnswers))
		for _, sel := range resp.SelectedAnswers {
			ids = append(ids, sel.AnswerOptionID)
		}
		saved[resp.QuestionID] = ids
	}
	return saved, nil
}

func normalizeTextAnswer(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if runes := []rune(trimmed); len(runes) > maxTextAnswerLength {
		trimmed = string(runes[:maxTextAnswerLength])
	}
	return &trimmed
}
