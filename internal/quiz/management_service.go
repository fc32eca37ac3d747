package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/qbacid/DentorAcademy/internal/config"
	"gorm.io/gorm"
)

var (
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrNoCorrectOption     = errors.New("question must have at least one option marked correct")
	ErrQuizHasAttempts     = errors.New("quiz has recorded attempts and cannot be deleted")
)

// ManagementService covers manual authoring: quiz and question CRUD plus
// question reordering. Bulk creation goes through ImportService instead.
type ManagementService interface {
	ListQuizzes(ctx context.Context, category string) ([]*Quiz, error)
	GetQuiz(ctx context.Context, id uint) (*Quiz, error)
	CreateQuiz(ctx context.Context, dto QuizUpdate) (*Quiz, error)
	UpdateQuiz(ctx context.Context, id uint, dto QuizUpdate) (*Quiz, error)
	DeleteQuiz(ctx context.Context, id uint) error
	CreateQuestion(ctx context.Context, quizID uint, dto QuestionUpdate) (*Question, error)
	UpdateQuestion(ctx context.Context, questionID uint, dto QuestionUpdate) (*Question, error)
	DeleteQuestion(ctx context.Context, questionID uint) error
	ReorderQuestions(ctx context.Context, quizID uint, orderedIDs []uint) error
}

type managementService struct {
	db   *gorm.DB
	repo Repository
}

func NewManagementService(db *gorm.DB, repo Repository) ManagementService {
	return &managementService{db: db, repo: repo}
}

func (s *managementService) ListQuizzes(ctx context.Context, category string) ([]*Quiz, error) {
	return s.repo.ListQuizzes(category, false)
}

func (s *managementService) GetQuiz(ctx context.Context, id uint) (*Quiz, error) {
	q, err := s.repo.FindQuizWithQuestions(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuizNotFound
	}
	return q, nil
}

func (s *managementService) CreateQuiz(ctx context.Context, dto QuizUpdate) (*Quiz, error) {
	log := config.WithContext(ctx)

	now := time.Now().UTC()
	q := &Quiz{
		Title:            dto.Title,
		Description:      dto.Description,
		Category:         dto.Category,
		PassingScore:     dto.PassingScore,
		TimeLimitMinutes: dto.TimeLimitMinutes,
		IsActive:         dto.IsActive,
		CourseID:         dto.CourseID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.CreateQuiz(q); err != nil {
		log.WithError(err).Error("Failed to create quiz")
		return nil, err
	}

	log.WithField("quiz_id", q.ID).Info("Quiz created")
	return q, nil
}

func (s *managementService) UpdateQuiz(ctx context.Context, id uint, dto QuizUpdate) (*Quiz, error) {
	q, err := s.repo.FindQuiz(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuizNotFound
	}

	q.Title = dto.Title
	q.Description = dto.Description
	q.Category = dto.Category
	q.PassingScore = dto.PassingScore
	q.TimeLimitMinutes = dto.TimeLimitMinutes
	q.IsActive = dto.IsActive
	q.CourseID = dto.CourseID
	q.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveQuiz(q); err != nil {
		return nil, err
	}
	return q, nil
}

// DeleteQuiz removes a quiz and, by cascade, its questions and options.
// Quizzes with recorded attempts are refused: attempt history must survive.
func (s *managementService) DeleteQuiz(ctx context.Context, id uint) error {
	log := config.WithContext(ctx)

	q, err := s.repo.FindQuiz(id)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuizNotFound
	}

	var attempts int64
	if err := s.db.Model(&QuizAttempt{}).Where("quiz_id = ?", id).Count(&attempts).Error; err != nil {
		return err
	}
	if attempts > 0 {
		return ErrQuizHasAttempts
	}

	if err := s.repo.DeleteQuiz(id); err != nil {
		log.WithError(err).Error("Failed to delete quiz")
		return err
	}

	log.WithField("quiz_id", id).Info("Quiz deleted")
	return nil
}

func (s *managementService) CreateQuestion(ctx context.Context, quizID uint, dto QuestionUpdate) (*Question, error) {
	q, err := s.repo.FindQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuizNotFound
	}

	qType, ok := ParseQuestionType(dto.QuestionType)
	if !ok {
		return nil, ErrInvalidQuestionType
	}
	if err := validateOptions(qType, dto.AnswerOptions); err != nil {
		return nil, err
	}

	maxOrder, err := s.repo.MaxOrderIndex(quizID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	question := &Question{
		QuizID:              quizID,
		QuestionText:        dto.QuestionText,
		QuestionType:        qType,
		Explanation:         dto.Explanation,
		ExplanationImageURL: dto.ExplanationImageURL,
		Points:              dto.Points,
		OrderIndex:          maxOrder + 1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		if qType == ShortAnswer {
			return nil
		}
		return createOptions(tx, question.ID, dto.AnswerOptions, now)
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion replaces the question's fields and its full option set
// atomically.
func (s *managementService) UpdateQuestion(ctx context.Context, questionID uint, dto QuestionUpdate) (*Question, error) {
	question, err := s.repo.FindQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	qType, ok := ParseQuestionType(dto.QuestionType)
	if !ok {
		return nil, ErrInvalidQuestionType
	}
	if err := validateOptions(qType, dto.AnswerOptions); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	question.QuestionText = dto.QuestionText
	question.QuestionType = qType
	question.Explanation = dto.Explanation
	question.ExplanationImageURL = dto.ExplanationImageURL
	question.Points = dto.Points
	question.UpdatedAt = now

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&AnswerOption{}).Error; err != nil {
			return err
		}
		if qType == ShortAnswer {
			return nil
		}
		return createOptions(tx, question.ID, dto.AnswerOptions, now)
	})
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (s *managementService) DeleteQuestion(ctx context.Context, questionID uint) error {
	question, err := s.repo.FindQuestion(questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionNotFound
	}
	return s.db.Delete(&Question{}, "id = ?", questionID).Error
}

// ReorderQuestions rewrites order indexes to match the given id sequence.
// Ids not belonging to the quiz are ignored.
func (s *managementService) ReorderQuestions(ctx context.Context, quizID uint, orderedIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			err := tx.Model(&Question{}).
				Where("id = ? AND quiz_id = ?", id, quizID).
				Updates(map[string]interface{}{"order_index": i, "updated_at": time.Now().UTC()}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// validateOptions mirrors the import rules: every gradable kind needs at
// least one option marked correct. Short answers carry no options at all.
func validateOptions(qType QuestionType, options []OptionUpdate) error {
	if qType == ShortAnswer {
		return nil
	}
	for _, od := range options {
		if od.IsCorrect {
			return nil
		}
	}
	return ErrNoCorrectOption
}

func createOptions(tx *gorm.DB, questionID uint, options []OptionUpdate, now time.Time) error {
	for _, od := range options {
		opt := AnswerOption{
			QuestionID: questionID,
			OptionText: od.OptionText,
			IsCorrect:  od.IsCorrect,
			OrderIndex: od.DisplayOrder,
			CreatedAt:  now,
		}
		if err := tx.Create(&opt).Error; err != nil {
			return err
		}
	}
	return nil
}
