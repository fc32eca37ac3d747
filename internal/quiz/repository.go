package quiz

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	FindQuiz(id uint) (*Quiz, error)
	FindQuizWithQuestions(id uint) (*Quiz, error)
	ListQuizzes(category string, activeOnly bool) ([]*Quiz, error)
	CreateQuiz(q *Quiz) error
	SaveQuiz(q *Quiz) error
	DeleteQuiz(id uint) error

	FindQuestion(id uint) (*Question, error)
	FindQuestionWithOptions(id uint) (*Question, error)
	QuestionsByQuiz(quizID uint) ([]*Question, error)
	MaxOrderIndex(quizID uint) (int, error)

	CreateAttempt(a *QuizAttempt) error
	FindAttempt(id uint) (*QuizAttempt, error)
	ActiveAttempt(quizID uint, userID string) (*QuizAttempt, error)
	SaveAttempt(a *QuizAttempt) error

	FindResponse(attemptID, questionID uint) (*UserResponse, error)
	ResponsesByAttempt(attemptID uint) ([]*UserResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindQuiz(id uint) (*Quiz, error) {
	var q Quiz
	if err := r.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) FindQuizWithQuestions(id uint) (*Quiz, error) {
	var q Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		Preload("Questions.AnswerOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		First(&q, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) ListQuizzes(category string, activeOnly bool) ([]*Quiz, error) {
	query := r.db.Preload("Questions")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var quizzes []*Quiz
	if err := query.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *repository) CreateQuiz(q *Quiz) error {
	return r.db.Create(q).Error
}

func (r *repository) SaveQuiz(q *Quiz) error {
	return r.db.Save(q).Error
}

func (r *repository) DeleteQuiz(id uint) error {
	return r.db.Delete(&Quiz{}, "id = ?", id).Error
}

func (r *repository) FindQuestion(id uint) (*Question, error) {
	var q Question
	if err := r.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) FindQuestionWithOptions(id uint) (*Question, error) {
	var q Question
	err := r.db.
		Preload("AnswerOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		First(&q, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) QuestionsByQuiz(quizID uint) ([]*Question, error) {
	var questions []*Question
	err := r.db.
		Preload("AnswerOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		Where("quiz_id = ?", quizID).
		Order("order_index ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *repository) MaxOrderIndex(quizID uint) (int, error) {
	var max *int
	err := r.db.Model(&Question{}).
		Where("quiz_id = ?", quizID).
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

func (r *repository) CreateAttempt(a *QuizAttempt) error {
	return r.db.Create(a).Error
}

func (r *repository) FindAttempt(id uint) (*QuizAttempt, error) {
	var a QuizAttempt
	if err := r.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) ActiveAttempt(quizID uint, userID string) (*QuizAttempt, error) {
	var a QuizAttempt
	err := r.db.
		Where("quiz_id = ? AND user_id = ? AND is_completed = ?", quizID, userID, false).
		Order("started_at DESC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) SaveAttempt(a *QuizAttempt) error {
	return r.db.Save(a).Error
}

func (r *repository) FindResponse(attemptID, questionID uint) (*UserResponse, error) {
	var resp UserResponse
	err := r.db.
		Preload("SelectedAnswers").
		Where("quiz_attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&resp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resp, nil
}

func (r *repository) ResponsesByAttempt(attemptID uint) ([]*UserResponse, error) {
	var responses []*UserResponse
	err := r.db.
		Preload("SelectedAnswers").
		Where("quiz_attempt_id = ?", attemptID).
		Order("id ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}
