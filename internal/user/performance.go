package user

import (
	"context"

	"github.com/qbacid/DentorAcademy/internal/quiz"
	"gorm.io/gorm"
)

// PerformanceService aggregates completed quiz attempts into learner-facing
// statistics. Only completed attempts count; in-progress ones are invisible
// here.
type PerformanceService interface {
	Performance(ctx context.Context, userID string) (*QuizPerformance, error)
	ByCategory(ctx context.Context, userID string) ([]CategoryPerformance, error)
	TopPerformers(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type performanceService struct {
	db *gorm.DB
}

func NewPerformanceService(db *gorm.DB) PerformanceService {
	return &performanceService{db: db}
}

func (s *performanceService) Performance(ctx context.Context, userID string) (*QuizPerformance, error) {
	var row struct {
		TotalAttempts   int
		QuizzesPassed   *int
		AverageScore    *float64
		BestScore       *float64
		DistinctQuizzes int
	}

	err := s.db.Model(&quiz.QuizAttempt{}).
		Select(`COUNT(*) AS total_attempts,
			SUM(CASE WHEN passed THEN 1 ELSE 0 END) AS quizzes_passed,
			AVG(score) AS average_score,
			MAX(score) AS best_score,
			COUNT(DISTINCT quiz_id) AS distinct_quizzes`).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	perf := &QuizPerformance{
		TotalAttempts:   row.TotalAttempts,
		DistinctQuizzes: row.DistinctQuizzes,
	}
	if row.QuizzesPassed != nil {
		perf.QuizzesPassed = *row.QuizzesPassed
	}
	if row.AverageScore != nil {
		perf.AverageScore = *row.AverageScore
	}
	if row.BestScore != nil {
		perf.BestScore = *row.BestScore
	}
	return perf, nil
}

func (s *performanceService) ByCategory(ctx context.Context, userID string) ([]CategoryPerformance, error) {
	var rows []CategoryPerformance
	err := s.db.Model(&quiz.QuizAttempt{}).
		Select(`quizzes.category AS category,
			COUNT(*) AS attempts,
			AVG(quiz_attempts.score) AS average_score`).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.user_id = ? AND quiz_attempts.is_completed = ? AND quizzes.category IS NOT NULL", userID, true).
		Group("quizzes.category").
		Order("average_score DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *performanceService) TopPerformers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []LeaderboardEntry
	err := s.db.Model(&quiz.QuizAttempt{}).
		Select(`quiz_attempts.user_id AS user_id,
			users.name AS name,
			COUNT(*) AS attempts,
			AVG(quiz_attempts.score) AS average_score`).
		Joins("LEFT JOIN users ON users.id = quiz_attempts.user_id").
		Where("quiz_attempts.is_completed = ?", true).
		Group("quiz_attempts.user_id, users.name").
		Order("average_score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
