package user

import (
	"time"

	"github.com/google/uuid"
)

type RegisterDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// QuizPerformance aggregates a learner's completed attempts.
type QuizPerformance struct {
	TotalAttempts   int     `json:"total_attempts"`
	QuizzesPassed   int     `json:"quizzes_passed"`
	AverageScore    float64 `json:"average_score"`
	BestScore       float64 `json:"best_score"`
	DistinctQuizzes int     `json:"distinct_quizzes"`
}

type CategoryPerformance struct {
	Category     string  `json:"category"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
}

type LeaderboardEntry struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`
}
