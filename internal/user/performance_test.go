package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/qbacid/DentorAcademy/internal/quiz"
	"github.com/qbacid/DentorAcademy/internal/user"
	"gorm.io/gorm"
)

func seedAttempt(t *testing.T, db *gorm.DB, quizID uint, userID string, score float64, passed bool) {
	t.Helper()
	now := time.Now().UTC()
	attempt := &quiz.QuizAttempt{
		QuizID:      quizID,
		UserID:      userID,
		StartedAt:   now,
		CompletedAt: &now,
		IsCompleted: true,
		Score:       &score,
		Passed:      &passed,
	}
	if err := db.Create(attempt).Error; err != nil {
		t.Fatalf("failed to seed attempt: %v", err)
	}
}

func seedCategoryQuiz(t *testing.T, db *gorm.DB, title, category string) uint {
	t.Helper()
	q := &quiz.Quiz{Title: title, Category: &category, PassingScore: 70, IsActive: true}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("failed to seed quiz: %v", err)
	}
	return q.ID
}

func TestPerformance(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, append(user.Entities(), quiz.Entities()...)...)
	svc := user.NewPerformanceService(db)

	endoID := seedCategoryQuiz(t, db, "Endo Basics", "Endodontics")
	perioID := seedCategoryQuiz(t, db, "Perio Basics", "Periodontics")

	seedAttempt(t, db, endoID, "student-1", 80, true)
	seedAttempt(t, db, endoID, "student-1", 60, false)
	seedAttempt(t, db, perioID, "student-1", 100, true)
	// In-progress attempt must be invisible.
	if err := db.Create(&quiz.QuizAttempt{QuizID: endoID, UserID: "student-1", StartedAt: time.Now().UTC()}).Error; err != nil {
		t.Fatalf("failed to seed open attempt: %v", err)
	}
	seedAttempt(t, db, endoID, "student-2", 90, true)

	perf, err := svc.Performance(ctx, "student-1")
	if err != nil {
		t.Fatalf("Performance returned error: %v", err)
	}
	if perf.TotalAttempts != 3 {
		t.Errorf("TotalAttempts = %d, want 3", perf.TotalAttempts)
	}
	if perf.QuizzesPassed != 2 {
		t.Errorf("QuizzesPassed = %d, want 2", perf.QuizzesPassed)
	}
	if perf.AverageScore != 80 {
		t.Errorf("AverageScore = %v, want 80", perf.AverageScore)
	}
	if perf.BestScore != 100 {
		t.Errorf("BestScore = %v, want 100", perf.BestScore)
	}
	if perf.DistinctQuizzes != 2 {
		t.Errorf("DistinctQuizzes = %d, want 2", perf.DistinctQuizzes)
	}
}

func TestPerformanceWithNoAttempts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, append(user.Entities(), quiz.Entities()...)...)
	svc := user.NewPerformanceService(db)

	perf, err := svc.Performance(ctx, "nobody")
	if err != nil {
		t.Fatalf("Performance returned error: %v", err)
	}
	if perf.TotalAttempts != 0 || perf.AverageScore != 0 || perf.BestScore != 0 {
		t.Errorf("expected zeroed performance, got %+v", perf)
	}
}

func TestPerformanceByCategory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, append(user.Entities(), quiz.Entities()...)...)
	svc := user.NewPerformanceService(db)

	endoID := seedCategoryQuiz(t, db, "Endo Basics", "Endodontics")
	perioID := seedCategoryQuiz(t, db, "Perio Basics", "Periodontics")

	seedAttempt(t, db, endoID, "student-1", 70, true)
	seedAttempt(t, db, endoID, "student-1", 90, true)
	seedAttempt(t, db, perioID, "student-1", 50, false)

	rows, err := svc.ByCategory(ctx, "student-1")
	if err != nil {
		t.Fatalf("ByCategory returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d categories, want 2", len(rows))
	}
	// Ordered by average score, best first.
	if rows[0].Category != "Endodontics" || rows[0].AverageScore != 80 || rows[0].Attempts != 2 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Category != "Periodontics" || rows[1].AverageScore != 50 {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestTopPerformers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, append(user.Entities(), quiz.Entities()...)...)
	svc := user.NewPerformanceService(db)

	quizID := seedCategoryQuiz(t, db, "Endo Basics", "Endodontics")
	seedAttempt(t, db, quizID, "student-1", 60, false)
	seedAttempt(t, db, quizID, "student-2", 95, true)
	seedAttempt(t, db, quizID, "student-3", 80, true)

	rows, err := svc.TopPerformers(ctx, 2)
	if err != nil {
		t.Fatalf("TopPerformers returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].UserID != "student-2" || rows[1].UserID != "student-3" {
		t.Errorf("unexpected ranking: %+v", rows)
	}
}
