package quiz_test

import (
	"testing"

	"github.com/qbacid/DentorAcademy/internal/quiz"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := db.AutoMigrate(quiz.Entities()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// seedQuiz creates an active quiz with one MultipleChoice question (two
// options, second correct) and returns the created rows.
func seedQuiz(t *testing.T, db *gorm.DB) (*quiz.Quiz, *quiz.Question, []quiz.AnswerOption) {
	t.Helper()

	q := &quiz.Quiz{Title: "Dental Anatomy Basics", PassingScore: 70, IsActive: true}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("failed to create quiz: %v", err)
	}

	question := &quiz.Question{
		QuizID:       q.ID,
		QuestionText: "How many permanent teeth does an adult have?",
		QuestionType: quiz.MultipleChoice,
		Points:       1,
		OrderIndex:   1,
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("failed to create question: %v", err)
	}

	options := []quiz.AnswerOption{
		{QuestionID: question.ID, OptionText: "28", IsCorrect: false, OrderIndex: 1},
		{QuestionID: question.ID, OptionText: "32", IsCorrect: true, OrderIndex: 2},
	}
	for i := range options {
		if err := db.Create(&options[i]).Error; err != nil {
			t.Fatalf("failed to create option: %v", err)
		}
	}
	return q, question, options
}

func addQuestion(t *testing.T, db *gorm.DB, quizID uint, qType quiz.QuestionType, points float64, order int, correct []bool) (*quiz.Question, []quiz.AnswerOption) {
	t.Helper()

	question := &quiz.Question{
		QuizID:       quizID,
		QuestionText: "seeded question",
		QuestionType: qType,
		Points:       points,
		OrderIndex:   order,
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("failed to create question: %v", err)
	}

	options := make([]quiz.AnswerOption, 0, len(correct))
	for i, isCorrect := range correct {
		opt := quiz.AnswerOption{
			QuestionID: question.ID,
			OptionText: "option",
			IsCorrect:  isCorrect,
			OrderIndex: i + 1,
		}
		if err := db.Create(&opt).Error; err != nil {
			t.Fatalf("failed to create option: %v", err)
		}
		options = append(options, opt)
	}
	return question, options
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
