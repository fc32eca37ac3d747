package quiz_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/qbacid/DentorAcademy/internal/quiz"
	"gorm.io/gorm"
)

func newTakingService(t *testing.T) (quiz.TakingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := quiz.NewRepository(db)
	scoring := quiz.NewScoringService(db, repo)
	return quiz.NewTakingService(db, repo, scoring), db
}

func TestStartQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("QuizNotFound", func(t *testing.T) {
		svc, _ := newTakingService(t)
		if _, err := svc.StartQuiz(ctx, 999, "user-1"); !errors.Is(err, quiz.ErrQuizNotFound) {
			t.Errorf("expected ErrQuizNotFound, got %v", err)
		}
	})

	t.Run("InactiveQuiz", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, _, _ := seedQuiz(t, db)
		if err := db.Model(q).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate quiz: %v", err)
		}
		if _, err := svc.StartQuiz(ctx, q.ID, "user-1"); !errors.Is(err, quiz.ErrQuizNotFound) {
			t.Errorf("expected ErrQuizNotFound for inactive quiz, got %v", err)
		}
	})

	t.Run("CreatesAttempt", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, _, _ := seedQuiz(t, db)

		attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}
		if attempt.ID == 0 {
			t.Error("expected persisted attempt with id")
		}
		if attempt.IsCompleted {
			t.Error("new attempt must not be completed")
		}
		if attempt.StartedAt.IsZero() {
			t.Error("expected StartedAt to be set")
		}
	})

	t.Run("ReturnsExistingOpenAttempt", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, _, _ := seedQuiz(t, db)

		first, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("first StartQuiz returned error: %v", err)
		}
		second, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("second StartQuiz returned error: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("expected same attempt, got %d and %d", first.ID, second.ID)
		}
		if n := countRows(t, db, &quiz.QuizAttempt{}); n != 1 {
			t.Errorf("expected 1 attempt row, found %d", n)
		}
	})

	t.Run("NewAttemptAfterCompletion", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, _, _ := seedQuiz(t, db)

		first, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}
		if _, err := svc.CompleteQuiz(ctx, first.ID); err != nil {
			t.Fatalf("CompleteQuiz returned error: %v", err)
		}

		second, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz after completion returned error: %v", err)
		}
		if first.ID == second.ID {
			t.Error("expected a fresh attempt after completing the first")
		}
	})

	t.Run("AttemptsAreScopedPerUser", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, _, _ := seedQuiz(t, db)

		a, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}
		b, err := svc.StartQuiz(ctx, q.ID, "user-2")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}
		if a.ID == b.ID {
			t.Error("different learners must get different attempts")
		}
	})
}

func TestSubmitAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("AttemptNotFound", func(t *testing.T) {
		svc, _ := newTakingService(t)
		err := svc.SubmitAnswer(ctx, 999, 1, nil, "")
		if !errors.Is(err, quiz.ErrAttemptNotFound) {
			t.Errorf("expected ErrAttemptNotFound, got %v", err)
		}
	})

	t.Run("QuestionNotFound", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, _, _ := seedQuiz(t, db)
		attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}

		err = svc.SubmitAnswer(ctx, attempt.ID, 999, nil, "")
		if !errors.Is(err, quiz.ErrQuestionNotFound) {
			t.Errorf("expected ErrQuestionNotFound, got %v", err)
		}
	})

	t.Run("CompletedAttemptRejected", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, question, options := seedQuiz(t, db)
		attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}
		if _, err := svc.CompleteQuiz(ctx, attempt.ID); err != nil {
			t.Fatalf("CompleteQuiz returned error: %v", err)
		}

		err = svc.SubmitAnswer(ctx, attempt.ID, question.ID, []uint{options[1].ID}, "")
		if !errors.Is(err, quiz.ErrAttemptCompleted) {
			t.Errorf("expected ErrAttemptCompleted, got %v", err)
		}
		if n := countRows(t, db, &quiz.UserResponse{}); n != 0 {
			t.Errorf("completed attempt must not record answers, found %d responses", n)
		}
	})

	t.Run("RecordsCorrectAnswer", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, question, options := seedQuiz(t, db)
		attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}

		if err := svc.SubmitAnswer(ctx, attempt.ID, question.ID, []uint{options[1].ID}, ""); err != nil {
			t.Fatalf("SubmitAnswer returned error: %v", err)
		}

		var resp quiz.UserResponse
		if err := db.Preload("SelectedAnswers").First(&resp, "quiz_attempt_id = ?", attempt.ID).Error; err != nil {
			t.Fatalf("failed to load response: %v", err)
		}
		if !resp.IsCorrect {
			t.Error("expected response marked correct")
		}
		if resp.PointsEarned != question.Points {
			t.Errorf("PointsEarned = %v, want %v", resp.PointsEarned, question.Points)
		}
		if len(resp.SelectedAnswers) != 1 || resp.SelectedAnswers[0].AnswerOptionID != options[1].ID {
			t.Errorf("unexpected selections: %+v", resp.SelectedAnswers)
		}
		if resp.AnsweredAt.IsZero() {
			t.Error("expected AnsweredAt to be set")
		}
	})

	t.Run("ResubmissionReplacesSelections", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, question, options := seedQuiz(t, db)
		attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}

		if err := svc.SubmitAnswer(ctx, attempt.ID, question.ID, []uint{options[0].ID}, ""); err != nil {
			t.Fatalf("first SubmitAnswer returned error: %v", err)
		}
		if err := svc.SubmitAnswer(ctx, attempt.ID, question.ID, []uint{options[1].ID}, ""); err != nil {
			t.Fatalf("second SubmitAnswer returned error: %v", err)
		}

		if n := countRows(t, db, &quiz.UserResponse{}); n != 1 {
			t.Fatalf("expected a single response row, found %d", n)
		}
		var selections []quiz.UserResponseAnswer
		if err := db.Find(&selections).Error; err != nil {
			t.Fatalf("failed to load selections: %v", err)
		}
		if len(selections) != 1 {
			t.Fatalf("expected stale selections removed, found %d rows", len(selections))
		}
		if selections[0].AnswerOptionID != options[1].ID {
			t.Errorf("surviving selection = option %d, want %d", selections[0].AnswerOptionID, options[1].ID)
		}

		var resp quiz.UserResponse
		if err := db.First(&resp, "quiz_attempt_id = ?", attempt.ID).Error; err != nil {
			t.Fatalf("failed to load response: %v", err)
		}
		if !resp.IsCorrect {
			t.Error("expected resubmission to be regraded as correct")
		}
	})

	t.Run("ShortAnswerIgnoresOptions", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, _, options := seedQuiz(t, db)
		question, _ := addQuestion(t, db, q.ID, quiz.ShortAnswer, 5, 2, nil)
		attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}

		if err := svc.SubmitAnswer(ctx, attempt.ID, question.ID, []uint{options[0].ID}, "  occlusal adjustment  "); err != nil {
			t.Fatalf("SubmitAnswer returned error: %v", err)
		}

		var resp quiz.UserResponse
		if err := db.Preload("SelectedAnswers").First(&resp, "question_id = ?", question.ID).Error; err != nil {
			t.Fatalf("failed to load response: %v", err)
		}
		if resp.IsCorrect || resp.PointsEarned != 0 {
			t.Errorf("short answers must not be auto-graded: correct=%v points=%v", resp.IsCorrect, resp.PointsEarned)
		}
		if len(resp.SelectedAnswers) != 0 {
			t.Errorf("expected no selections for short answer, found %d", len(resp.SelectedAnswers))
		}
		if resp.TextAnswer == nil || *resp.TextAnswer != "occlusal adjustment" {
			t.Errorf("TextAnswer = %v, want trimmed text", resp.TextAnswer)
		}
	})

	t.Run("TextAnswerNormalization", func(t *testing.T) {
		svc, db := newTakingService(t)
		q, _, _ := seedQuiz(t, db)
		question, _ := addQuestion(t, db, q.ID, quiz.ShortAnswer, 1, 2, nil)
		attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
		if err != nil {
			t.Fatalf("StartQuiz returned error: %v", err)
		}

		if err := svc.SubmitAnswer(ctx, attempt.ID, question.ID, nil, "   "); err != nil {
			t.Fatalf("SubmitAnswer returned error: %v", err)
		}
		var resp quiz.UserResponse
		if err := db.First(&resp, "question_id = ?", question.ID).Error; err != nil {
			t.Fatalf("failed to load response: %v", err)
		}
		if resp.TextAnswer != nil {
			t.Errorf("whitespace-only answer should store nil, got %q", *resp.TextAnswer)
		}

		long := strings.Repeat("a", 600)
		if err := svc.SubmitAnswer(ctx, attempt.ID, question.ID, nil, long); err != nil {
			t.Fatalf("SubmitAnswer returned error: %v", err)
		}
		if err := db.First(&resp, "question_id = ?", question.ID).Error; err != nil {
			t.Fatalf("failed to reload response: %v", err)
		}
		if resp.TextAnswer == nil || len(*resp.TextAnswer) != 500 {
			t.Errorf("expected text answer capped at 500 chars, got %d", len(derefString(resp.TextAnswer)))
		}

		// The cap counts characters, not bytes: a 600-rune accented answer
		// keeps 500 runes and stays valid UTF-8.
		longAccented := strings.Repeat("é", 600)
		if err := svc.SubmitAnswer(ctx, attempt.ID, question.ID, nil, longAccented); err != nil {
			t.Fatalf("SubmitAnswer returned error: %v", err)
		}
		if err := db.First(&resp, "question_id = ?", question.ID).Error; err != nil {
			t.Fatalf("failed to reload response: %v", err)
		}
		stored := derefString(resp.TextAnswer)
		if got := utf8.RuneCountInString(stored); got != 500 {
			t.Errorf("expected 500 runes stored, got %d", got)
		}
		if !utf8.ValidString(stored) {
			t.Error("truncation produced invalid UTF-8")
		}
	})
}

func TestIsAttemptValid(t *testing.T) {
	ctx := context.Background()
	svc, db := newTakingService(t)
	q, _, _ := seedQuiz(t, db)

	ok, err := svc.IsAttemptValid(ctx, 999)
	if err != nil {
		t.Fatalf("IsAttemptValid returned error: %v", err)
	}
	if ok {
		t.Error("missing attempt must be invalid")
	}

	attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
	if err != nil {
		t.Fatalf("StartQuiz returned error: %v", err)
	}
	ok, err = svc.IsAttemptValid(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("IsAttemptValid returned error: %v", err)
	}
	if !ok {
		t.Error("open attempt must be valid")
	}

	if _, err := svc.CompleteQuiz(ctx, attempt.ID); err != nil {
		t.Fatalf("CompleteQuiz returned error: %v", err)
	}
	ok, err = svc.IsAttemptValid(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("IsAttemptValid returned error: %v", err)
	}
	if ok {
		t.Error("completed attempt must be invalid")
	}
}

func TestSavedAnswers(t *testing.T) {
	ctx := context.Background()
	svc, db := newTakingService(t)
	q, question, options := seedQuiz(t, db)
	checkbox, checkboxOpts := addQuestion(t, db, q.ID, quiz.MultipleCheckbox, 2, 2, []bool{true, true, false})

	attempt, err := svc.StartQuiz(ctx, q.ID, "user-1")
	if err != nil {
		t.Fatalf("StartQuiz returned error: %v", err)
	}
	if err := svc.SubmitAnswer(ctx, attempt.ID, question.ID, []uint{options[1].ID}, ""); err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	if err := svc.SubmitAnswer(ctx, attempt.ID, checkbox.ID, []uint{checkboxOpts[0].ID, checkboxOpts[1].ID}, ""); err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}

	saved, err := svc.SavedAnswers(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("SavedAnswers returned error: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 answered questions, got %d", len(saved))
	}
	if got := saved[question.ID]; len(got) != 1 || got[0] != options[1].ID {
		t.Errorf("saved[%d] = %v, want [%d]", question.ID, got, options[1].ID)
	}
	if got := saved[checkbox.ID]; len(got) != 2 {
		t.Errorf("saved[%d] = %v, want both selections", checkbox.ID, got)
	}
}

func TestQuizForTaking(t *testing.T) {
	ctx := context.Background()
	svc, db := newTakingService(t)
	q, _, _ := seedQuiz(t, db)
	addQuestion(t, db, q.ID, quiz.TrueFalse, 1, 2, []bool{true, false})

	display, err := svc.QuizForTaking(ctx, q.ID)
	if err != nil {
		t.Fatalf("QuizForTaking returned error: %v", err)
	}
	if display.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", display.TotalQuestions)
	}
	if len(display.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(display.Questions))
	}
	if display.Questions[0].OrderIndex > display.Questions[1].OrderIndex {
		t.Error("questions must be ordered by display order")
	}

	if err := db.Model(q).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate quiz: %v", err)
	}
	if _, err := svc.QuizForTaking(ctx, q.ID); !errors.Is(err, quiz.ErrQuizNotFound) {
		t.Errorf("expected ErrQuizNotFound for inactive quiz, got %v", err)
	}
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
