package quiz

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/qbacid/DentorAcademy/internal/auth"
	"github.com/qbacid/DentorAcademy/internal/config"
)

var validate = validator.New()

type Handler struct {
	importer   ImportService
	taking     TakingService
	scoring    ScoringService
	management ManagementService
}

func NewHandler(importer ImportService, taking TakingService, scoring ScoringService, management ManagementService) *Handler {
	return &Handler{
		importer:   importer,
		taking:     taking,
		scoring:    scoring,
		management: management,
	}
}

// Import accepts a raw JSON quiz document and returns the structured import
// result. Validation failures are part of the result body, not HTTP errors.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.WithError(err).Error("Failed to read import body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := h.importer.ImportFromJSON(r.Context(), body)

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	config.JSON(w, status, result)
}

func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	cards, err := h.taking.AvailableQuizzes(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		log.WithError(err).Error("Failed to list quizzes")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, cards)
}

func (h *Handler) GetForTaking(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	display, err := h.taking.QuizForTaking(r.Context(), quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to load quiz")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, display)
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	attempt, err := h.taking.StartQuiz(r.Context(), quizID, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to start attempt")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusCreated, attempt)
}

func (h *Handler) GetActiveAttempt(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	attempt, err := h.taking.ActiveAttempt(r.Context(), quizID, claims.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to load active attempt")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if attempt == nil {
		http.Error(w, "no active attempt", http.StatusNotFound)
		return
	}
	config.JSON(w, http.StatusOK, attempt)
}

type submitAnswerRequest struct {
	QuestionID        uint   `json:"question_id" validate:"required"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
	TextAnswer        string `json:"text_answer"`
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	attemptID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.taking.SubmitAnswer(r.Context(), attemptID, req.QuestionID, req.SelectedOptionIDs, req.TextAnswer)
	if err != nil {
		switch {
		case errors.Is(err, ErrAttemptNotFound):
			http.Error(w, "attempt not found", http.StatusNotFound)
		case errors.Is(err, ErrQuestionNotFound):
			http.Error(w, "question not found", http.StatusNotFound)
		case errors.Is(err, ErrAttemptCompleted):
			http.Error(w, "attempt already completed", http.StatusConflict)
		default:
			log.WithError(err).Error("Failed to submit answer")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{"message": "answer recorded"})
}

func (h *Handler) CompleteAttempt(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	attemptID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	attempt, err := h.taking.CompleteQuiz(r.Context(), attemptID)
	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to complete attempt")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, attempt)
}

func (h *Handler) AttemptResults(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	attemptID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	result, err := h.scoring.AttemptResults(r.Context(), attemptID)
	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to load attempt results")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) SavedAnswers(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	attemptID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	saved, err := h.taking.SavedAnswers(r.Context(), attemptID)
	if err != nil {
		log.WithError(err).Error("Failed to load saved answers")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, saved)
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto QuizUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := h.management.CreateQuiz(r.Context(), dto)
	if err != nil {
		log.WithError(err).Error("Failed to create quiz")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var dto QuizUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := h.management.UpdateQuiz(r.Context(), quizID, dto)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to update quiz")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.management.DeleteQuiz(r.Context(), quizID); err != nil {
		switch {
		case errors.Is(err, ErrQuizNotFound):
			http.Error(w, "quiz not found", http.StatusNotFound)
		case errors.Is(err, ErrQuizHasAttempts):
			http.Error(w, "quiz has recorded attempts", http.StatusConflict)
		default:
			log.WithError(err).Error("Failed to delete quiz")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var dto QuestionUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	question, err := h.management.CreateQuestion(r.Context(), quizID, dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuizNotFound):
			http.Error(w, "quiz not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidQuestionType):
			http.Error(w, "invalid question type", http.StatusBadRequest)
		case errors.Is(err, ErrNoCorrectOption):
			http.Error(w, "question must have a correct option", http.StatusBadRequest)
		default:
			log.WithError(err).Error("Failed to create question")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	config.JSON(w, http.StatusCreated, question)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	questionID, ok := idParam(w, r, "questionID")
	if !ok {
		return
	}

	var dto QuestionUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	question, err := h.management.UpdateQuestion(r.Context(), questionID, dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuestionNotFound):
			http.Error(w, "question not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidQuestionType):
			http.Error(w, "invalid question type", http.StatusBadRequest)
		case errors.Is(err, ErrNoCorrectOption):
			http.Error(w, "question must have a correct option", http.StatusBadRequest)
		default:
			log.WithError(err).Error("Failed to update question")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	config.JSON(w, http.StatusOK, question)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	questionID, ok := idParam(w, r, "questionID")
	if !ok {
		return
	}

	if err := h.management.DeleteQuestion(r.Context(), questionID); err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to delete question")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	QuestionIDs []uint `json:"question_ids" validate:"required,min=1"`
}

func (h *Handler) ReorderQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	quizID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.management.ReorderQuestions(r.Context(), quizID, req.QuestionIDs); err != nil {
		log.WithError(err).Error("Failed to reorder questions")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{"message": "questions reordered"})
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
