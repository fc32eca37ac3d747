package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/qbacid/DentorAcademy/internal/auth"
	"github.com/qbacid/DentorAcademy/internal/config"
	"github.com/qbacid/DentorAcademy/internal/video"
)

var validate = validator.New()

type Handler struct {
	service     Service
	enrollments EnrollmentService
}

func NewHandler(service Service, enrollments EnrollmentService) *Handler {
	return &Handler{service: service, enrollments: enrollments}
}

func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var categoryID *uint
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}
		id := uint(parsed)
		categoryID = &id
	}

	cards, err := h.service.ListPublished(r.Context(), categoryID)
	if err != nil {
		log.WithError(err).Error("Failed to list courses")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, cards)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.service.GetCourse(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to get course")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CourseUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.service.CreateCourse(r.Context(), dto)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to create course")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var dto CourseUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.service.UpdateCourse(r.Context(), id, dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			http.Error(w, "course not found", http.StatusNotFound)
		case errors.Is(err, ErrCategoryNotFound):
			http.Error(w, "category not found", http.StatusNotFound)
		default:
			log.WithError(err).Error("Failed to update course")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCourse(r.Context(), id); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to delete course")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *Handler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	log := config.WithContext(r.Context())

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var (
		c   *Course
		err error
	)
	if published {
		c, err = h.service.Publish(r.Context(), id)
	} else {
		c, err = h.service.Unpublish(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to change course publication")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) AddModule(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	courseID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var dto ModuleUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.service.AddModule(r.Context(), courseID, dto)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to add module")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	moduleID, ok := idParam(w, r, "moduleID")
	if !ok {
		return
	}

	var dto ModuleUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.service.UpdateModule(r.Context(), moduleID, dto)
	if err != nil {
		if errors.Is(err, ErrModuleNotFound) {
			http.Error(w, "module not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to update module")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	moduleID, ok := idParam(w, r, "moduleID")
	if !ok {
		return
	}

	if err := h.service.DeleteModule(r.Context(), moduleID); err != nil {
		if errors.Is(err, ErrModuleNotFound) {
			http.Error(w, "module not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to delete module")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReorderModules(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	courseID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		OrderedIDs []uint `json:"ordered_ids" validate:"required,min=1"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ReorderModules(r.Context(), courseID, body.OrderedIDs); err != nil {
		log.WithError(err).Error("Failed to reorder modules")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddContent(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := idParam(w, r, "moduleID")
	if !ok {
		return
	}

	var dto ContentUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.service.AddContent(r.Context(), moduleID, dto)
	if err != nil {
		h.writeContentError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, content)
}

func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	contentID, ok := idParam(w, r, "contentID")
	if !ok {
		return
	}

	var dto ContentUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.service.UpdateContent(r.Context(), contentID, dto)
	if err != nil {
		h.writeContentError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, content)
}

func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	contentID, ok := idParam(w, r, "contentID")
	if !ok {
		return
	}

	if err := h.service.DeleteContent(r.Context(), contentID); err != nil {
		if errors.Is(err, ErrContentNotFound) {
			http.Error(w, "content not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to delete content")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeContentError(w http.ResponseWriter, r *http.Request, err error) {
	log := config.WithContext(r.Context())

	switch {
	case errors.Is(err, ErrModuleNotFound):
		http.Error(w, "module not found", http.StatusNotFound)
	case errors.Is(err, ErrContentNotFound):
		http.Error(w, "content not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidContentType):
		http.Error(w, "invalid content type", http.StatusBadRequest)
	case errors.Is(err, ErrMissingContentRef):
		http.Error(w, "content reference missing for its type", http.StatusBadRequest)
	case errors.Is(err, video.ErrInvalidVideoURL):
		http.Error(w, "invalid video url", http.StatusBadRequest)
	case errors.Is(err, video.ErrVideoNotFound):
		http.Error(w, "video not found", http.StatusUnprocessableEntity)
	default:
		log.WithError(err).Error("Failed to save content")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	courseID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollments.Enroll(r.Context(), courseID, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to enroll")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusCreated, enrollment)
}

func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	courseID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.enrollments.Unenroll(r.Context(), courseID, claims.UserID); err != nil {
		if errors.Is(err, ErrNotEnrolled) {
			http.Error(w, "not enrolled", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to unenroll")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CompleteContent(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	contentID, ok := idParam(w, r, "contentID")
	if !ok {
		return
	}

	enrollment, err := h.enrollments.CompleteContent(r.Context(), contentID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrContentNotFound):
			http.Error(w, "content not found", http.StatusNotFound)
		case errors.Is(err, ErrNotEnrolled):
			http.Error(w, "not enrolled", http.StatusForbidden)
		default:
			log.WithError(err).Error("Failed to complete content")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	config.JSON(w, http.StatusOK, enrollment)
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	courseID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	report, err := h.enrollments.Progress(r.Context(), courseID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			http.Error(w, "course not found", http.StatusNotFound)
		case errors.Is(err, ErrNotEnrolled):
			http.Error(w, "not enrolled", http.StatusNotFound)
		default:
			log.WithError(err).Error("Failed to load progress")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}
	config.JSON(w, http.StatusOK, report)
}

func (h *Handler) MyEnrollments(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	enrollments, err := h.enrollments.MyEnrollments(r.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to list enrollments")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, enrollments)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list categories")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), dto)
	if err != nil {
		log.WithError(err).Error("Failed to create category")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	config.JSON(w, http.StatusCreated, category)
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		http.Error(w, name+" required", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
