package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/marwayahua/study-smart-egypt/internal/middleware"
	"github.com/marwayahua/study-smart-egypt/internal/models"
	"github.com/marwayahua/study-smart-egypt/internal/repository"
	"github.com/marwayahua/study-smart-egypt/internal/srs"
)

type ExamHandler struct {
	examRepo *repository.ExamRepo
}

func NewExamHandler(examRepo *repository.ExamRepo) *ExamHandler {
	return &ExamHandler{examRepo: examRepo}
}

func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Title) == "" {
		fieldErrors["title"] = "Title is required"
	}
	switch req.ExamType {
	case models.ExamTypeMonthly, models.ExamTypeMidterm, models.ExamTypeFinal:
	default:
		fieldErrors["exam_type"] = "Exam type must be one of: monthly, midterm, final"
	}

	examDate, err := time.Parse("2006-01-02", req.ExamDate)
	if err != nil {
		fieldErrors["exam_date"] = "Exam date must be in YYYY-MM-DD format"
	}

	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	exam := &models.ExamDate{
		UserID:   userID,
		Title:    req.Title,
		ExamDate: examDate,
		ExamType: req.ExamType,
		Subject:  req.Subject,
	}

	if err := h.examRepo.Create(r.Context(), exam); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create exam", r))
		return
	}

	writeJSON(w, http.StatusCreated, exam)
}

func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	exams, err := h.examRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list exams", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exams": exams,
		"total": len(exams),
	})
}

// Upcoming filters the user's exams to a forward window (default 30
// days, override with ?days=N).
func (h *ExamHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "days must be a positive integer", r))
			return
		}
		days = parsed
	}

	exams, err := h.examRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list exams", r))
		return
	}

	upcoming := srs.UpcomingExams(exams, time.Now(), days)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exams": upcoming,
		"total": len(upcoming),
	})
}

// Multiplier reports the suggested intensive-review multiplier given
// exams in the next week.
func (h *ExamHandler) Multiplier(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	exams, err := h.examRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list exams", r))
		return
	}

	now := time.Now()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"multiplier":     srs.IntensiveMultiplier(exams, now),
		"window_days":    srs.ExamWindowDays,
		"upcoming_exams": len(srs.UpcomingExams(exams, now, srs.ExamWindowDays)),
	})
}

func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	examID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid exam ID", r))
		return
	}

	if err := h.examRepo.Delete(r.Context(), examID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Exam not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete exam", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Exam deleted"})
}
