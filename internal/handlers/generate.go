package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/marwayahua/study-smart-egypt/internal/middleware"
	"github.com/marwayahua/study-smart-egypt/internal/models"
	"github.com/marwayahua/study-smart-egypt/internal/repository"
)

const generationQueue = "queue:flashcard-generation"

type GenerateHandler struct {
	jobRepo *repository.JobRepo
	redis   *redis.Client
}

func NewGenerateHandler(jobRepo *repository.JobRepo, redisClient *redis.Client) *GenerateHandler {
	return &GenerateHandler{jobRepo: jobRepo, redis: redisClient}
}

// Generate enqueues an AI flashcard generation job and returns the job
// ID. Progress arrives over the user's WebSocket channel.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.GenerateFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Topic) == "" {
		fieldErrors["topic"] = "Topic is required"
	}
	if req.Count == 0 {
		req.Count = 5
	}
	if req.Count < 1 || req.Count > 20 {
		fieldErrors["count"] = "Count must be between 1 and 20"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	configJSON, _ := json.Marshal(req)

	job := &models.Job{
		UserID:     userID,
		Type:       "flashcard-generation",
		ConfigJSON: configJSON,
	}

	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	if err := h.redis.LPush(r.Context(), generationQueue, job.ID.String()).Err(); err != nil {
		h.jobRepo.UpdateStatus(r.Context(), job.ID, "failed")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
	})
}

func (h *GenerateHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load job", r))
		return
	}
	if job.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	writeJSON(w, http.StatusOK, job)
}
