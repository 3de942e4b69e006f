package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marwayahua/study-smart-egypt/internal/middleware"
	"github.com/marwayahua/study-smart-egypt/internal/services"
	"github.com/marwayahua/study-smart-egypt/internal/srs"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Start opens a session over the cards due right now.
func (h *ReviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	view, err := h.reviewService.Start(r.Context(), userID)
	if err != nil {
		if errors.Is(err, srs.ErrNoDueCards) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"message": "No cards due for review. Come back later!",
				"session": nil,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to start session", r))
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	view, err := h.reviewService.Get(userID)
	if err != nil {
		handleSessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *ReviewHandler) ChooseMode(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	view, err := h.reviewService.ChooseMode(userID, srs.Mode(req.Mode))
	if err != nil {
		handleSessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *ReviewHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	view, err := h.reviewService.Reveal(userID)
	if err != nil {
		handleSessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *ReviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	view, err := h.reviewService.SubmitAnswer(userID, req.Answer)
	if err != nil {
		handleSessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *ReviewHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Rating string `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	rating, err := srs.ParseRating(req.Rating)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"rating": "Rating must be one of: easy, confusing, almost, forgot"}, r))
		return
	}

	result, err := h.reviewService.Rate(r.Context(), userID, rating)
	if err != nil {
		handleSessionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ReviewHandler) Exit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	h.reviewService.Exit(userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session ended"})
}

// handleSessionError maps session state errors onto the API envelope.
// Everything the session can reject is a client-side sequencing error.
func handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, srs.ErrNotInProgress):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active review session", r))
	case errors.Is(err, srs.ErrInvalidMode):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Mode must be show or write", r))
	case errors.Is(err, srs.ErrModeNotChosen):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Session mode has already been chosen", r))
	case errors.Is(err, srs.ErrAnswerRequired):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "A written answer is required first", r))
	case errors.Is(err, srs.ErrNotRevealed):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Reveal the answer before rating", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
