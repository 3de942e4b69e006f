package handlers

import (
	"encoding/json"
	"errors"
	"log"
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

type CardHandler struct {
	cardRepo   *repository.CardRepo
	reviewRepo *repository.ReviewRepo
	statsRepo  *repository.StatsRepo
}

func NewCardHandler(cardRepo *repository.CardRepo, reviewRepo *repository.ReviewRepo, statsRepo *repository.StatsRepo) *CardHandler {
	return &CardHandler{cardRepo: cardRepo, reviewRepo: reviewRepo, statsRepo: statsRepo}
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Question) == "" {
		fieldErrors["question"] = "Question is required"
	}
	if strings.TrimSpace(req.Answer) == "" {
		fieldErrors["answer"] = "Answer is required"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	card := srs.InitCard(models.Flashcard{
		UserID:   userID,
		Question: req.Question,
		Answer:   req.Answer,
		Subject:  req.Subject,
	}, time.Now())

	if err := h.cardRepo.Create(r.Context(), &card); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create card", r))
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cards, err := h.cardRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list cards", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cards": cards,
		"total": len(cards),
	})
}

// Due returns only the cards due right now, most overdue first.
func (h *CardHandler) Due(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cards, err := h.cardRepo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list cards", r))
		return
	}

	due := srs.DueCards(cards, time.Now())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cards": due,
		"total": len(due),
	})
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return
	}

	if err := h.cardRepo.Delete(r.Context(), cardID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Card not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete card", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Card deleted"})
}

// Rate applies a single rating outside a session: classify, reschedule,
// persist. History and stats writes are best-effort; only the card
// update itself can fail the request.
func (h *CardHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return
	}

	var req models.CardRatingRequest
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

	card, err := h.cardRepo.GetByID(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Card not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load card", r))
		return
	}
	if card.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Card not found", r))
		return
	}

	now := time.Now()
	updated := srs.Schedule(*card, rating.Quality(), now)

	if err := h.cardRepo.UpdateScheduling(r.Context(), updated); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save card schedule", r))
		return
	}

	if err := h.reviewRepo.Insert(r.Context(), models.ReviewEvent{
		UserID:     userID,
		CardID:     cardID,
		Rating:     string(rating),
		Quality:    rating.Quality(),
		ReviewedAt: now,
	}); err != nil {
		log.Printf("rate card %s: failed to record history: %v", cardID, err)
	}

	if err := h.statsRepo.RecordReview(r.Context(), userID, rating.IsCorrect(), now); err != nil {
		log.Printf("rate card %s: failed to update stats: %v", cardID, err)
	}

	writeJSON(w, http.StatusOK, updated)
}

// History returns the card's recent review events, newest first.
func (h *CardHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid card ID", r))
		return
	}

	card, err := h.cardRepo.GetByID(r.Context(), cardID)
	if err != nil || card.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Card not found", r))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.reviewRepo.ListByCard(r.Context(), cardID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load history", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  len(events),
	})
}
