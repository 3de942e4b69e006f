package handlers

import (
	"net/http"
	"time"

	"github.com/marwayahua/study-smart-egypt/internal/middleware"
	"github.com/marwayahua/study-smart-egypt/internal/repository"
	"github.com/marwayahua/study-smart-egypt/internal/srs"
)

type StatsHandler struct {
	statsRepo *repository.StatsRepo
	cardRepo  *repository.CardRepo
}

func NewStatsHandler(statsRepo *repository.StatsRepo, cardRepo *repository.CardRepo) *StatsHandler {
	return &StatsHandler{statsRepo: statsRepo, cardRepo: cardRepo}
}

// Get returns streak and retention stats plus the current due count.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.statsRepo.Get(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}

	dueCount := 0
	totalCards := 0
	if cards, err := h.cardRepo.ListByUser(r.Context(), userID); err == nil {
		totalCards = len(cards)
		dueCount = len(srs.DueCards(cards, time.Now()))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current_streak":   stats.CurrentStreak,
		"longest_streak":   stats.LongestStreak,
		"total_reviews":    stats.TotalReviews,
		"correct_reviews":  stats.CorrectReviews,
		"retention_rate":   stats.RetentionRate(),
		"last_review_date": stats.LastReviewDate,
		"total_cards":      totalCards,
		"due_cards":        dueCount,
	})
}
