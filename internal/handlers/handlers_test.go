package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marwayahua/study-smart-egypt/internal/models"
	"github.com/marwayahua/study-smart-egypt/internal/srs"
)

// ─── Shared Helper Tests ───

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]interface{}{
		"message": "Card created",
	})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", rr.Header().Get("Content-Type"))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "Card created" {
		t.Errorf("Expected message 'Card created', got %v", result["message"])
	}
}

func TestErrorRespIncludesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Card not found", req)

	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request ID 'req-123', got %q", resp.Error.RequestID)
	}
}

func TestErrorRespWithFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards", nil)

	resp := errorRespWithFields("VALIDATION_ERROR", "Validation failed",
		map[string]string{"question": "Question is required"}, req)

	if resp.Error.Fields["question"] != "Question is required" {
		t.Errorf("Expected field error for question, got %v", resp.Error.Fields)
	}
}

// ─── Session Error Mapping ───

func TestHandleSessionErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no session", srs.ErrNotInProgress, http.StatusNotFound},
		{"invalid mode", srs.ErrInvalidMode, http.StatusBadRequest},
		{"mode already chosen", srs.ErrModeNotChosen, http.StatusConflict},
		{"answer required", srs.ErrAnswerRequired, http.StatusBadRequest},
		{"not revealed", srs.ErrNotRevealed, http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/rate", nil)

			handleSessionError(rr, req, tc.err)

			if rr.Code != tc.want {
				t.Errorf("Expected status %d, got %d", tc.want, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error.Code == "" {
				t.Error("Expected an error code in the envelope")
			}
		})
	}
}

// ─── Request Shape Tests ───

func TestCardRatingRequestParsing(t *testing.T) {
	jsonBody, _ := json.Marshal(map[string]string{"rating": "almost"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/abc/rating", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	var parsed models.CardRatingRequest
	if err := json.NewDecoder(req.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}

	rating, err := srs.ParseRating(parsed.Rating)
	if err != nil {
		t.Fatalf("Expected a valid rating, got error: %v", err)
	}
	if rating.Quality() != 2 {
		t.Errorf("Expected quality 2 for almost, got %d", rating.Quality())
	}
}

func TestGenerateRequestDefaults(t *testing.T) {
	jsonBody, _ := json.Marshal(map[string]interface{}{
		"topic":   "Photosynthesis",
		"subject": "Biology",
	})

	var req models.GenerateFlashcardsRequest
	if err := json.NewDecoder(bytes.NewReader(jsonBody)).Decode(&req); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}

	if req.Count != 0 {
		t.Errorf("Expected omitted count to decode as 0, got %d", req.Count)
	}
	if req.Topic != "Photosynthesis" {
		t.Errorf("Expected topic 'Photosynthesis', got %q", req.Topic)
	}
}
