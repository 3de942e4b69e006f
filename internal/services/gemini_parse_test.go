package services

import (
	"strings"
	"testing"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

func TestParseGeneratedCards(t *testing.T) {
	raw := `[{"question":"What is osmosis?","answer":"Movement of water across a membrane from low to high solute concentration."},
{"question":"Define diffusion","answer":"Net movement of particles from high to low concentration."}]`

	cards, err := parseGeneratedCards(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Question != "What is osmosis?" {
		t.Errorf("unexpected first question: %q", cards[0].Question)
	}
}

func TestParseGeneratedCardsStripsCodeFence(t *testing.T) {
	raw := "```json\n[{\"question\":\"Q1\",\"answer\":\"A1\"}]\n```"

	cards, err := parseGeneratedCards(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
}

func TestParseGeneratedCardsExtractsEmbeddedArray(t *testing.T) {
	raw := `Here are your flashcards:
[{"question":"Q1","answer":"A1"}]
Hope these help!`

	cards, err := parseGeneratedCards(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
}

func TestParseGeneratedCardsDropsIncomplete(t *testing.T) {
	raw := `[{"question":"Q1","answer":"A1"},{"question":"","answer":"orphan"},{"question":"Q3","answer":"  "}]`

	cards, err := parseGeneratedCards(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 valid card, got %d", len(cards))
	}
}

func TestParseGeneratedCardsEmptyIsError(t *testing.T) {
	for _, raw := range []string{"", "[]", "not json at all", `[{"question":"","answer":""}]`} {
		if _, err := parseGeneratedCards(raw); err == nil {
			t.Errorf("expected error for input %q", raw)
		}
	}
}

func TestBuildFlashcardPrompt(t *testing.T) {
	prompt := buildFlashcardPrompt(models.GenerateFlashcardsRequest{
		Topic:   "Photosynthesis",
		Subject: "Biology",
		Grade:   "Grade 10",
		Count:   8,
	})

	for _, want := range []string{"exactly 8 flashcards", "Photosynthesis", "Biology", "Grade 10", "JSON array"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildFlashcardPromptOmitsEmptyGrade(t *testing.T) {
	prompt := buildFlashcardPrompt(models.GenerateFlashcardsRequest{
		Topic: "Trigonometry",
		Count: 5,
	})

	if strings.Contains(prompt, "Grade level") {
		t.Error("prompt should not mention grade level when none was given")
	}
}
