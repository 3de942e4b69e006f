package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"google.golang.org/api/option"

	"github.com/marwayahua/study-smart-egypt/internal/models"
	"github.com/marwayahua/study-smart-egypt/internal/repository"
	"github.com/marwayahua/study-smart-egypt/internal/srs"
)

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	cardRepo *repository.CardRepo
	jobRepo  *repository.JobRepo
	redis    *redis.Client
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(
	apiKey string,
	concurrentReqs int,
	cardRepo *repository.CardRepo,
	jobRepo *repository.JobRepo,
	redisClient *redis.Client,
) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		cardRepo: cardRepo,
		jobRepo:  jobRepo,
		redis:    redisClient,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// PublishUpdate sends a WebSocket update via Redis pub/sub
func (s *GeminiService) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, _ := json.Marshal(msg)
	s.redis.Publish(ctx, fmt.Sprintf("user_updates:%s", userID.String()), string(data))
}

// GenerateFlashcards runs one generation job end to end: prompt Gemini,
// parse the card array, seed scheduling state, and store the batch.
// Returns the number of cards added.
func (s *GeminiService) GenerateFlashcards(ctx context.Context, job *models.Job) (int, error) {
	if err := s.acquireRate(ctx); err != nil {
		return 0, err
	}
	defer s.releaseRate()

	var config models.GenerateFlashcardsRequest
	json.Unmarshal(job.ConfigJSON, &config)

	prompt := buildFlashcardPrompt(config)

	s.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID: job.ID, Step: 1, StepName: "Creating Flashcards",
		},
	})

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, fmt.Errorf("Gemini API error: %w", err)
	}

	generated, err := parseGeneratedCards(extractText(resp))
	if err != nil {
		return 0, err
	}

	s.PublishUpdate(ctx, job.UserID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			JobID: job.ID, Step: 2, StepName: "Saving Cards",
		},
	})

	// New cards start immediately due so they show up in the next session.
	now := time.Now()
	cards := make([]models.Flashcard, len(generated))
	for i, g := range generated {
		cards[i] = srs.InitCard(models.Flashcard{
			UserID:   job.UserID,
			Question: g.Question,
			Answer:   g.Answer,
			Subject:  config.Subject,
		}, now)
	}

	if err := s.cardRepo.CreateBatch(ctx, cards); err != nil {
		return 0, err
	}

	return len(cards), nil
}

// parseGeneratedCards decodes the model's JSON array, tolerating code
// fences and surrounding prose. Cards missing either side are dropped;
// an empty result is an error so the job can be retried.
func parseGeneratedCards(rawText string) ([]models.GeneratedCard, error) {
	rawText = strings.TrimPrefix(rawText, "```json")
	rawText = strings.TrimPrefix(rawText, "```")
	rawText = strings.TrimSuffix(rawText, "```")
	rawText = strings.TrimSpace(rawText)

	var cards []models.GeneratedCard
	if err := json.Unmarshal([]byte(rawText), &cards); err != nil {
		start := strings.Index(rawText, "[")
		end := strings.LastIndex(rawText, "]")
		if start >= 0 && end > start {
			json.Unmarshal([]byte(rawText[start:end+1]), &cards)
		}
	}

	valid := cards[:0]
	for _, c := range cards {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			continue
		}
		valid = append(valid, c)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("Gemini returned no usable flashcards")
	}
	return valid, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func buildFlashcardPrompt(config models.GenerateFlashcardsRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert flashcard creator for Egyptian secondary school students. Generate high-quality study flashcards on the topic below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate exactly %d flashcards.\n\n", config.Count))

	b.WriteString(fmt.Sprintf("Topic: %s\n", config.Topic))
	if config.Subject != "" {
		b.WriteString(fmt.Sprintf("Subject: %s\n", config.Subject))
	}
	if config.Grade != "" {
		b.WriteString(fmt.Sprintf("Grade level: %s (match the Egyptian national curriculum for this grade)\n", config.Grade))
	}

	b.WriteString(`
Rules:
- Question must be under 15 words (a question or term, never a statement)
- Answer must be under 60 words and self-contained
- No two cards may test the same concept
- Cover the topic's most examinable points first

JSON schema per card:
{"question": "string", "answer": "string"}
`)

	return b.String()
}
