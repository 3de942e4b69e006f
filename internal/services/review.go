package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marwayahua/study-smart-egypt/internal/models"
	"github.com/marwayahua/study-smart-egypt/internal/repository"
	"github.com/marwayahua/study-smart-egypt/internal/srs"
)

// ReviewService owns the live review sessions. One session per user at a
// time; starting a new one replaces any leftover session. All access to
// a session goes through the service mutex so the session itself can
// stay lock-free.
type ReviewService struct {
	cardRepo   *repository.CardRepo
	reviewRepo *repository.ReviewRepo
	statsRepo  *repository.StatsRepo

	mu       sync.Mutex
	sessions map[uuid.UUID]*srs.Session // keyed by user ID
}

func NewReviewService(cardRepo *repository.CardRepo, reviewRepo *repository.ReviewRepo, statsRepo *repository.StatsRepo) *ReviewService {
	return &ReviewService{
		cardRepo:   cardRepo,
		reviewRepo: reviewRepo,
		statsRepo:  statsRepo,
		sessions:   make(map[uuid.UUID]*srs.Session),
	}
}

// SessionView is the session state exposed to handlers. The answer is
// only present once revealed.
type SessionView struct {
	SessionID uuid.UUID        `json:"session_id"`
	State     srs.SessionState `json:"state"`
	Mode      srs.Mode         `json:"mode,omitempty"`
	Position  int              `json:"position"`
	Total     int              `json:"total"`
	Question  string           `json:"question,omitempty"`
	Subject   string           `json:"subject,omitempty"`
	Answer    string           `json:"answer,omitempty"`
	Revealed  bool             `json:"revealed"`
}

// Start builds the frozen due set for the user and opens a session in
// mode selection. Errors with srs.ErrNoDueCards when nothing is due.
func (s *ReviewService) Start(ctx context.Context, userID uuid.UUID) (*SessionView, error) {
	all, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	due := srs.DueCards(all, time.Now())

	sess, err := srs.NewSession(userID, due, s.cardRepo, s.reviewRepo, s.statsRepo)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()

	return s.view(sess), nil
}

// ChooseMode selects show or write and puts the first card under the
// cursor.
func (s *ReviewService) ChooseMode(userID uuid.UUID, mode srs.Mode) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.active(userID)
	if err != nil {
		return nil, err
	}
	if err := sess.ChooseMode(mode); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Reveal shows the current card's answer (show mode).
func (s *ReviewService) Reveal(userID uuid.UUID) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.active(userID)
	if err != nil {
		return nil, err
	}
	if err := sess.Reveal(); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// SubmitAnswer records a typed answer and reveals the card (write mode).
func (s *ReviewService) SubmitAnswer(userID uuid.UUID, text string) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.active(userID)
	if err != nil {
		return nil, err
	}
	if err := sess.SubmitAnswer(text); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// RateResult is the outcome of rating one card.
type RateResult struct {
	Card     models.Flashcard `json:"card"`
	Finished bool             `json:"finished"`
	Session  *SessionView     `json:"session"`
}

// Rate applies a rating to the current card and advances the session.
// When the last card is rated the session is removed.
func (s *ReviewService) Rate(ctx context.Context, userID uuid.UUID, rating srs.Rating) (*RateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.active(userID)
	if err != nil {
		return nil, err
	}

	card, finished, err := sess.Rate(ctx, rating)
	if err != nil {
		return nil, err
	}

	if finished {
		delete(s.sessions, userID)
	}

	return &RateResult{Card: card, Finished: finished, Session: s.view(sess)}, nil
}

// Exit abandons the user's session. Already-rated cards keep their new
// schedules. Exiting with no session is a no-op.
func (s *ReviewService) Exit(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.Exit()
		delete(s.sessions, userID)
	}
}

// Get returns the current session state, or srs.ErrNotInProgress when
// the user has none.
func (s *ReviewService) Get(userID uuid.UUID) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.active(userID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *ReviewService) active(userID uuid.UUID) (*srs.Session, error) {
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, srs.ErrNotInProgress
	}
	return sess, nil
}

func (s *ReviewService) view(sess *srs.Session) *SessionView {
	v := &SessionView{
		SessionID: sess.ID,
		State:     sess.State(),
		Mode:      sess.Mode(),
		Position:  sess.Cursor() + 1,
		Total:     sess.Total(),
		Revealed:  sess.Revealed(),
	}

	if card, err := sess.Current(); err == nil {
		v.Question = card.Question
		v.Subject = card.Subject
		if sess.Revealed() {
			v.Answer = card.Answer
		}
	}

	return v
}
