package srs

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

// SessionState is the review session's lifecycle phase.
type SessionState string

const (
	SessionIdle          SessionState = "idle"
	SessionModeSelection SessionState = "mode_selection"
	SessionInProgress    SessionState = "in_progress"
)

// Mode controls when the answer is revealed. It never touches the
// rating pipeline.
type Mode string

const (
	// ModeShow reveals the answer on request.
	ModeShow Mode = "show"
	// ModeWrite requires a non-empty typed answer before revealing. The
	// typed answer is never compared against the stored one; correctness
	// stays self-reported through the rating.
	ModeWrite Mode = "write"
)

var (
	ErrNoDueCards     = errors.New("no cards due for review")
	ErrInvalidMode    = errors.New("mode must be show or write")
	ErrNotInProgress  = errors.New("session is not in progress")
	ErrModeNotChosen  = errors.New("session mode has not been chosen")
	ErrAnswerRequired = errors.New("a written answer is required before revealing")
	ErrNotRevealed    = errors.New("answer has not been revealed yet")
)

// CardStore persists a card's scheduling state after a review.
type CardStore interface {
	UpdateScheduling(ctx context.Context, c models.Flashcard) error
}

// ReviewLog records one review event for history.
type ReviewLog interface {
	Insert(ctx context.Context, ev models.ReviewEvent) error
}

// StatsRecorder forwards the correctness signal to streak tracking.
type StatsRecorder interface {
	RecordReview(ctx context.Context, userID uuid.UUID, correct bool, reviewedAt time.Time) error
}

// Session walks a frozen due set exactly once, applying the scheduler to
// each rated card. It lives in memory only and is discarded on exit or
// completion; nothing about it is persisted.
//
// A session is driven by a single caller advancing serially. It is not
// safe for concurrent use; the owning manager serializes access.
type Session struct {
	ID     uuid.UUID
	UserID uuid.UUID

	state    SessionState
	mode     Mode
	cards    []models.Flashcard
	cursor   int
	revealed bool

	store CardStore
	logs  ReviewLog
	stats StatsRecorder
	now   func() time.Time
}

// NewSession freezes the given due set and starts in mode selection.
// The caller computes the due set (via DueCards) beforehand.
func NewSession(userID uuid.UUID, due []models.Flashcard, store CardStore, logs ReviewLog, stats StatsRecorder) (*Session, error) {
	if len(due) == 0 {
		return nil, ErrNoDueCards
	}

	cards := make([]models.Flashcard, len(due))
	copy(cards, due)

	return &Session{
		ID:     uuid.New(),
		UserID: userID,
		state:  SessionModeSelection,
		cards:  cards,
		store:  store,
		logs:   logs,
		stats:  stats,
		now:    time.Now,
	}, nil
}

func (s *Session) State() SessionState { return s.state }
func (s *Session) Mode() Mode          { return s.mode }
func (s *Session) Cursor() int         { return s.cursor }
func (s *Session) Total() int          { return len(s.cards) }
func (s *Session) Revealed() bool      { return s.revealed }

// Current returns the card under the cursor.
func (s *Session) Current() (models.Flashcard, error) {
	if s.state != SessionInProgress {
		return models.Flashcard{}, ErrNotInProgress
	}
	return s.cards[s.cursor], nil
}

// ChooseMode moves the session from mode selection to in-progress with
// the cursor on the first card.
func (s *Session) ChooseMode(m Mode) error {
	if s.state != SessionModeSelection {
		return ErrModeNotChosen
	}
	if m != ModeShow && m != ModeWrite {
		return ErrInvalidMode
	}
	s.mode = m
	s.state = SessionInProgress
	s.cursor = 0
	s.revealed = false
	return nil
}

// Reveal flips the current card in show mode.
func (s *Session) Reveal() error {
	if s.state != SessionInProgress {
		return ErrNotInProgress
	}
	if s.mode == ModeWrite && !s.revealed {
		return ErrAnswerRequired
	}
	s.revealed = true
	return nil
}

// SubmitAnswer records a typed answer in write mode and reveals the
// card. The text is kept only long enough to gate the reveal.
func (s *Session) SubmitAnswer(text string) error {
	if s.state != SessionInProgress {
		return ErrNotInProgress
	}
	if s.mode != ModeWrite {
		return ErrInvalidMode
	}
	if strings.TrimSpace(text) == "" {
		return ErrAnswerRequired
	}
	s.revealed = true
	return nil
}

// Rate applies the given rating to the current card: classify, schedule,
// persist, forward correctness to stats, then advance. It returns the
// updated card and whether the session finished.
//
// The three writes behind one review are independent; a failure in any
// of them is logged and swallowed so a storage hiccup never blocks the
// reviewer mid-session. In-memory state stands in until the next
// successful write.
func (s *Session) Rate(ctx context.Context, rating Rating) (models.Flashcard, bool, error) {
	if s.state != SessionInProgress {
		return models.Flashcard{}, false, ErrNotInProgress
	}
	if !s.revealed {
		return models.Flashcard{}, false, ErrNotRevealed
	}

	now := s.now()
	quality := rating.Quality()

	card := Schedule(s.cards[s.cursor], quality, now)
	s.cards[s.cursor] = card

	if err := s.store.UpdateScheduling(ctx, card); err != nil {
		log.Printf("review session %s: failed to persist card %s: %v", s.ID, card.ID, err)
	}

	if err := s.logs.Insert(ctx, models.ReviewEvent{
		UserID:     s.UserID,
		CardID:     card.ID,
		Rating:     string(rating),
		Quality:    quality,
		ReviewedAt: now,
	}); err != nil {
		log.Printf("review session %s: failed to record history for card %s: %v", s.ID, card.ID, err)
	}

	if err := s.stats.RecordReview(ctx, s.UserID, rating.IsCorrect(), now); err != nil {
		log.Printf("review session %s: failed to update stats: %v", s.ID, err)
	}

	if s.cursor < len(s.cards)-1 {
		s.cursor++
		s.revealed = false
		return card, false, nil
	}

	s.state = SessionIdle
	return card, true, nil
}

// Exit terminates the session immediately. Already-applied ratings are
// not rolled back; there is nothing to clean up beyond dropping the
// session object.
func (s *Session) Exit() {
	s.state = SessionIdle
}
