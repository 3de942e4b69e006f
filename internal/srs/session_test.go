package srs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/marwayahua/study-smart-egypt/internal/models"
)

type fakeStore struct {
	updated []models.Flashcard
	fail    bool
}

func (f *fakeStore) UpdateScheduling(_ context.Context, c models.Flashcard) error {
	if f.fail {
		return errors.New("store unreachable")
	}
	f.updated = append(f.updated, c)
	return nil
}

type fakeLog struct {
	events []models.ReviewEvent
	fail   bool
}

func (f *fakeLog) Insert(_ context.Context, ev models.ReviewEvent) error {
	if f.fail {
		return errors.New("insert rejected")
	}
	f.events = append(f.events, ev)
	return nil
}

type fakeStats struct {
	correct []bool
	fail    bool
}

func (f *fakeStats) RecordReview(_ context.Context, _ uuid.UUID, correct bool, _ time.Time) error {
	if f.fail {
		return errors.New("stats write failed")
	}
	f.correct = append(f.correct, correct)
	return nil
}

func dueSet(n int) []models.Flashcard {
	cards := make([]models.Flashcard, n)
	for i := range cards {
		cards[i] = InitCard(models.Flashcard{ID: uuid.New(), UserID: uuid.New()}, testNow.AddDate(0, 0, -n+i))
	}
	return cards
}

func startedSession(t *testing.T, n int, mode Mode) (*Session, *fakeStore, *fakeLog, *fakeStats) {
	t.Helper()
	store, logs, stats := &fakeStore{}, &fakeLog{}, &fakeStats{}

	s, err := NewSession(uuid.New(), dueSet(n), store, logs, stats)
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	s.now = func() time.Time { return testNow }

	if err := s.ChooseMode(mode); err != nil {
		t.Fatalf("failed to choose mode: %v", err)
	}
	return s, store, logs, stats
}

func TestNewSessionEmptyDueSet(t *testing.T) {
	_, err := NewSession(uuid.New(), nil, &fakeStore{}, &fakeLog{}, &fakeStats{})
	if !errors.Is(err, ErrNoDueCards) {
		t.Fatalf("expected ErrNoDueCards, got %v", err)
	}
}

func TestSessionStateMachine(t *testing.T) {
	store, logs, stats := &fakeStore{}, &fakeLog{}, &fakeStats{}
	s, err := NewSession(uuid.New(), dueSet(1), store, logs, stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.State() != SessionModeSelection {
		t.Fatalf("expected mode selection after start, got %s", s.State())
	}

	if err := s.ChooseMode("typing"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}

	if err := s.ChooseMode(ModeShow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != SessionInProgress || s.Cursor() != 0 {
		t.Fatalf("expected in-progress at cursor 0, got %s/%d", s.State(), s.Cursor())
	}

	// Rating before reveal is rejected.
	if _, _, err := s.Rate(context.Background(), RatingEasy); !errors.Is(err, ErrNotRevealed) {
		t.Errorf("expected ErrNotRevealed, got %v", err)
	}
}

// Three due cards rated easy one after another: the session ends Idle,
// every card's next review advanced, each cursor index visited once.
func TestSessionFullPass(t *testing.T) {
	s, store, logs, stats := startedSession(t, 3, ModeShow)

	var visited []int
	for {
		visited = append(visited, s.Cursor())

		if err := s.Reveal(); err != nil {
			t.Fatalf("reveal failed: %v", err)
		}
		card, done, err := s.Rate(context.Background(), RatingEasy)
		if err != nil {
			t.Fatalf("rate failed: %v", err)
		}
		if !card.NextReviewAt.After(testNow) {
			t.Errorf("card %s next review did not advance", card.ID)
		}
		if done {
			break
		}
	}

	if s.State() != SessionIdle {
		t.Errorf("expected Idle after last card, got %s", s.State())
	}
	if len(visited) != 3 || visited[0] != 0 || visited[1] != 1 || visited[2] != 2 {
		t.Errorf("expected cursor to visit 0,1,2 exactly once, got %v", visited)
	}
	if len(store.updated) != 3 {
		t.Errorf("expected 3 persisted cards, got %d", len(store.updated))
	}
	if len(logs.events) != 3 {
		t.Errorf("expected 3 history events, got %d", len(logs.events))
	}
	if len(stats.correct) != 3 {
		t.Fatalf("expected 3 stats updates, got %d", len(stats.correct))
	}
	for _, c := range stats.correct {
		if !c {
			t.Errorf("easy rating must be forwarded as correct")
		}
	}
}

func TestSessionForwardsCorrectnessSignal(t *testing.T) {
	s, _, logs, stats := startedSession(t, 4, ModeShow)

	ratings := []Rating{RatingEasy, RatingConfusing, RatingAlmost, RatingForgot}
	for _, r := range ratings {
		if err := s.Reveal(); err != nil {
			t.Fatalf("reveal failed: %v", err)
		}
		if _, _, err := s.Rate(context.Background(), r); err != nil {
			t.Fatalf("rate failed: %v", err)
		}
	}

	want := []bool{true, true, false, false}
	for i, w := range want {
		if stats.correct[i] != w {
			t.Errorf("rating %q: expected correct=%v, got %v", ratings[i], w, stats.correct[i])
		}
	}

	for i, ev := range logs.events {
		if ev.Rating != string(ratings[i]) {
			t.Errorf("event %d: expected rating %q, got %q", i, ratings[i], ev.Rating)
		}
		if ev.Quality != ratings[i].Quality() {
			t.Errorf("event %d: expected quality %d, got %d", i, ratings[i].Quality(), ev.Quality)
		}
	}
}

func TestSessionWriteModeGatesReveal(t *testing.T) {
	s, _, _, _ := startedSession(t, 1, ModeWrite)

	if err := s.Reveal(); !errors.Is(err, ErrAnswerRequired) {
		t.Errorf("expected ErrAnswerRequired before typing, got %v", err)
	}
	if err := s.SubmitAnswer("   "); !errors.Is(err, ErrAnswerRequired) {
		t.Errorf("expected ErrAnswerRequired for blank answer, got %v", err)
	}

	if err := s.SubmitAnswer("photosynthesis"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !s.Revealed() {
		t.Fatal("expected card revealed after written answer")
	}

	// The typed answer never decides correctness: the self-reported
	// rating does.
	_, done, err := s.Rate(context.Background(), RatingForgot)
	if err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if !done {
		t.Errorf("expected session done after sole card")
	}
}

func TestSessionShowModeRejectsSubmitAnswer(t *testing.T) {
	s, _, _, _ := startedSession(t, 1, ModeShow)
	if err := s.SubmitAnswer("anything"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode in show mode, got %v", err)
	}
}

// Persistence failures are logged and swallowed: the reviewer keeps
// going and the session still completes.
func TestSessionSurvivesPersistenceFailures(t *testing.T) {
	store, logs, stats := &fakeStore{fail: true}, &fakeLog{fail: true}, &fakeStats{fail: true}
	s, err := NewSession(uuid.New(), dueSet(2), store, logs, stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.now = func() time.Time { return testNow }
	if err := s.ChooseMode(ModeShow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.Reveal(); err != nil {
			t.Fatalf("reveal failed: %v", err)
		}
		if _, _, err := s.Rate(context.Background(), RatingConfusing); err != nil {
			t.Fatalf("rate must not surface storage errors, got %v", err)
		}
	}

	if s.State() != SessionIdle {
		t.Errorf("expected session to finish despite storage failures, got %s", s.State())
	}
}

func TestSessionExitMidway(t *testing.T) {
	s, store, _, _ := startedSession(t, 3, ModeShow)

	if err := s.Reveal(); err != nil {
		t.Fatalf("reveal failed: %v", err)
	}
	if _, _, err := s.Rate(context.Background(), RatingEasy); err != nil {
		t.Fatalf("rate failed: %v", err)
	}

	s.Exit()
	if s.State() != SessionIdle {
		t.Fatalf("expected Idle after exit, got %s", s.State())
	}

	// The already-applied rating stands.
	if len(store.updated) != 1 {
		t.Errorf("expected 1 persisted card before exit, got %d", len(store.updated))
	}

	if _, _, err := s.Rate(context.Background(), RatingEasy); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("expected ErrNotInProgress after exit, got %v", err)
	}
}
