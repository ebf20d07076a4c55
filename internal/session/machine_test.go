package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quizdesk/quizdesk/internal/testbank"
)

type fakeLog struct {
	mu       sync.Mutex
	appended []testbank.Attempt
	err      error
}

func (f *fakeLog) AppendAttempt(_ context.Context, a testbank.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, a)
	return nil
}

func (f *fakeLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appended)
}

// newTestSession builds a session with a long limit so the timer
// never interferes unless a test wants it to.
func newTestSession(t *testing.T, log AttemptLog) *Session {
	t.Helper()
	s := newSession(twoQuestionTest(), "u1", log, time.Now, time.Hour, time.Hour, nil)
	t.Cleanup(s.Teardown)
	return s
}

func TestSessionStartsInProgress(t *testing.T) {
	s := newTestSession(t, &fakeLog{})
	if s.State() != StateInProgress {
		t.Fatalf("state = %s, want %s on creation", s.State(), StateInProgress)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", s.Cursor())
	}
	a, ok := s.Attempt()
	if ok {
		t.Fatalf("attempt must not be finalized at start")
	}
	if a.StartTime.IsZero() || a.TotalQuestions != 2 {
		t.Fatalf("attempt not initialized: %+v", a)
	}
}

func TestForcedAnswerGate(t *testing.T) {
	s := newTestSession(t, &fakeLog{})

	// Unanswered non-final question: advance never moves the cursor.
	if st, err := s.Advance(); err != nil || st != StateInProgress {
		t.Fatalf("advance: state=%s err=%v", st, err)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor = %d, gate must hold", s.Cursor())
	}

	if err := s.SubmitAnswer(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1 once answered", s.Cursor())
	}

	// Retreating is always permitted regardless of answer state.
	if err := s.Retreat(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", s.Cursor())
	}
}

func TestAdvanceFromLastQuestionEntersReview(t *testing.T) {
	s := newTestSession(t, &fakeLog{})

	if err := s.SubmitAnswer(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Advance(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Final question unanswered: its Next still exits InProgress.
	st, err := s.Advance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != StateReview {
		t.Fatalf("state = %s, want %s", st, StateReview)
	}
}

func TestReviewJumpReturnsToInProgress(t *testing.T) {
	s := newTestSession(t, &fakeLog{})

	if err := s.RequestReview(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != StateReview {
		t.Fatalf("state = %s, want review", s.State())
	}

	// Unknown question: silent no-op, still reviewing.
	if err := s.JumpTo(99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != StateReview || s.Cursor() != 0 {
		t.Fatalf("jumpTo(99) must change nothing; state=%s cursor=%d", s.State(), s.Cursor())
	}

	if err := s.JumpTo(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != StateInProgress || s.Cursor() != 1 {
		t.Fatalf("state=%s cursor=%d, want in_progress/1", s.State(), s.Cursor())
	}
}

func TestFinalizeScoresAndAppendsOnce(t *testing.T) {
	log := &fakeLog{}
	s := newTestSession(t, log)

	if err := s.SubmitAnswer(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SubmitAnswer(2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := s.Finalize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Score != 2 {
		t.Fatalf("score = %d, want 2", a.Score)
	}
	if a.EndTime.IsZero() {
		t.Fatalf("endTime not stamped")
	}
	if s.State() != StateFinished {
		t.Fatalf("state = %s, want finished", s.State())
	}

	// Second finalize is a no-op returning the same frozen attempt.
	b, err := s.Finalize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.EndTime.Equal(a.EndTime) || b.Score != a.Score {
		t.Fatalf("second finalize returned a different attempt: %+v vs %+v", b, a)
	}
	if log.count() != 1 {
		t.Fatalf("appended %d attempts, want exactly 1", log.count())
	}
}

func TestOperationsAfterFinishFail(t *testing.T) {
	s := newTestSession(t, &fakeLog{})
	if _, err := s.Finalize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.SubmitAnswer(1, 2); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("submit after finish: got %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("advance after finish: got %v", err)
	}
	if err := s.Retreat(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("retreat after finish: got %v", err)
	}
	if err := s.JumpTo(1); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("jump after finish: got %v", err)
	}
}

func TestFinalizeRetriesAfterFailedAppend(t *testing.T) {
	log := &fakeLog{err: errors.New("disk full")}
	s := newTestSession(t, log)
	if err := s.SubmitAnswer(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Finalize(context.Background()); err == nil {
		t.Fatalf("expected append failure to surface")
	}
	if s.State() == StateFinished {
		t.Fatalf("session must not report finished before the write is acknowledged")
	}

	log.mu.Lock()
	log.err = nil
	log.mu.Unlock()

	a, err := s.Finalize(context.Background())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if a.Score != 1 {
		t.Fatalf("score = %d, want 1", a.Score)
	}
	if log.count() != 1 {
		t.Fatalf("appended %d attempts, want 1", log.count())
	}
}

func TestTimerExpiryAutoFinalizes(t *testing.T) {
	log := &fakeLog{}
	s := newSession(twoQuestionTest(), "u1", log, time.Now, 30*time.Millisecond, 10*time.Millisecond, nil)
	defer s.Teardown()

	if err := s.SubmitAnswer(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.State() != StateFinished {
		if time.Now().After(deadline) {
			t.Fatalf("session never auto-finalized")
		}
		time.Sleep(10 * time.Millisecond)
	}

	a, ok := s.Attempt()
	if !ok {
		t.Fatalf("attempt not frozen")
	}
	if a.Score != 1 {
		t.Fatalf("score = %d, want 1 (only Q1 answered)", a.Score)
	}
	if len(a.Answers) != 1 || a.Answers[1] != 2 {
		t.Fatalf("answers = %v, want {1:2}", a.Answers)
	}
	if log.count() != 1 {
		t.Fatalf("appended %d attempts, want 1", log.count())
	}

	// Manual submit after expiry: no-op, still one append.
	if _, err := s.Finalize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.count() != 1 {
		t.Fatalf("appended %d attempts after duplicate finalize, want 1", log.count())
	}
}

func TestTimerExpiryWithFailedAppendLeavesSessionRetryable(t *testing.T) {
	log := &fakeLog{err: errors.New("disk full")}
	var expired int32
	s := newSession(twoQuestionTest(), "u1", log, time.Now, 30*time.Millisecond, 10*time.Millisecond, func() {
		atomic.AddInt32(&expired, 1)
	})
	defer s.Teardown()

	if err := s.SubmitAnswer(1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if got := atomic.LoadInt32(&expired); got != 0 {
		t.Fatalf("onExpire ran %d times despite the failed append, want 0", got)
	}
	if s.State() == StateFinished {
		t.Fatalf("session must not report finished before the write is acknowledged")
	}

	log.mu.Lock()
	log.err = nil
	log.mu.Unlock()

	a, err := s.Finalize(context.Background())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if a.Score != 1 {
		t.Fatalf("score = %d, want 1", a.Score)
	}
	if log.count() != 1 {
		t.Fatalf("appended %d attempts, want 1", log.count())
	}
}

func TestTeardownCancelsTimerAndBlocksFinalize(t *testing.T) {
	log := &fakeLog{}
	s := newSession(twoQuestionTest(), "u1", log, time.Now, 30*time.Millisecond, 10*time.Millisecond, nil)

	s.Teardown()
	time.Sleep(100 * time.Millisecond)

	if log.count() != 0 {
		t.Fatalf("abandoned session must not append an attempt")
	}
	if _, err := s.Finalize(context.Background()); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("finalize after teardown: got %v", err)
	}
}
