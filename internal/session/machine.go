package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizdesk/quizdesk/internal/testbank"
)

// State is a session's lifecycle phase.
type State string

const (
	StateStarting   State = "starting"
	StateInProgress State = "in_progress"
	StateReview     State = "review"
	StateFinished   State = "finished"
)

// AttemptLog receives the one finalized attempt record a session
// produces. The durable write is acknowledged before the session
// reports itself Finished.
type AttemptLog interface {
	AppendAttempt(ctx context.Context, a testbank.Attempt) error
}

// Session drives one user's pass through one test:
// Starting -> InProgress -> Review -> Finished, with the countdown
// timer running from creation until finalization. It owns its
// Tracker and Timer exclusively; no state is shared across sessions.
type Session struct {
	ID     string
	UserID string

	mu        sync.Mutex
	test      testbank.Test
	state     State
	tracker   *Tracker
	timer     *Timer
	attempt   testbank.Attempt
	log       AttemptLog
	now       func() time.Time
	scored    bool // score and endTime stamped (survives a failed append)
	finalized bool
	tornDown  bool

	// recordOnce dedupes the audit event when manual submission and
	// timer expiry race to finalize.
	recordOnce sync.Once
}

// New creates a session and immediately performs the one
// Starting -> InProgress transition: the tracker starts with an empty
// answer map, the timer starts with the test's full time limit, and
// startTime is stamped. onExpire, if non-nil, runs after the timer
// has auto-finalized the session.
func New(t testbank.Test, userID string, alog AttemptLog, onExpire func()) *Session {
	limit := time.Duration(t.TimeLimitMinutes) * time.Minute
	return newSession(t, userID, alog, time.Now, limit, time.Second, onExpire)
}

func newSession(t testbank.Test, userID string, alog AttemptLog, now func() time.Time, limit, tick time.Duration, onExpire func()) *Session {
	s := &Session{
		ID:      uuid.New().String(),
		UserID:  userID,
		test:    t,
		state:   StateStarting,
		tracker: newTracker(t),
		log:     alog,
		now:     now,
	}
	s.attempt = testbank.Attempt{
		TestID:         t.ID,
		UserID:         userID,
		Answers:        map[int]int{},
		TotalQuestions: len(t.Questions),
		StartTime:      now().UTC(),
	}
	s.state = StateInProgress
	s.timer = startTimer(limit, tick, func() {
		// Expiry and cancellation can race; the idempotent finalize
		// guard, not the cancellation, is what keeps this safe.
		if _, err := s.Finalize(context.Background()); err != nil {
			// The session stays resident and finalizable so the host
			// can retry the durable append.
			log.Printf("auto-finalize of session %s failed: %v", s.ID, err)
			return
		}
		if onExpire != nil {
			onExpire()
		}
	})
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RemainingSeconds reports the countdown for display.
func (s *Session) RemainingSeconds() int { return s.timer.Remaining() }

// Cursor returns the current position in the question array.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Cursor()
}

// CurrentQuestion returns the question under the cursor, sanitized of
// its answer key.
func (s *Session) CurrentQuestion() testbank.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.tracker.Current()
	q.CorrectOption = 0
	return q
}

// Progress returns (answered, total) for display.
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.ProgressSummary()
}

// IsAnswered reports whether the question has a stored selection.
func (s *Session) IsAnswered(questionNo int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.IsAnswered(questionNo)
}

// Answer returns the stored selection for a question, if any.
func (s *Session) Answer(questionNo int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Answer(questionNo)
}

// SubmitAnswer records a selection for a question. Legal while the
// session is in progress or under review.
func (s *Session) SubmitAnswer(questionNo, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress && s.state != StateReview {
		return ErrInvalidStateTransition
	}
	return s.tracker.SubmitAnswer(questionNo, option)
}

// Advance moves forward one question. The forced-answer gate applies:
// from an unanswered non-final question the cursor does not move.
// From the final question, answered or not, the session leaves
// InProgress and enters Review. Returns the resulting state.
func (s *Session) Advance() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return s.state, ErrInvalidStateTransition
	}
	if s.tracker.AtLast() {
		s.state = StateReview
		return s.state, nil
	}
	if !s.tracker.IsAnswered(s.tracker.Current().QuestionNo) {
		return s.state, nil // gate holds, cursor unchanged
	}
	s.tracker.advance()
	return s.state, nil
}

// Retreat moves back one question; at the first question it is a
// no-op. Retreating is always permitted regardless of answer state.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return ErrInvalidStateTransition
	}
	s.tracker.retreat()
	return nil
}

// RequestReview enters review mode from anywhere in the question
// flow, regardless of completion. The countdown keeps running.
func (s *Session) RequestReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateInProgress:
		s.state = StateReview
		return nil
	case StateReview:
		return nil
	default:
		return ErrInvalidStateTransition
	}
}

// JumpTo moves the cursor straight to a question. From review mode it
// also returns the session to answering mode; the timer is not
// reset. An unknown question number fails silently, leaving cursor
// and state alone.
func (s *Session) JumpTo(questionNo int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateInProgress:
		s.tracker.jumpTo(questionNo)
		return nil
	case StateReview:
		if s.tracker.jumpTo(questionNo) {
			s.state = StateInProgress
		}
		return nil
	default:
		return ErrInvalidStateTransition
	}
}

// Finalize ends the attempt: the timer is cancelled, the score is
// recomputed from the answer map, endTime is stamped, and the frozen
// attempt is appended to the durable log. The session reports
// Finished only after that write is acknowledged. Finalize is
// idempotent: whichever of manual submission and timer expiry gets
// here first wins, and the other call is a no-op returning the same
// frozen attempt.
func (s *Session) Finalize(ctx context.Context) (testbank.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return s.attempt, nil
	}
	if s.tornDown {
		return testbank.Attempt{}, ErrInvalidStateTransition
	}

	s.timer.Cancel()
	if !s.scored {
		s.attempt.Answers = s.tracker.snapshotAnswers()
		s.attempt.Score = ComputeScore(s.test, s.attempt.Answers)
		s.attempt.EndTime = s.now().UTC()
		s.scored = true
	}
	if s.log != nil {
		if err := s.log.AppendAttempt(ctx, s.attempt); err != nil {
			// Score and endTime stay as computed; the host may retry.
			return testbank.Attempt{}, err
		}
	}
	s.finalized = true
	s.state = StateFinished
	return s.attempt, nil
}

// Teardown abandons the session: the timer is cancelled so no
// scheduled callback leaks, and no attempt is recorded. Idempotent.
// A session that already finalized keeps its Finished state.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Cancel()
	if !s.finalized {
		s.tornDown = true
		s.state = StateFinished
	}
}

// Attempt returns the frozen attempt record and true once the session
// has finalized.
func (s *Session) Attempt() (testbank.Attempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt, s.finalized
}
