package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/quizdesk/quizdesk/internal/testbank"
)

// Recorder receives audit events. Satisfied by eventlog.Repo; nil is
// allowed and means no audit trail.
type Recorder interface {
	Record(ctx context.Context, typ, key string, data any) error
}

// Manager is the host-side registry of live sessions. Each user has
// at most one logical session at a time; starting a new one tears the
// previous one down so its timer cannot leak.
type Manager struct {
	store  testbank.Store
	events Recorder
	now    func() time.Time
	limit  time.Duration // overrides the test's time limit when set, tests shrink it
	tick   time.Duration // timer resolution

	mu       sync.Mutex
	sessions map[string]*Session
	byUser   map[string]string // userID -> live session ID
}

func NewManager(store testbank.Store, events Recorder) *Manager {
	return &Manager{
		store:    store,
		events:   events,
		now:      time.Now,
		tick:     time.Second,
		sessions: map[string]*Session{},
		byUser:   map[string]string{},
	}
}

// Create starts a session for the given test and user. Fails with
// testbank.ErrTestNotFound when the test id is unknown; no session is
// created in that case.
func (m *Manager) Create(ctx context.Context, testID, userID string) (*Session, error) {
	t, err := m.store.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prevID, ok := m.byUser[userID]; ok {
		if prev, ok := m.sessions[prevID]; ok {
			prev.Teardown()
			delete(m.sessions, prevID)
		}
		delete(m.byUser, userID)
	}

	var s *Session
	limit := time.Duration(t.TimeLimitMinutes) * time.Minute
	if m.limit > 0 {
		limit = m.limit
	}
	s = newSession(t, userID, m.store, m.now, limit, m.tick, func() {
		// Timer expiry already finalized the session; drop it from
		// the registry and leave an audit trace. s is read under the
		// manager lock because expiry runs on the timer goroutine.
		m.mu.Lock()
		sess := s
		m.mu.Unlock()
		m.remove(sess)
		m.recordFinalized(sess)
	})
	m.sessions[s.ID] = s
	m.byUser[userID] = s.ID
	return s, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Finalize submits a session and clears it from the registry once the
// attempt write has been acknowledged. Finalizing a session the timer
// already expired is a no-op that returns the frozen attempt.
func (m *Manager) Finalize(ctx context.Context, id string) (testbank.Attempt, error) {
	s, err := m.Get(id)
	if err != nil {
		// The timer may have auto-finalized and removed it already.
		return testbank.Attempt{}, err
	}
	a, err := s.Finalize(ctx)
	if err != nil {
		return testbank.Attempt{}, err
	}
	m.remove(s)
	m.recordFinalized(s)
	return a, nil
}

// Teardown abandons a session: timer cancelled, no attempt recorded.
func (m *Manager) Teardown(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.Teardown()
	m.remove(s)
	return nil
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.ID)
	if m.byUser[s.UserID] == s.ID {
		delete(m.byUser, s.UserID)
	}
}

func (m *Manager) recordFinalized(s *Session) {
	if m.events == nil {
		return
	}
	a, ok := s.Attempt()
	if !ok {
		return
	}
	s.recordOnce.Do(func() {
		if err := m.events.Record(context.Background(), "attempt.finalized", s.ID, a); err != nil {
			log.Printf("event log append failed for session %s: %v", s.ID, err)
		}
	})
}
