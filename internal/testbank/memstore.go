package testbank

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	tests    map[string]Test
	attempts []Attempt
}

// NewInMemoryStore returns a Store backed by process memory, useful
// for tests and embedded setups.
func NewInMemoryStore() Store {
	return &memoryStore{tests: map[string]Test{}}
}

func (m *memoryStore) PutTest(_ context.Context, t Test) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[t.ID] = t
	return nil
}

func (m *memoryStore) GetTest(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, ErrTestNotFound
	}
	return t, nil
}

func (m *memoryStore) DeleteTest(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tests[id]; !ok {
		return ErrTestNotFound
	}
	delete(m.tests, id)
	return nil
}

func (m *memoryStore) ListTests(_ context.Context) ([]Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Test, 0, len(m.tests))
	for _, t := range m.tests {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryStore) AppendAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *memoryStore) GetAttemptsByUser(_ context.Context, userID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryStore) ListAttemptsByTest(_ context.Context, testID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.TestID == testID {
			out = append(out, a)
		}
	}
	return out, nil
}
