package state

import "sync"

type memoryStore[T any] struct {
	mu      sync.RWMutex
	records map[int64]T
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore[T any]() Store[T] {
	return &memoryStore[T]{records: make(map[int64]T)}
}

func (m *memoryStore[T]) Get(userID int64) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[userID]
	return rec, ok
}

func (m *memoryStore[T]) Put(userID int64, rec T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[userID] = rec
}

func (m *memoryStore[T]) Update(userID int64, fn func(rec *T)) T {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[userID]
	if fn != nil {
		fn(&rec)
	}
	m.records[userID] = rec
	return rec
}

// Clear removes the entire record for a user.
func (m *memoryStore[T]) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, userID)
}

func (m *memoryStore[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
