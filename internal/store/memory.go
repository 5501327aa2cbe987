package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps saved loans in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	loans map[string]SavedLoan
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		loans: make(map[string]SavedLoan),
		now:   time.Now,
	}
}

// Save implements LoanStore.
func (m *MemoryStore) Save(_ context.Context, loan SavedLoan) (SavedLoan, error) {
	loan = prepare(loan, m.now())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return loan, nil
}

// Get implements LoanStore.
func (m *MemoryStore) Get(_ context.Context, id string) (SavedLoan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	loan, ok := m.loans[id]
	if !ok {
		return SavedLoan{}, ErrNotFound
	}
	return loan, nil
}

// List implements LoanStore.
func (m *MemoryStore) List(_ context.Context) ([]SavedLoan, error) {
	m.mu.RLock()
	saved := make([]SavedLoan, 0, len(m.loans))
	for _, loan := range m.loans {
		saved = append(saved, loan)
	}
	m.mu.RUnlock()

	sortSaved(saved)
	return saved, nil
}

// Delete implements LoanStore.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loans[id]; !ok {
		return ErrNotFound
	}
	delete(m.loans, id)
	return nil
}
