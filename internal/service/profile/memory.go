package profile

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements Service on a mutex-guarded map. It backs handler
// tests and local development without a Firestore connection, with the same
// check-then-write semantics the transactional store guarantees.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

func (m *MemoryStore) Create(_ context.Context, userID string, params CreateParams) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[userID]; exists {
		return nil, ErrAlreadyExists
	}

	now := time.Now().UTC()
	p := Profile{
		ID:          userID,
		Firstname:   params.Firstname,
		Lastname:    params.Lastname,
		Email:       strings.ToLower(strings.TrimSpace(params.Email)),
		PhoneNumber: strings.TrimSpace(params.PhoneNumber),
		Marketing:   params.Marketing,
		Terms:       params.Terms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.profiles[userID] = p
	return &p, nil
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.profiles[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) Update(_ context.Context, userID string, params UpdateParams) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.profiles[userID]
	if !exists {
		return nil, ErrNotFound
	}

	if params.Firstname != nil {
		p.Firstname = *params.Firstname
	}
	if params.Lastname != nil {
		p.Lastname = *params.Lastname
	}
	if params.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*params.Email))
	}
	if params.PhoneNumber != nil {
		p.PhoneNumber = strings.TrimSpace(*params.PhoneNumber)
	}
	if params.Marketing != nil {
		p.Marketing = *params.Marketing
	}
	p.UpdatedAt = time.Now().UTC()

	m.profiles[userID] = p
	return &p, nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.profiles[userID]
	if !exists {
		return nil, ErrNotFound
	}
	delete(m.profiles, userID)
	return &p, nil
}

// Clear removes all profiles. Useful for test cleanup.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = make(map[string]Profile)
}

// Compile-time interface check
var _ Service = (*MemoryStore)(nil)
