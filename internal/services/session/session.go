// Package session keeps per-user filter selections. The loaded tables are
// shared and immutable; only the selection map needs locking.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopdash/internal/services/filter"
)

// ErrNotFound indicates an unknown or expired session id
var ErrNotFound = errors.New("session not found")

// Session pairs a selection with its id
type Session struct {
	ID        string           `json:"id"`
	Selection filter.Selection `json:"selection"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Manager stores sessions in memory, keyed by uuid. All accessors return
// copies; callers never hold a pointer into the map, so a session read can
// be encoded while a concurrent update replaces it.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a new session with the given selection and returns a copy of it
func (m *Manager) Create(sel filter.Selection) Session {
	s := &Session{
		ID:        uuid.New().String(),
		Selection: sel,
		UpdatedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return *s
}

// Get returns a copy of the session with the given id
func (m *Manager) Get(id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return *s, nil
}

// Update replaces the selection of an existing session and returns a copy
func (m *Manager) Update(id string, sel filter.Selection) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}

	s.Selection = sel
	s.UpdatedAt = time.Now()
	return *s, nil
}

// Delete removes a session
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
