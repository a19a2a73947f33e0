// Package operation tracks in-flight HARDWARE execution goals so they can be
// cancelled by token, modeled on go.viam.com/rdk/operation's context-based
// cancellation pattern. Tokens are advisory identifiers, never part of any
// content hash.
package operation

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Manager tracks cancellable goals keyed by a uuid token.
type Manager struct {
	mu    sync.Mutex
	goals map[uuid.UUID]context.CancelFunc
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{goals: make(map[uuid.UUID]context.CancelFunc)}
}

// Start derives a cancellable child of parent, registers it under a fresh
// token, and returns the child context, the token, and a done func the
// caller must invoke when the goal finishes (success, failure, or timeout)
// to release bookkeeping.
func (m *Manager) Start(parent context.Context) (context.Context, uuid.UUID, func()) {
	ctx, cancel := context.WithCancel(parent)
	token := uuid.New()

	m.mu.Lock()
	m.goals[token] = cancel
	m.mu.Unlock()

	done := func() {
		m.mu.Lock()
		delete(m.goals, token)
		m.mu.Unlock()
		cancel()
	}
	return ctx, token, done
}

// Cancel requests cancellation of the goal identified by token. Returns
// false if no such goal is currently running.
func (m *Manager) Cancel(token uuid.UUID) bool {
	m.mu.Lock()
	cancel, ok := m.goals[token]
	m.mu.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}

// Running reports whether token still identifies a live goal.
func (m *Manager) Running(token uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.goals[token]
	return ok
}
