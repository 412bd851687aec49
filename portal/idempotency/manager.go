package idempotency

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrEmptyActionType is returned when a manager is built without an action type.
var ErrEmptyActionType = errors.New("idempotency: action type is empty")

// TokenSource mints the opaque part of a key. Uniqueness is the requirement,
// not secrecy.
type TokenSource func() string

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTokenSource replaces the default UUID token source.
func WithTokenSource(source TokenSource) ManagerOption {
	return func(m *Manager) {
		if source != nil {
			m.newToken = source
		}
	}
}

// Manager caches one token per logical action instance.
//
// The zero token means "not yet requested"; Key mints it lazily and Reset
// clears it. Manager performs no I/O.
type Manager struct {
	actionType string
	newToken   TokenSource

	mu    sync.Mutex
	token string
}

// NewManager builds a manager for actionType, e.g. "draw-create".
func NewManager(actionType string, opts ...ManagerOption) (*Manager, error) {
	actionType = strings.TrimSpace(actionType)
	if actionType == "" {
		return nil, ErrEmptyActionType
	}

	m := &Manager{
		actionType: actionType,
		newToken:   uuid.NewString,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// ActionType returns the namespace prefix of every key this manager issues.
func (m *Manager) ActionType() string {
	return m.actionType
}

// Key returns actionType + "-" + token, minting the token on first use.
// Repeated calls return the same value until Reset.
func (m *Manager) Key() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == "" {
		m.token = m.newToken()
	}

	return m.actionType + "-" + m.token
}

// HasKey reports whether a token is currently cached.
func (m *Manager) HasKey() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token != ""
}

// Reset clears the cached token so the next Key mints a new one.
//
// Call it when a flow starts fresh or after a successful commit, never
// between retries of the same commit.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
}
