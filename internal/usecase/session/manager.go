package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/duitku/duitku-backend/internal/domain"
	"github.com/duitku/duitku-backend/internal/usecase/gateway"
)

// Manager creates and hands out sessions keyed by identity. Each session
// gets its own persistence gateway bound to that identity; the manager
// never assumes a remote backend is present.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	local    domain.DocumentStore
	remote   domain.DocumentStore // nil in local-only mode
	provider domain.IdentityProvider
}

// NewManager creates a new session manager. local must be non-nil; remote
// and provider may be nil, in which case sessions run local-only with the
// raw credential as identity.
func NewManager(local, remote domain.DocumentStore, provider domain.IdentityProvider) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		local:    local,
		remote:   remote,
		provider: provider,
	}
}

// Login walks a fresh session through the full state machine:
// LoggedOut -> Authenticating -> Loading -> Ready.
//
// An empty identity string is rejected with ErrValidation. A failed sign-in
// is non-fatal: the session continues in local-only mode. Loading is
// remote-first with local fallback and an empty ledger as last resort,
// bootstrapping a zero-salary period when none exists.
func (m *Manager) Login(ctx context.Context, credential string) (*Session, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: identity cannot be empty", domain.ErrValidation)
	}

	identity := credential
	remote := m.remote
	if m.provider != nil {
		id, err := m.provider.SignIn(ctx, credential)
		if err != nil {
			// one-time advisory; the session stays usable offline
			log.Printf("sign-in for %q failed, continuing in local-only mode: %v", credential, err)
			remote = nil
		} else {
			identity = id
		}
	}

	s := &Session{
		identity: identity,
		state:    StateAuthenticating,
		gw:       gateway.New(m.local, remote, identity),
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[identity] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the live session for an identity, if any
func (m *Manager) Get(identity string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[identity]
	if !ok || s.State() != StateReady {
		return nil, false
	}
	return s, true
}

// Logout tears down the session for an identity. Unknown identities are a no-op.
func (m *Manager) Logout(identity string) {
	m.mu.Lock()
	s, ok := m.sessions[identity]
	delete(m.sessions, identity)
	m.mu.Unlock()

	if ok {
		s.Logout()
	}
}
