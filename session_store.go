package accountflow

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// SessionState is the client's knowledge of who is signed in. It starts
// Unknown, settles once the first who-am-i call resolves, and thereafter
// moves between Anonymous and Authenticated as flows succeed.
type SessionState int

const (
	// SessionUnknown means the initial refresh has not resolved yet.
	// Route decisions must show a loading state, never redirect.
	SessionUnknown SessionState = iota
	// SessionAnonymous means a refresh completed with no principal.
	SessionAnonymous
	// SessionAuthenticated means a principal is present.
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionUnknown:
		return "unknown"
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// SessionSnapshot pairs a state with the principal valid at that state.
// Principal is non-nil exactly when State is SessionAuthenticated.
type SessionSnapshot struct {
	State     SessionState
	Principal *Principal
}

// SessionStore is the single source of truth for the current
// authenticated principal. It is refreshed from the server once at
// startup and mutated thereafter only by successful
// authentication-family operations; it never calls the network on
// SetPrincipal or Clear.
type SessionStore struct {
	mu         sync.Mutex
	state      SessionState
	principal  *Principal
	refreshing bool

	fetch func(ctx context.Context) (*Principal, error)
	log   *log.Logger

	subs    map[int]func(SessionSnapshot)
	nextSub int
}

func newSessionStore(fetch func(ctx context.Context) (*Principal, error), logger *log.Logger) *SessionStore {
	return &SessionStore{
		state: SessionUnknown,
		fetch: fetch,
		log:   logger,
		subs:  make(map[int]func(SessionSnapshot)),
	}
}

// Snapshot returns the current state and principal as one consistent
// pair. The principal is an immutable value replaced wholesale on every
// transition, so readers never observe a half-updated user.
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{State: s.state, Principal: s.principal}
}

// State returns the current tri-state value.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Principal returns the current principal, or nil when nobody is signed
// in or the session is still unresolved.
func (s *SessionStore) Principal() *Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal
}

// Refresh issues the who-am-i call and settles the store. A response
// with a principal yields Authenticated; any failure — unauthenticated
// and transport failures alike — degrades to Anonymous, never to an
// error state: this one call fails safe to logged-out and is not subject
// to retry policy.
//
// At most one refresh is in flight at a time; a call made while one is
// pending returns immediately without issuing a second request.
func (s *SessionStore) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return
	}
	s.refreshing = true
	fetch := s.fetch
	s.mu.Unlock()

	p, err := fetch(ctx)

	s.mu.Lock()
	s.refreshing = false
	if err != nil || p == nil {
		if err != nil {
			s.log.WithError(err).Debug("session refresh failed; treating as anonymous")
		}
		s.state = SessionAnonymous
		s.principal = nil
	} else {
		s.state = SessionAuthenticated
		s.principal = p
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// SetPrincipal records a fresh principal from a successful
// authentication-family response and moves the store to Authenticated.
func (s *SessionStore) SetPrincipal(p Principal) {
	s.mu.Lock()
	s.state = SessionAuthenticated
	s.principal = &p
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Clear drops the principal and moves the store to Anonymous.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.state = SessionAnonymous
	s.principal = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Subscribe registers fn to run on every state transition and returns
// its cancel function. Every mutation notifies all current subscribers
// with a consistent snapshot before the next external event is
// processed.
func (s *SessionStore) Subscribe(fn func(SessionSnapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) notify(snap SessionSnapshot) {
	s.mu.Lock()
	fns := make([]func(SessionSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
