package cartsync

import "sync"

// AuthState answers whether the current session is authenticated.
type AuthState interface {
	IsAuthenticated() bool
}

// AuthEvents is an AuthState that announces transitions. The coordinator
// subscribes once so merge timing hangs off the discrete login event rather
// than off render timing.
type AuthEvents interface {
	AuthState
	Subscribe(fn func(authenticated bool)) (cancel func())
}

// AuthStore is an injectable AuthEvents implementation. The zero value is a
// signed-out session.
type AuthStore struct {
	mu            sync.Mutex
	authenticated bool
	nextID        int
	listeners     map[int]func(bool)
}

// NewAuthStore returns a signed-out AuthStore.
func NewAuthStore() *AuthStore {
	return &AuthStore{listeners: make(map[int]func(bool))}
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// SetAuthenticated records a login or logout. Listeners fire only on an
// actual transition, in the caller's goroutine.
func (s *AuthStore) SetAuthenticated(authenticated bool) {
	s.mu.Lock()
	if s.authenticated == authenticated {
		s.mu.Unlock()
		return
	}
	s.authenticated = authenticated
	fns := make([]func(bool), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(authenticated)
	}
}

// Subscribe registers fn for auth transitions and returns its cancel func.
func (s *AuthStore) Subscribe(fn func(authenticated bool)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]func(bool))
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
