package store

import (
	"context"
	"sync"
	"time"
)

// Registry holds one DayRecordStore per authenticated session. A store is
// constructed and loaded on the first request after sign-in and torn down
// on sign-out, so session state is always reachable from an identity,
// never ambient.
type Registry struct {
	mu       sync.Mutex
	remote   RemoteStore
	suggest  Suggester
	onWin    WinFunc
	timeout  time.Duration
	sessions map[string]*DayRecordStore
}

// NewRegistry returns a registry wiring every session store to the same
// collaborators.
func NewRegistry(remote RemoteStore, suggest Suggester, onWin WinFunc, timeout time.Duration) *Registry {
	return &Registry{
		remote:   remote,
		suggest:  suggest,
		onWin:    onWin,
		timeout:  timeout,
		sessions: make(map[string]*DayRecordStore),
	}
}

// Acquire returns the session store for userID, creating and loading it on
// first use. Manager sessions get the all-users read superset.
func (r *Registry) Acquire(ctx context.Context, userID string, manager bool) (*DayRecordStore, error) {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	if !ok {
		opts := []Option{
			WithSuggester(r.suggest),
			WithWinFunc(r.onWin),
			WithRemoteTimeout(r.timeout),
		}
		if manager {
			s = NewManager(userID, r.remote, opts...)
		} else {
			s = New(userID, r.remote, opts...)
		}
		r.sessions[userID] = s
	}
	r.mu.Unlock()

	if !ok {
		if err := s.Load(ctx); err != nil {
			r.Evict(userID)
			return nil, err
		}
	}
	return s, nil
}

// Evict tears down a session store, dropping its cached collections.
func (r *Registry) Evict(userID string) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}
