package store

import "sync"

// ProfileState tracks the profile forms. The identity itself lives in the session.
type ProfileState struct {
	Loading         bool   `json:"loading"`
	Error           string `json:"error,omitempty"`
	PasswordChanged bool   `json:"passwordChanged"`
}

type ProfileStore struct {
	mu    sync.RWMutex
	state ProfileState
	subs  subscribers
}

func NewProfileStore() *ProfileStore { return &ProfileStore{} }

func (s *ProfileStore) Snapshot() ProfileState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *ProfileStore) Update(fn func(*ProfileState)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.subs.notify()
}

func (s *ProfileStore) Reset() {
	s.Update(func(st *ProfileState) { *st = ProfileState{} })
}

func (s *ProfileStore) Subscribe(fn func()) (cancel func()) {
	return s.subs.add(fn)
}
