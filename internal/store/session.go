// Package store holds the application state: the session and one entity store
// per collection. Stores are written only by the flow controllers and read
// through snapshots or subscriptions.
package store

import (
	"sync"

	"github.com/example/laundrypro/internal/models"
)

// Phase is the step of the login state machine.
type Phase string

const (
	PhaseAnonymous          Phase = "anonymous"
	PhasePhoneEntered       Phase = "phone_entered"
	PhaseMethodChecked      Phase = "method_checked"
	PhaseOTPSent            Phase = "otp_sent"
	PhaseAuthenticated      Phase = "authenticated"
	PhaseFullyAuthenticated Phase = "fully_authenticated"
)

// Phases lists every phase in order.
var Phases = []Phase{
	PhaseAnonymous,
	PhasePhoneEntered,
	PhaseMethodChecked,
	PhaseOTPSent,
	PhaseAuthenticated,
	PhaseFullyAuthenticated,
}

// SessionState is an immutable view of the session.
type SessionState struct {
	User        *models.User       `json:"user"`
	Phase       Phase              `json:"phase"`
	Phone       string             `json:"phone,omitempty"`
	LoginMethod models.LoginMethod `json:"loginMethod,omitempty"`
	Loading     bool               `json:"loading"`
	Error       string             `json:"error,omitempty"`
}

// IsAuthenticated is true only once the profile has been fetched.
func (s SessionState) IsAuthenticated() bool { return s.User != nil }

// NeedsPassword reports an authenticated identity that has no password yet.
func (s SessionState) NeedsPassword() bool { return s.User != nil && !s.User.HasPassword }

// Role is the acting role, empty when anonymous.
func (s SessionState) Role() models.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func initialSession() SessionState {
	return SessionState{Phase: PhaseAnonymous}
}

type Session struct {
	mu    sync.RWMutex
	state SessionState
	seq   uint64
	subs  subscribers
}

func NewSession() *Session {
	return &Session{state: initialSession()}
}

func (s *Session) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSession(s.state)
}

// Update applies fn to the state and notifies subscribers.
func (s *Session) Update(fn func(*SessionState)) {
	s.mu.Lock()
	fn(&s.state)
	s.seq++
	s.mu.Unlock()
	s.subs.notify()
}

// Reset returns the session to its initial anonymous state.
func (s *Session) Reset() {
	s.Update(func(st *SessionState) { *st = initialSession() })
}

func (s *Session) versioned() (SessionState, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSession(s.state), s.seq
}

// Subscribe calls fn with the latest snapshot after every change. Calls to one
// subscriber are serialized and never deliver a state older than one already
// delivered, so concurrent updates cannot leave fn on a stale state. fn must
// not update the session.
func (s *Session) Subscribe(fn func(SessionState)) (cancel func()) {
	var (
		mu   sync.Mutex
		seen uint64
	)
	return s.subs.add(func() {
		mu.Lock()
		defer mu.Unlock()
		st, seq := s.versioned()
		if seq <= seen {
			return
		}
		seen = seq
		fn(st)
	})
}

func cloneSession(st SessionState) SessionState {
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}
