package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/laundrypro/internal/models"
)

func TestSession_DerivedFlags(t *testing.T) {
	var st SessionState
	assert.False(t, st.IsAuthenticated())
	assert.False(t, st.NeedsPassword())
	assert.Equal(t, models.Role(""), st.Role())

	st.User = &models.User{Role: models.RoleStaff}
	assert.True(t, st.IsAuthenticated())
	assert.True(t, st.NeedsPassword())
	assert.Equal(t, models.RoleStaff, st.Role())

	st.User.HasPassword = true
	assert.False(t, st.NeedsPassword())
}

func TestSession_SubscribeAndReset(t *testing.T) {
	s := NewSession()
	var seen []Phase
	cancel := s.Subscribe(func(st SessionState) { seen = append(seen, st.Phase) })
	defer cancel()

	s.Update(func(st *SessionState) { st.Phase = PhasePhoneEntered; st.Phone = "+84788876568" })
	s.Reset()

	assert.Equal(t, []Phase{PhasePhoneEntered, PhaseAnonymous}, seen)
	assert.Equal(t, SessionState{Phase: PhaseAnonymous}, s.Snapshot())
}

func TestSession_SnapshotCopiesUser(t *testing.T) {
	s := NewSession()
	s.Update(func(st *SessionState) { st.User = &models.User{Name: "An"} })

	snap := s.Snapshot()
	snap.User.Name = "changed"
	assert.Equal(t, "An", s.Snapshot().User.Name)
}

func TestSession_SubscribeSkipsRepeatedNotify(t *testing.T) {
	s := NewSession()
	var seen []Phase
	cancel := s.Subscribe(func(st SessionState) { seen = append(seen, st.Phase) })
	defer cancel()

	s.Update(func(st *SessionState) { st.Phase = PhaseOTPSent })
	// A late notification for a change already delivered is dropped.
	s.subs.notify()

	assert.Equal(t, []Phase{PhaseOTPSent}, seen)
}
