package navigation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

func session(u *models.User) store.SessionState {
	return store.SessionState{User: u}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		state   store.SessionState
		group   Group
		allowed []Screen
		denied  []Screen
	}{
		{
			name:    "anonymous",
			state:   session(nil),
			group:   GroupAuth,
			allowed: []Screen{ScreenLogin, ScreenOtp},
			denied:  []Screen{ScreenHome, ScreenSetPassword},
		},
		{
			name:    "needs password",
			state:   session(&models.User{Role: models.RoleAdmin}),
			group:   GroupSetPassword,
			allowed: []Screen{ScreenSetPassword},
			denied:  []Screen{ScreenHome, ScreenLogin, ScreenStaffList, ScreenOrderList},
		},
		{
			name:    "customer",
			state:   session(&models.User{Role: models.RoleCustomer, HasPassword: true}),
			group:   GroupMain,
			allowed: []Screen{ScreenHome, ScreenOrderList, ScreenServiceList, ScreenProfile},
			denied:  []Screen{ScreenCreateOrder, ScreenServiceForm, ScreenStaffList, ScreenCustomerList},
		},
		{
			name:    "staff",
			state:   session(&models.User{Role: models.RoleStaff, HasPassword: true}),
			group:   GroupMain,
			allowed: []Screen{ScreenCreateOrder, ScreenServiceForm},
			denied:  []Screen{ScreenStaffList, ScreenCustomerForm, ScreenLogin},
		},
		{
			name:    "admin",
			state:   session(&models.User{Role: models.RoleAdmin, HasPassword: true}),
			group:   GroupMain,
			allowed: []Screen{ScreenCreateOrder, ScreenStaffList, ScreenCreateStaff, ScreenCustomerList},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := Decide(tt.state)
			assert.Equal(t, tt.group, route.Group)
			for _, s := range tt.allowed {
				assert.True(t, route.Allows(s), "expected %s reachable", s)
			}
			for _, s := range tt.denied {
				assert.False(t, route.Allows(s), "expected %s unreachable", s)
			}
		})
	}
}

func TestGate_FollowsSession(t *testing.T) {
	sess := store.NewSession()
	g := NewGate(sess)
	defer g.Close()

	var groups []Group
	g.OnChange(func(r Route) { groups = append(groups, r.Group) })

	assert.Equal(t, GroupAuth, g.Current().Group)

	sess.Update(func(st *store.SessionState) { st.User = &models.User{Role: models.RoleStaff} })
	assert.Equal(t, GroupSetPassword, g.Current().Group)

	// Password set while still logged in.
	sess.Update(func(st *store.SessionState) { st.User.HasPassword = true })
	assert.Equal(t, GroupMain, g.Current().Group)

	// Unrelated changes do not fire listeners.
	sess.Update(func(st *store.SessionState) { st.Loading = true })

	sess.Reset()
	assert.Equal(t, GroupAuth, g.Current().Group)
	assert.Equal(t, []Group{GroupSetPassword, GroupMain, GroupAuth}, groups)
}

func TestGate_ConcurrentUpdatesSettleOnLatest(t *testing.T) {
	sess := store.NewSession()
	g := NewGate(sess)
	defer g.Close()

	roles := []models.Role{models.RoleCustomer, models.RoleStaff, models.RoleAdmin}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess.Update(func(st *store.SessionState) {
				if i%4 == 0 {
					st.User = nil
					return
				}
				st.User = &models.User{Role: roles[i%len(roles)], HasPassword: i%2 == 0}
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, Decide(sess.Snapshot()), g.Current())
}
