// Package navigation decides which screens the current session may reach.
package navigation

import (
	"slices"
	"sync"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

type Screen string

const (
	ScreenLogin          Screen = "Login"
	ScreenOtp            Screen = "Otp"
	ScreenSetPassword    Screen = "SetPassword"
	ScreenHome           Screen = "Home"
	ScreenOrderList      Screen = "OrderList"
	ScreenOrderDetail    Screen = "OrderDetail"
	ScreenCreateOrder    Screen = "CreateOrder"
	ScreenServiceList    Screen = "ServiceList"
	ScreenServiceDetail  Screen = "ServiceDetail"
	ScreenServiceForm    Screen = "ServiceForm"
	ScreenStaffList      Screen = "StaffList"
	ScreenStaffDetail    Screen = "StaffDetail"
	ScreenCreateStaff    Screen = "CreateStaff"
	ScreenCustomerList   Screen = "CustomerList"
	ScreenCustomerDetail Screen = "CustomerDetail"
	ScreenCustomerForm   Screen = "CustomerForm"
	ScreenProfile        Screen = "Profile"
	ScreenEditProfile    Screen = "EditProfile"
	ScreenChangePassword Screen = "ChangePassword"
)

// Group is the screen stack the session is confined to.
type Group string

const (
	GroupAuth        Group = "auth"
	GroupSetPassword Group = "set_password"
	GroupMain        Group = "main"
)

var (
	authScreens = []Screen{ScreenLogin, ScreenOtp}

	commonScreens = []Screen{
		ScreenHome,
		ScreenOrderList,
		ScreenOrderDetail,
		ScreenServiceList,
		ScreenServiceDetail,
		ScreenProfile,
		ScreenEditProfile,
		ScreenChangePassword,
	}

	counterScreens = []Screen{ScreenCreateOrder, ScreenServiceForm}

	adminScreens = []Screen{
		ScreenStaffList,
		ScreenStaffDetail,
		ScreenCreateStaff,
		ScreenCustomerList,
		ScreenCustomerDetail,
		ScreenCustomerForm,
	}
)

// Route is the outcome of a gate decision.
type Route struct {
	Group   Group    `json:"group"`
	Initial Screen   `json:"initial"`
	Screens []Screen `json:"screens"`
}

// Allows reports whether s is reachable.
func (r Route) Allows(s Screen) bool {
	return slices.Contains(r.Screens, s)
}

// Decide is a pure function of the session. An identity without a password is
// confined to the set-password screen; role only adds screens to the main group.
func Decide(st store.SessionState) Route {
	switch {
	case !st.IsAuthenticated():
		return Route{Group: GroupAuth, Initial: ScreenLogin, Screens: slices.Clone(authScreens)}
	case st.NeedsPassword():
		return Route{Group: GroupSetPassword, Initial: ScreenSetPassword, Screens: []Screen{ScreenSetPassword}}
	}

	screens := slices.Clone(commonScreens)
	role := st.Role()
	if role.IsStaffOrAdmin() {
		screens = append(screens, counterScreens...)
	}
	if role == models.RoleAdmin {
		screens = append(screens, adminScreens...)
	}
	return Route{Group: GroupMain, Initial: ScreenHome, Screens: screens}
}

// Gate keeps the decision current by re-evaluating it on every session change.
type Gate struct {
	mu        sync.RWMutex
	route     Route
	listeners map[int]func(Route)
	next      int
	cancel    func()
}

func NewGate(session *store.Session) *Gate {
	g := &Gate{route: Decide(session.Snapshot()), listeners: make(map[int]func(Route))}
	g.cancel = session.Subscribe(g.update)
	return g
}

func (g *Gate) update(st store.SessionState) {
	route := Decide(st)

	g.mu.Lock()
	changed := !sameRoute(g.route, route)
	g.route = route
	fns := make([]func(Route), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range fns {
		fn(route)
	}
}

// Current returns the latest decision.
func (g *Gate) Current() Route {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.route
}

// OnChange calls fn whenever the decision changes. fn runs inside the session
// notification and must not update the session.
func (g *Gate) OnChange(fn func(Route)) (cancel func()) {
	g.mu.Lock()
	id := g.next
	g.next++
	g.listeners[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

// Close stops following the session.
func (g *Gate) Close() { g.cancel() }

func sameRoute(a, b Route) bool {
	return a.Group == b.Group && a.Initial == b.Initial && slices.Equal(a.Screens, b.Screens)
}
