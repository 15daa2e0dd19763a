// Package authflow drives the login state machine: phone check, one-time code
// or password exchange, profile fetch, first password and logout.
package authflow

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/example/laundrypro/internal/apperr"
	"github.com/example/laundrypro/internal/identity"
	"github.com/example/laundrypro/internal/metrics"
	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

// MinPasswordLength applies to the first password set after OTP login.
const MinPasswordLength = 6

// AuthAPI is the subset of the auth service the controller drives.
type AuthAPI interface {
	CheckLogin(ctx context.Context, phone string) (models.CheckLoginResult, error)
	LoginWithOTP(ctx context.Context, idToken string) error
	LoginWithPassword(ctx context.Context, p models.LoginPasswordPayload) error
	SetPassword(ctx context.Context, p models.SetPasswordPayload) error
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (models.User, error)
}

// SessionClearer drops the local session credentials.
type SessionClearer interface {
	ClearSession(ctx context.Context) error
}

type Options struct {
	Auth        AuthAPI
	OTP         identity.Provider
	Stores      *store.Stores
	Cookies     SessionClearer
	CountryCode string
	Metrics     *metrics.Metrics
}

// Controller owns every write to the session store.
type Controller struct {
	auth        AuthAPI
	otp         identity.Provider
	stores      *store.Stores
	cookies     SessionClearer
	countryCode string

	mu           sync.Mutex
	confirmation identity.Confirmation
}

func New(opts Options) *Controller {
	cc := opts.CountryCode
	if cc == "" {
		cc = "+84"
	}
	c := &Controller{
		auth:        opts.Auth,
		otp:         opts.OTP,
		stores:      opts.Stores,
		cookies:     opts.Cookies,
		countryCode: cc,
	}

	if opts.Metrics != nil {
		phases := make([]string, len(store.Phases))
		for i, p := range store.Phases {
			phases[i] = string(p)
		}
		opts.Metrics.SetPhase(string(store.PhaseAnonymous), phases)
		opts.Stores.Session.Subscribe(func(st store.SessionState) {
			opts.Metrics.SetPhase(string(st.Phase), phases)
		})
	}
	return c
}

func (c *Controller) session() *store.Session { return c.stores.Session }

// fail records the user-facing message for err and returns err.
func (c *Controller) fail(err error, fallback string, apply func(*store.SessionState)) error {
	msg := apperr.Message(err, fallback)
	c.session().Update(func(st *store.SessionState) {
		st.Loading = false
		st.Error = msg
		if apply != nil {
			apply(st)
		}
	})
	return err
}

func (c *Controller) begin() {
	c.session().Update(func(st *store.SessionState) {
		st.Loading = true
		st.Error = ""
	})
}

// SubmitPhone normalizes raw, asks the server which login method applies and,
// for one-time codes, starts the phone challenge. Invalid input never reaches
// the network. When called twice the last response to arrive wins.
func (c *Controller) SubmitPhone(ctx context.Context, raw string) (models.CheckLoginResult, error) {
	phone, err := NormalizePhone(raw, c.countryCode)
	if err != nil {
		return models.CheckLoginResult{}, c.fail(err, "Invalid phone number", nil)
	}

	c.session().Update(func(st *store.SessionState) {
		st.Phase = store.PhasePhoneEntered
		st.Phone = phone
		st.LoginMethod = ""
		st.Loading = true
		st.Error = ""
	})

	res, err := c.auth.CheckLogin(ctx, phone)
	if err != nil {
		return res, c.fail(err, "Could not check login method", func(st *store.SessionState) {
			st.Phase = store.PhaseAnonymous
		})
	}

	c.session().Update(func(st *store.SessionState) {
		st.Phase = store.PhaseMethodChecked
		st.Phone = phone
		st.LoginMethod = res.LoginMethod
		st.Loading = res.LoginMethod == models.LoginOTP
	})
	if res.LoginMethod != models.LoginOTP {
		return res, nil
	}

	return res, c.sendCode(ctx, phone)
}

// ResendCode starts a new challenge for the phone in progress.
func (c *Controller) ResendCode(ctx context.Context) error {
	st := c.session().Snapshot()
	if st.Phone == "" || st.LoginMethod != models.LoginOTP {
		return c.fail(apperr.Validation("Enter your phone number first"), "", nil)
	}
	c.begin()
	return c.sendCode(ctx, st.Phone)
}

func (c *Controller) sendCode(ctx context.Context, phone string) error {
	conf, err := c.otp.SendCode(ctx, phone)
	if err != nil {
		log.Printf("[Auth] sending verification code failed: %v", err)
		return c.fail(err, "Could not send the verification code", nil)
	}

	c.mu.Lock()
	c.confirmation = conf
	c.mu.Unlock()

	c.session().Update(func(st *store.SessionState) {
		st.Phase = store.PhaseOTPSent
		st.Loading = false
	})
	return nil
}

// VerifyOTP confirms code with the identity provider, exchanges the resulting
// token for a session and loads the profile. A wrong code leaves the phase
// unchanged.
func (c *Controller) VerifyOTP(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if len(code) != CodeLength || !allDigits(code) {
		return c.fail(apperr.Validation("Enter the 6-digit verification code"), "", nil)
	}

	c.mu.Lock()
	conf := c.confirmation
	c.mu.Unlock()
	if conf == nil {
		return c.fail(apperr.Validation("Request a verification code first"), "", nil)
	}

	c.begin()
	idToken, err := conf.Confirm(ctx, code)
	if err != nil {
		return c.fail(err, "The verification code is incorrect", nil)
	}

	if err := c.auth.LoginWithOTP(ctx, idToken); err != nil {
		return c.fail(err, "Login failed", nil)
	}

	c.mu.Lock()
	c.confirmation = nil
	c.mu.Unlock()

	return c.loadProfile(ctx)
}

// LoginWithPassword exchanges the phone in progress and password for a session.
func (c *Controller) LoginWithPassword(ctx context.Context, password string) error {
	phone := c.session().Snapshot().Phone
	if phone == "" {
		return c.fail(apperr.Validation("Enter your phone number first"), "", nil)
	}
	if password == "" {
		return c.fail(apperr.Validation("Password is required"), "", nil)
	}

	c.begin()
	if err := c.auth.LoginWithPassword(ctx, models.LoginPasswordPayload{Phone: phone, Password: password}); err != nil {
		return c.fail(err, "Login failed", nil)
	}
	return c.loadProfile(ctx)
}

// Resume loads the profile with whatever session cookies are held. It is the
// retry path after a credential exchange whose profile fetch failed. A missing
// session is not reported as an error message.
func (c *Controller) Resume(ctx context.Context) error {
	c.begin()
	err := c.loadProfile(ctx)
	if signedOut(err) {
		c.session().Update(func(st *store.SessionState) { st.Error = "" })
	}
	return err
}

// loadProfile is the only place the identity is populated.
func (c *Controller) loadProfile(ctx context.Context) error {
	user, err := c.auth.GetProfile(ctx)
	if err != nil {
		log.Printf("[Auth] profile fetch failed: %v", err)
		if c.Expire(ctx, err) {
			return err
		}
		// A transport or server failure keeps whatever identity is held.
		return c.fail(err, "Could not load your profile", func(st *store.SessionState) {
			if signedOut(err) {
				st.User = nil
			}
		})
	}

	c.session().Update(func(st *store.SessionState) {
		u := user
		st.User = &u
		st.Phone = user.Phone
		st.Phase = phaseFor(user)
		st.Loading = false
		st.Error = ""
	})
	return nil
}

func phaseFor(u models.User) store.Phase {
	if u.HasPassword {
		return store.PhaseFullyAuthenticated
	}
	return store.PhaseAuthenticated
}

// SetPassword sets the first password of an identity that has none, then
// re-fetches the profile.
func (c *Controller) SetPassword(ctx context.Context, password, confirm string) error {
	if !c.session().Snapshot().IsAuthenticated() {
		return c.fail(&apperr.Error{Kind: apperr.KindUnauthenticated, Message: "Please log in first"}, "", nil)
	}
	if len(password) < MinPasswordLength {
		return c.fail(apperr.Validation("Password must be at least 6 characters"), "", nil)
	}
	if password != confirm {
		return c.fail(apperr.Validation("Passwords do not match"), "", nil)
	}

	c.begin()
	if err := c.auth.SetPassword(ctx, models.SetPasswordPayload{Password: password, ConfirmPassword: confirm}); err != nil {
		return c.fail(err, "Could not set password", nil)
	}
	return c.loadProfile(ctx)
}

// Logout tells the server on a best-effort basis, then clears the cookies, the
// session and every entity store regardless of the outcome.
func (c *Controller) Logout(ctx context.Context) {
	c.begin()
	if err := c.auth.Logout(ctx); err != nil {
		log.Printf("[Auth] server logout failed, clearing local session anyway: %v", err)
	}
	c.clearLocal(ctx)
}

// Expire ends a signed-in session whose credentials the server no longer
// accepts, as after a failed refresh. The cookies and every store are cleared
// and the server's message is kept on the session for the login screen. It
// reports whether the session was ended; other errors are left to the caller.
func (c *Controller) Expire(ctx context.Context, err error) bool {
	if !signedOut(err) || !c.session().Snapshot().IsAuthenticated() {
		return false
	}
	log.Printf("[Auth] session ended by the server: %v", err)
	c.clearLocal(ctx)
	msg := apperr.Message(err, "Your session has expired, please log in again")
	c.session().Update(func(st *store.SessionState) { st.Error = msg })
	return true
}

func (c *Controller) clearLocal(ctx context.Context) {
	if c.cookies != nil {
		if err := c.cookies.ClearSession(ctx); err != nil {
			log.Printf("[Auth] clearing session cookies failed: %v", err)
		}
	}

	c.mu.Lock()
	c.confirmation = nil
	c.mu.Unlock()

	c.stores.ResetAll()
}

func signedOut(err error) bool {
	return apperr.Is(err, apperr.KindUnauthenticated) || apperr.Is(err, apperr.KindSessionExpired)
}

// MergeUser folds a server-returned user into the session after a profile update.
func (c *Controller) MergeUser(u models.User) {
	c.session().Update(func(st *store.SessionState) {
		if st.User == nil {
			return
		}
		merged := u
		st.User = &merged
		st.Phase = phaseFor(merged)
	})
}

func (c *Controller) ClearError() {
	c.session().Update(func(st *store.SessionState) { st.Error = "" })
}

func (c *Controller) Snapshot() store.SessionState { return c.session().Snapshot() }
