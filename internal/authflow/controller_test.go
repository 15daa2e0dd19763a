package authflow

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/laundrypro/internal/apperr"
	"github.com/example/laundrypro/internal/identity"
	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

type fakeAuth struct {
	calls      []string
	method     models.LoginMethod
	checkErr   error
	loginErr   error
	logoutErr  error
	profile    models.User
	profileErr error
	gotPhone   string
	gotToken   string
	gotPass    models.LoginPasswordPayload
}

func (f *fakeAuth) CheckLogin(_ context.Context, phone string) (models.CheckLoginResult, error) {
	f.calls = append(f.calls, "check")
	f.gotPhone = phone
	return models.CheckLoginResult{LoginMethod: f.method}, f.checkErr
}

func (f *fakeAuth) LoginWithOTP(_ context.Context, idToken string) error {
	f.calls = append(f.calls, "otp")
	f.gotToken = idToken
	return f.loginErr
}

func (f *fakeAuth) LoginWithPassword(_ context.Context, p models.LoginPasswordPayload) error {
	f.calls = append(f.calls, "password")
	f.gotPass = p
	return f.loginErr
}

func (f *fakeAuth) SetPassword(_ context.Context, _ models.SetPasswordPayload) error {
	f.calls = append(f.calls, "set-password")
	f.profile.HasPassword = true
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	return f.logoutErr
}

func (f *fakeAuth) GetProfile(context.Context) (models.User, error) {
	f.calls = append(f.calls, "profile")
	return f.profile, f.profileErr
}

type fakeOTP struct {
	sent    []string
	sendErr error
}

func (f *fakeOTP) SendCode(_ context.Context, phone string) (identity.Confirmation, error) {
	f.sent = append(f.sent, phone)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return fakeConfirmation{}, nil
}

type fakeConfirmation struct{}

func (fakeConfirmation) Confirm(_ context.Context, code string) (string, error) {
	if code != "123456" {
		return "", apperr.FromStatus(http.StatusBadRequest, "The verification code is incorrect")
	}
	return "id-token", nil
}

type fakeCookies struct{ cleared int }

func (f *fakeCookies) ClearSession(context.Context) error {
	f.cleared++
	return nil
}

func newController(auth *fakeAuth, otp *fakeOTP) (*Controller, *store.Stores, *fakeCookies) {
	stores := store.New()
	cookies := &fakeCookies{}
	c := New(Options{Auth: auth, OTP: otp, Stores: stores, Cookies: cookies, CountryCode: "+84"})
	return c, stores, cookies
}

func TestController_PasswordLogin(t *testing.T) {
	auth := &fakeAuth{
		method:  models.LoginPassword,
		profile: models.User{ID: "u1", Phone: "+84788876568", Role: models.RoleStaff, HasPassword: true},
	}
	c, stores, _ := newController(auth, &fakeOTP{})
	ctx := context.Background()

	res, err := c.SubmitPhone(ctx, "0788876568")
	require.NoError(t, err)
	assert.Equal(t, models.LoginPassword, res.LoginMethod)
	assert.Equal(t, "+84788876568", auth.gotPhone)

	st := stores.Session.Snapshot()
	assert.Equal(t, store.PhaseMethodChecked, st.Phase)
	assert.False(t, st.IsAuthenticated())

	require.NoError(t, c.LoginWithPassword(ctx, "secret123"))
	assert.Equal(t, models.LoginPasswordPayload{Phone: "+84788876568", Password: "secret123"}, auth.gotPass)

	st = stores.Session.Snapshot()
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, store.PhaseFullyAuthenticated, st.Phase)
	assert.Equal(t, []string{"check", "password", "profile"}, auth.calls)
}

func TestController_InvalidPhoneSkipsNetwork(t *testing.T) {
	auth := &fakeAuth{}
	c, stores, _ := newController(auth, &fakeOTP{})

	_, err := c.SubmitPhone(context.Background(), "12345")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, auth.calls)

	st := stores.Session.Snapshot()
	assert.Equal(t, store.PhaseAnonymous, st.Phase)
	assert.Equal(t, "Invalid phone number", st.Error)
}

func TestController_CheckLoginFailureStaysAnonymous(t *testing.T) {
	auth := &fakeAuth{checkErr: apperr.FromStatus(http.StatusNotFound, "Account is suspended")}
	c, stores, _ := newController(auth, &fakeOTP{})

	_, err := c.SubmitPhone(context.Background(), "0788876568")
	require.Error(t, err)

	st := stores.Session.Snapshot()
	assert.Equal(t, store.PhaseAnonymous, st.Phase)
	assert.Equal(t, "Account is suspended", st.Error)
	assert.False(t, st.Loading)
}

func TestController_OTPLoginNeedsPassword(t *testing.T) {
	auth := &fakeAuth{
		method:  models.LoginOTP,
		profile: models.User{ID: "u2", Phone: "+84912345678", Role: models.RoleCustomer},
	}
	otp := &fakeOTP{}
	c, stores, _ := newController(auth, otp)
	ctx := context.Background()

	_, err := c.SubmitPhone(ctx, "0912345678")
	require.NoError(t, err)
	assert.Equal(t, []string{"+84912345678"}, otp.sent)
	assert.Equal(t, store.PhaseOTPSent, stores.Session.Snapshot().Phase)

	err = c.VerifyOTP(ctx, "12345")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	err = c.VerifyOTP(ctx, "000000")
	require.Error(t, err)
	st := stores.Session.Snapshot()
	assert.Equal(t, store.PhaseOTPSent, st.Phase)
	assert.Equal(t, "The verification code is incorrect", st.Error)

	require.NoError(t, c.VerifyOTP(ctx, "123456"))
	assert.Equal(t, "id-token", auth.gotToken)

	st = stores.Session.Snapshot()
	assert.Equal(t, store.PhaseAuthenticated, st.Phase)
	assert.True(t, st.NeedsPassword())
	assert.Empty(t, st.Error)

	assert.True(t, apperr.Is(c.SetPassword(ctx, "abc", "abc"), apperr.KindValidation))
	assert.True(t, apperr.Is(c.SetPassword(ctx, "abcdef", "abcdeg"), apperr.KindValidation))
	require.NoError(t, c.SetPassword(ctx, "abcdef", "abcdef"))

	st = stores.Session.Snapshot()
	assert.Equal(t, store.PhaseFullyAuthenticated, st.Phase)
	assert.False(t, st.NeedsPassword())
}

func TestController_ProfileFailureLeavesUnauthenticated(t *testing.T) {
	auth := &fakeAuth{
		method:     models.LoginPassword,
		profileErr: apperr.Transport(errors.New("timeout")),
	}
	c, stores, _ := newController(auth, &fakeOTP{})
	ctx := context.Background()

	_, err := c.SubmitPhone(ctx, "0788876568")
	require.NoError(t, err)
	require.Error(t, c.LoginWithPassword(ctx, "pw"))

	st := stores.Session.Snapshot()
	assert.False(t, st.IsAuthenticated())
	assert.Equal(t, apperr.TransportMessage, st.Error)

	auth.profileErr = nil
	auth.profile = models.User{ID: "u1", HasPassword: true}
	require.NoError(t, c.Resume(ctx))
	assert.True(t, stores.Session.Snapshot().IsAuthenticated())
}

func TestController_ResumeWithoutSessionIsQuiet(t *testing.T) {
	auth := &fakeAuth{profileErr: apperr.FromStatus(http.StatusUnauthorized, "Not authenticated")}
	c, stores, _ := newController(auth, &fakeOTP{})

	err := c.Resume(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	st := stores.Session.Snapshot()
	assert.Empty(t, st.Error)
	assert.Equal(t, store.PhaseAnonymous, st.Phase)
}

func TestController_LogoutResetsEverythingEvenOnFailure(t *testing.T) {
	for _, logoutErr := range []error{nil, apperr.Transport(errors.New("offline"))} {
		auth := &fakeAuth{
			method:    models.LoginPassword,
			profile:   models.User{ID: "u1", HasPassword: true, Role: models.RoleAdmin},
			logoutErr: logoutErr,
		}
		c, stores, cookies := newController(auth, &fakeOTP{})
		ctx := context.Background()

		_, err := c.SubmitPhone(ctx, "0788876568")
		require.NoError(t, err)
		require.NoError(t, c.LoginWithPassword(ctx, "pw"))
		stores.Orders.Upsert(models.Order{ID: "o1"})
		stores.Staff.Upsert(models.User{ID: "s1"})

		c.Logout(ctx)

		assert.Equal(t, store.SessionState{Phase: store.PhaseAnonymous}, stores.Session.Snapshot())
		assert.Empty(t, stores.Orders.Snapshot().Items)
		assert.Empty(t, stores.Staff.Snapshot().Items)
		assert.Equal(t, 1, cookies.cleared)

		// A second logout is harmless.
		c.Logout(ctx)
		assert.Equal(t, store.SessionState{Phase: store.PhaseAnonymous}, stores.Session.Snapshot())
	}
}

func TestController_VerifyWithoutChallenge(t *testing.T) {
	c, _, _ := newController(&fakeAuth{}, &fakeOTP{})
	err := c.VerifyOTP(context.Background(), "123456")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestController_MergeUser(t *testing.T) {
	auth := &fakeAuth{method: models.LoginPassword, profile: models.User{ID: "u1", Name: "An", HasPassword: true}}
	c, stores, _ := newController(auth, &fakeOTP{})
	ctx := context.Background()
	_, _ = c.SubmitPhone(ctx, "0788876568")
	require.NoError(t, c.LoginWithPassword(ctx, "pw"))

	c.MergeUser(models.User{ID: "u1", Name: "Binh", HasPassword: true})
	assert.Equal(t, "Binh", stores.Session.Snapshot().User.Name)
}

func signedIn(t *testing.T, auth *fakeAuth) (*Controller, *store.Stores, *fakeCookies) {
	t.Helper()
	auth.method = models.LoginPassword
	auth.profile = models.User{ID: "u1", HasPassword: true, Role: models.RoleAdmin}
	c, stores, cookies := newController(auth, &fakeOTP{})
	ctx := context.Background()
	_, err := c.SubmitPhone(ctx, "0788876568")
	require.NoError(t, err)
	require.NoError(t, c.LoginWithPassword(ctx, "pw"))
	return c, stores, cookies
}

func TestController_ExpireEndsSignedInSession(t *testing.T) {
	c, stores, cookies := signedIn(t, &fakeAuth{})
	stores.Orders.Upsert(models.Order{ID: "o1"})
	ctx := context.Background()

	assert.False(t, c.Expire(ctx, apperr.Transport(errors.New("offline"))))
	assert.False(t, c.Expire(ctx, apperr.FromStatus(http.StatusForbidden, "Forbidden")))
	assert.True(t, stores.Session.Snapshot().IsAuthenticated())
	assert.Equal(t, 0, cookies.cleared)

	assert.True(t, c.Expire(ctx, apperr.FromStatus(http.StatusUnauthorized, "Invalid refresh token")))
	assert.Equal(t, store.SessionState{Phase: store.PhaseAnonymous, Error: "Invalid refresh token"}, stores.Session.Snapshot())
	assert.Empty(t, stores.Orders.Snapshot().Items)
	assert.Equal(t, 1, cookies.cleared)

	// Nothing left to end.
	assert.False(t, c.Expire(ctx, apperr.FromStatus(http.StatusUnauthorized, "Not authenticated")))
	assert.Equal(t, 1, cookies.cleared)
}

func TestController_ResumeKeepsIdentityOnTransportError(t *testing.T) {
	auth := &fakeAuth{}
	c, stores, cookies := signedIn(t, auth)

	auth.profileErr = apperr.Transport(errors.New("connection reset"))
	require.Error(t, c.Resume(context.Background()))

	st := stores.Session.Snapshot()
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, store.PhaseFullyAuthenticated, st.Phase)
	assert.Equal(t, apperr.TransportMessage, st.Error)
	assert.Equal(t, 0, cookies.cleared)

	auth.profileErr = apperr.FromStatus(http.StatusInternalServerError, "")
	require.Error(t, c.Resume(context.Background()))
	assert.True(t, stores.Session.Snapshot().IsAuthenticated())
}

func TestController_ResumeRejectedEndsSession(t *testing.T) {
	auth := &fakeAuth{}
	c, stores, cookies := signedIn(t, auth)

	auth.profileErr = apperr.FromStatus(http.StatusUnauthorized, "Invalid refresh token")
	err := c.Resume(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	st := stores.Session.Snapshot()
	assert.False(t, st.IsAuthenticated())
	assert.Equal(t, store.PhaseAnonymous, st.Phase)
	assert.Equal(t, 1, cookies.cleared)
}
