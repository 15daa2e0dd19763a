// Package app owns the application state and the controllers that mutate it.
// Controllers catch failures at the operation boundary, keep the user-facing
// message in the owning store and return the error to their caller.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/laundrypro/internal/apiclient"
	"github.com/example/laundrypro/internal/authflow"
	"github.com/example/laundrypro/internal/config"
	"github.com/example/laundrypro/internal/identity"
	"github.com/example/laundrypro/internal/metrics"
	"github.com/example/laundrypro/internal/navigation"
	"github.com/example/laundrypro/internal/services"
	"github.com/example/laundrypro/internal/store"
	"github.com/example/laundrypro/internal/utils"
)

type App struct {
	Stores    *store.Stores
	Auth      *authflow.Controller
	Gate      *navigation.Gate
	Orders    *OrderFlow
	Services  *CatalogFlow
	Customers *CustomerFlow
	Staff     *StaffFlow
	Profile   *ProfileFlow

	cookies CookieJar
}

// AccessCookie is the session cookie holding the short-lived access token.
const AccessCookie = "accessToken"

// CookieJar is the local side of the cookie session.
type CookieJar interface {
	authflow.SessionClearer
	Cookie(name string) (string, bool)
}

// Deps are the collaborators of an App.
type Deps struct {
	Auth        authflow.AuthAPI
	OTP         identity.Provider
	Cookies     CookieJar
	Orders      OrderAPI
	Catalog     CatalogAPI
	Customers   CustomerAPI
	Staff       StaffAPI
	Profile     ProfileAPI
	CountryCode string
	PageSize    int
	Metrics     *metrics.Metrics
}

func New(d Deps) *App {
	stores := store.New()
	pageSize := limitOr(d.PageSize, 10)

	var clearer authflow.SessionClearer
	if d.Cookies != nil {
		clearer = d.Cookies
	}
	auth := authflow.New(authflow.Options{
		Auth:        d.Auth,
		OTP:         d.OTP,
		Stores:      stores,
		Cookies:     clearer,
		CountryCode: d.CountryCode,
		Metrics:     d.Metrics,
	})

	return &App{
		Stores:    stores,
		Auth:      auth,
		Gate:      navigation.NewGate(stores.Session),
		Orders:    &OrderFlow{api: d.Orders, store: stores.Orders, session: auth, pageSize: pageSize},
		Services:  &CatalogFlow{api: d.Catalog, store: stores.Services, session: auth},
		Customers: &CustomerFlow{api: d.Customers, store: stores.Customers, session: auth, pageSize: pageSize},
		Staff:     &StaffFlow{api: d.Staff, store: stores.Staff, session: auth, pageSize: pageSize},
		Profile:   &ProfileFlow{api: d.Profile, store: stores.Profile, session: auth},
		cookies:   d.Cookies,
	}
}

// Build wires an App to the API described by cfg. cookies may be nil.
func Build(cfg *config.Config, cookies apiclient.CookieStore, m *metrics.Metrics) (*App, error) {
	client, err := apiclient.New(apiclient.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Cookies: cookies,
		Metrics: m,
	})
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}

	idCfg := identity.Config{
		BaseURL: cfg.IdentityBaseURL,
		APIKey:  cfg.IdentityAPIKey,
		Timeout: cfg.RequestTimeout,
	}
	if cfg.RecaptchaToken != "" {
		idCfg.AppVerifier = identity.StaticToken(cfg.RecaptchaToken)
	}
	otp := identity.NewToolkitProvider(idCfg)

	return New(Deps{
		Auth:        services.NewAuthService(client),
		OTP:         otp,
		Cookies:     client,
		Orders:      services.NewOrderService(client),
		Catalog:     services.NewCatalogService(client),
		Customers:   services.NewCustomerService(client),
		Staff:       services.NewStaffService(client),
		Profile:     services.NewProfileService(client),
		CountryCode: cfg.PhoneCountryCode,
		PageSize:    cfg.PageSize,
		Metrics:     m,
	}), nil
}

// Close detaches the navigation gate from the session.
func (a *App) Close() { a.Gate.Close() }

// SessionExpiry reports when the held access token goes stale. A stale token
// is refreshed on the next request, so this is informational.
func (a *App) SessionExpiry() (time.Time, bool) {
	if a.cookies == nil {
		return time.Time{}, false
	}
	tok, ok := a.cookies.Cookie(AccessCookie)
	if !ok {
		return time.Time{}, false
	}
	exp, err := utils.TokenExpiry(tok)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

// Start resumes a persisted session, if any.
func (a *App) Start(ctx context.Context) {
	_ = a.Auth.Resume(ctx)
}
