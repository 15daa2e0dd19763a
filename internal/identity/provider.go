// Package identity talks to the phone one-time-code issuer. The issuer sends the
// code by SMS and, once confirmed, hands back an id token that the laundry API
// exchanges for a session.
//
// The hosted Identity Toolkit only starts a challenge for a verified app: each
// sendVerificationCode call must carry a reCAPTCHA token, which the provider
// takes from Config.AppVerifier. Without a verifier no token is sent, which only
// the local mock API and the auth emulator accept.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/laundrypro/internal/apperr"
)

// Provider starts a phone challenge.
type Provider interface {
	SendCode(ctx context.Context, phone string) (Confirmation, error)
}

// Confirmation is the handle returned by SendCode.
type Confirmation interface {
	Confirm(ctx context.Context, code string) (idToken string, err error)
}

// AppVerifier supplies the app verification token for one challenge.
type AppVerifier interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is an AppVerifier that always answers with the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Config points the toolkit provider at an Identity Toolkit compatible endpoint.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	AppVerifier AppVerifier
}

// ToolkitProvider speaks the Identity Toolkit phone REST API.
type ToolkitProvider struct {
	baseURL  string
	apiKey   string
	verifier AppVerifier
	http     *http.Client
}

func NewToolkitProvider(cfg Config) *ToolkitProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ToolkitProvider{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		verifier: cfg.AppVerifier,
		http:     &http.Client{Timeout: timeout},
	}
}

// SendCode asks the issuer to text a verification code to phone.
func (p *ToolkitProvider) SendCode(ctx context.Context, phone string) (Confirmation, error) {
	var out struct {
		SessionInfo string `json:"sessionInfo"`
	}
	body := map[string]string{"phoneNumber": phone}
	if p.verifier != nil {
		token, err := p.verifier.Token(ctx)
		if err != nil {
			return nil, &apperr.Error{Kind: apperr.KindUnexpected, Err: fmt.Errorf("identity: app verification: %w", err)}
		}
		if token != "" {
			body["recaptchaToken"] = token
		}
	}
	if err := p.post(ctx, "accounts:sendVerificationCode", body, &out); err != nil {
		return nil, err
	}
	if out.SessionInfo == "" {
		return nil, &apperr.Error{Kind: apperr.KindUnexpected, Err: errors.New("identity: empty session info")}
	}
	return &toolkitConfirmation{provider: p, sessionInfo: out.SessionInfo}, nil
}

type toolkitConfirmation struct {
	provider    *ToolkitProvider
	sessionInfo string
}

func (c *toolkitConfirmation) Confirm(ctx context.Context, code string) (string, error) {
	var out struct {
		IDToken string `json:"idToken"`
	}
	body := map[string]string{"sessionInfo": c.sessionInfo, "code": code}
	if err := c.provider.post(ctx, "accounts:signInWithPhoneNumber", body, &out); err != nil {
		return "", err
	}
	if out.IDToken == "" {
		return "", &apperr.Error{Kind: apperr.KindUnexpected, Err: errors.New("identity: empty id token")}
	}
	return out.IDToken, nil
}

type toolkitError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *ToolkitProvider) post(ctx context.Context, method string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("identity %s marshal: %w", method, err)
	}

	target := p.baseURL + "/" + method
	if p.apiKey != "" {
		target += "?key=" + url.QueryEscape(p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("identity %s request build: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return apperr.Transport(fmt.Errorf("identity %s: %w", method, err))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var te toolkitError
		_ = json.Unmarshal(respBody, &te)
		return apperr.FromStatus(resp.StatusCode, describe(te.Error.Message))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &apperr.Error{Kind: apperr.KindUnexpected, Err: fmt.Errorf("identity %s unmarshal: %w", method, err)}
	}
	return nil
}

// describe turns an issuer error code into text fit for the user.
func describe(code string) string {
	// Codes may carry a suffix, e.g. "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
	code, _, _ = strings.Cut(code, " ")
	switch code {
	case "INVALID_CODE":
		return "The verification code is incorrect"
	case "SESSION_EXPIRED", "INVALID_SESSION_INFO":
		return "The verification code has expired, please request a new one"
	case "INVALID_PHONE_NUMBER":
		return "Invalid phone number"
	case "TOO_MANY_ATTEMPTS_TRY_LATER", "QUOTA_EXCEEDED":
		return "Too many attempts, please try again later"
	case "":
		return ""
	}
	return "Phone verification failed"
}
