package services

import (
	"context"
	"net/http"

	"github.com/example/laundrypro/internal/apiclient"
	"github.com/example/laundrypro/internal/models"
)

// AuthService covers login, session and profile reads under /users.
type AuthService struct {
	api Requester
}

func NewAuthService(api Requester) *AuthService {
	return &AuthService{api: api}
}

// CheckLogin asks which credential the phone should log in with.
func (s *AuthService) CheckLogin(ctx context.Context, phone string) (models.CheckLoginResult, error) {
	var out models.CheckLoginResult
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/users/check-login",
		Body:   map[string]string{"phone": phone},
	}, &out)
	return out, err
}

// LoginWithOTP exchanges an identity-provider token for session cookies.
func (s *AuthService) LoginWithOTP(ctx context.Context, idToken string) error {
	return s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/users/login/otp",
		Body:   map[string]string{"idToken": idToken},
	}, nil)
}

// LoginWithPassword exchanges phone and password for session cookies.
func (s *AuthService) LoginWithPassword(ctx context.Context, p models.LoginPasswordPayload) error {
	return s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/users/login/password",
		Body:   p,
	}, nil)
}

func (s *AuthService) SetPassword(ctx context.Context, p models.SetPasswordPayload) error {
	return s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/users/password",
		Body:   p,
	}, nil)
}

func (s *AuthService) RefreshToken(ctx context.Context) error {
	return s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/users/refresh-token"}, nil)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/users/logout"}, nil)
}

func (s *AuthService) GetProfile(ctx context.Context) (models.User, error) {
	var out models.User
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/users/profile"}, &out)
	return out, err
}
