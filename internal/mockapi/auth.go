package mockapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/utils"
)

const (
	userIDKey = "mockUserID"
	roleKey   = "mockUserRole"
)

// requireAuth answers 401 without a usable access token, 410 when the token is
// valid but stale, and 403 for suspended accounts.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	token := c.Cookies(accessCookie)
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}

	claims, err := utils.ParseToken(s.cfg.JWTSecret, token)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fiber.NewError(fiber.StatusGone, "Access token expired")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid access token")
	}

	s.mu.Lock()
	_, live := s.access[claims.ID]
	acc := s.accounts[claims.UserID]
	var role models.Role
	var status models.UserStatus
	if acc != nil {
		role, status = acc.user.Role, acc.user.Status
	}
	s.mu.Unlock()

	switch {
	case acc == nil:
		return fiber.NewError(fiber.StatusUnauthorized, "Account not found")
	case !live:
		return fiber.NewError(fiber.StatusGone, "Access token expired")
	case status == models.UserSuspended:
		return fiber.NewError(fiber.StatusForbidden, "Account is suspended")
	}

	c.Locals(userIDKey, claims.UserID)
	c.Locals(roleKey, role)
	return c.Next()
}

// requireRole must run after requireAuth.
func requireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(roleKey).(models.Role)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You do not have permission to perform this action")
	}
}

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

// issueSession sets fresh session cookies. Callers hold s.mu.
func (s *Server) issueSession(c *fiber.Ctx, u models.User) error {
	token, err := utils.GenerateToken(s.cfg.JWTSecret, u.ID, string(u.Role), s.cfg.AccessTTL)
	if err != nil {
		return err
	}
	claims, err := utils.ParseToken(s.cfg.JWTSecret, token)
	if err != nil {
		return err
	}
	s.access[claims.ID] = struct{}{}

	refresh := uuid.NewString()
	s.refresh[refresh] = u.ID

	// The access cookie outlives its token so a stale token is still sent and
	// answered with 410 rather than 401.
	expires := time.Now().Add(refreshTTL)
	c.Cookie(&fiber.Cookie{Name: accessCookie, Value: token, Path: "/", Expires: expires, HTTPOnly: true, SameSite: "Lax"})
	c.Cookie(&fiber.Cookie{Name: refreshCookie, Value: refresh, Path: "/", Expires: expires, HTTPOnly: true, SameSite: "Lax"})
	return nil
}

func clearSessionCookies(c *fiber.Ctx) {
	past := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{Name: accessCookie, Value: "", Path: "/", Expires: past, HTTPOnly: true})
	c.Cookie(&fiber.Cookie{Name: refreshCookie, Value: "", Path: "/", Expires: past, HTTPOnly: true})
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

func (s *Server) checkLogin(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Phone) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone number is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[s.phones[req.Phone]]
	if acc == nil {
		return ok(c, models.CheckLoginResult{LoginMethod: models.LoginOTP, Role: models.RoleCustomer})
	}
	if acc.user.Status == models.UserSuspended {
		return fiber.NewError(fiber.StatusForbidden, "Account is suspended")
	}

	method := models.LoginOTP
	if acc.user.HasPassword {
		method = models.LoginPassword
	}
	return ok(c, models.CheckLoginResult{
		LoginMethod: method,
		HasPassword: acc.user.HasPassword,
		IsVerified:  acc.user.IsVerified,
		Role:        acc.user.Role,
	})
}

func (s *Server) loginOTP(c *fiber.Ctx) error {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return fiber.NewError(fiber.StatusBadRequest, "idToken is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	phone, found := s.idTokens[req.IDToken]
	if !found {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired id token")
	}
	delete(s.idTokens, req.IDToken)

	acc := s.accounts[s.phones[phone]]
	if acc == nil {
		u, err := s.addAccount(models.User{Phone: phone, Role: models.RoleCustomer}, "")
		if err != nil {
			return err
		}
		acc = s.accounts[u.ID]
	}
	if acc.user.Status == models.UserSuspended {
		return fiber.NewError(fiber.StatusForbidden, "Account is suspended")
	}

	now := time.Now().UTC()
	acc.user.IsVerified = true
	acc.user.FirebaseUID = "mock-" + acc.user.ID
	acc.user.LastLogin = &now
	acc.user.UpdatedAt = now

	if err := s.issueSession(c, acc.user); err != nil {
		return err
	}
	return ok(c, acc.user)
}

func (s *Server) loginPassword(c *fiber.Ctx) error {
	var req models.LoginPasswordPayload
	if err := c.BodyParser(&req); err != nil || req.Phone == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[s.phones[req.Phone]]
	if acc == nil || acc.passwordHash == "" || !utils.CheckPassword(acc.passwordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid phone number or password")
	}
	if acc.user.Status == models.UserSuspended {
		return fiber.NewError(fiber.StatusForbidden, "Account is suspended")
	}

	now := time.Now().UTC()
	acc.user.LastLogin = &now
	if err := s.issueSession(c, acc.user); err != nil {
		return err
	}
	return ok(c, acc.user)
}

func (s *Server) refreshToken(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, found := s.refresh[token]
	if token == "" || !found {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
	}
	acc := s.accounts[userID]
	if acc == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Account not found")
	}
	delete(s.refresh, token)

	if err := s.issueSession(c, acc.user); err != nil {
		return err
	}
	s.refreshes++
	return c.JSON(models.Envelope[any]{Success: true, Message: "Token refreshed"})
}

func (s *Server) logout(c *fiber.Ctx) error {
	s.mu.Lock()
	delete(s.refresh, c.Cookies(refreshCookie))
	s.mu.Unlock()

	clearSessionCookies(c)
	return c.JSON(models.Envelope[any]{Success: true, Message: "Logged out"})
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ok(c, s.accounts[currentUserID(c)].user)
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[currentUserID(c)]
	if v := c.FormValue("name"); v != "" {
		acc.user.Name = v
	}
	if v := c.FormValue("email"); v != "" {
		acc.user.Email = v
	}
	if form, err := c.MultipartForm(); err == nil {
		if vals, present := form.Value["address"]; present && len(vals) > 0 {
			acc.user.Address = vals[0]
		}
	}
	if file, err := c.FormFile("avatar"); err == nil {
		acc.user.Avatar = "/uploads/avatars/" + uuid.NewString() + "-" + file.Filename
	}
	acc.user.UpdatedAt = time.Now().UTC()
	return ok(c, acc.user)
}

func (s *Server) setPassword(c *fiber.Ctx) error {
	var req models.SetPasswordPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
	}
	if req.Password != req.ConfirmPassword {
		return fiber.NewError(fiber.StatusBadRequest, "Passwords do not match")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[currentUserID(c)]
	if acc.user.HasPassword {
		return fiber.NewError(fiber.StatusBadRequest, "Password already set")
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}
	acc.passwordHash = hash
	acc.user.HasPassword = true
	acc.user.UpdatedAt = time.Now().UTC()
	return c.JSON(models.Envelope[any]{Success: true, Message: "Password set"})
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.NewPassword) < 8 || req.NewPassword != req.ConfirmPassword {
		return fiber.NewError(fiber.StatusBadRequest, "New password is invalid or does not match")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[currentUserID(c)]
	if acc.passwordHash == "" || !utils.CheckPassword(acc.passwordHash, req.CurrentPassword) {
		return fiber.NewError(fiber.StatusBadRequest, "Current password is incorrect")
	}
	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	acc.passwordHash = hash
	acc.user.UpdatedAt = time.Now().UTC()
	return c.JSON(models.Envelope[any]{Success: true, Message: "Password changed"})
}

// identity emulates the two Identity Toolkit phone calls. Every challenge
// accepts DevOTPCode.
func (s *Server) identity(c *fiber.Ctx) error {
	var body map[string]string
	if err := c.BodyParser(&body); err != nil {
		return toolkitError(c, "INVALID_ARGUMENT")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.Params("method") {
	case "accounts:sendVerificationCode":
		phone := body["phoneNumber"]
		if !strings.HasPrefix(phone, "+") || len(phone) < 8 {
			return toolkitError(c, "INVALID_PHONE_NUMBER")
		}
		session := uuid.NewString()
		s.otpSessions[session] = phone
		return c.JSON(fiber.Map{"sessionInfo": session})

	case "accounts:signInWithPhoneNumber":
		phone, found := s.otpSessions[body["sessionInfo"]]
		if !found {
			return toolkitError(c, "INVALID_SESSION_INFO")
		}
		if body["code"] != DevOTPCode {
			return toolkitError(c, "INVALID_CODE")
		}
		delete(s.otpSessions, body["sessionInfo"])
		idToken := uuid.NewString()
		s.idTokens[idToken] = phone
		return c.JSON(fiber.Map{"idToken": idToken, "phoneNumber": phone})
	}
	return fiber.NewError(fiber.StatusNotFound, "unknown identity method")
}

func toolkitError(c *fiber.Ctx, code string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{"code": fiber.StatusBadRequest, "message": code},
	})
}
