package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/app"
	"github.com/example/laundrypro/internal/middleware"
	"github.com/example/laundrypro/internal/navigation"
	"github.com/example/laundrypro/internal/store"
)

// AuthHandler exposes the session and the login flow.
type AuthHandler struct {
	app *app.App
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(a *app.App) *AuthHandler {
	return &AuthHandler{app: a}
}

type sessionResponse struct {
	Session    store.SessionState `json:"session"`
	Navigation navigation.Route   `json:"navigation"`
	ExpiresAt  *time.Time         `json:"expiresAt,omitempty"`
}

func (h *AuthHandler) sessionView() sessionResponse {
	resp := sessionResponse{
		Session:    h.app.Auth.Snapshot(),
		Navigation: h.app.Gate.Current(),
	}
	if exp, ok := h.app.SessionExpiry(); ok {
		resp.ExpiresAt = &exp
	}
	return resp
}

// Session returns the session store snapshot and the navigation decision.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return success(c, h.sessionView())
}

func (h *AuthHandler) Navigation(c *fiber.Ctx) error {
	return success(c, h.app.Gate.Current())
}

// Home is the landing screen of the main group.
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	route, _ := middleware.GetCurrentRoute(c)
	return success(c, fiber.Map{"user": h.app.Auth.Snapshot().User, "navigation": route})
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// SubmitPhone checks the login method and, for OTP, sends the code.
func (h *AuthHandler) SubmitPhone(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if _, err := h.app.Auth.SubmitPhone(c.UserContext(), req.Phone); err != nil {
		return fail(err, "Could not check login method")
	}
	return success(c, h.sessionView())
}

func (h *AuthHandler) ResendCode(c *fiber.Ctx) error {
	if err := h.app.Auth.ResendCode(c.UserContext()); err != nil {
		return fail(err, "Could not send the verification code")
	}
	return success(c, h.sessionView())
}

type otpRequest struct {
	Code string `json:"code"`
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.app.Auth.VerifyOTP(c.UserContext(), req.Code); err != nil {
		return fail(err, "The verification code is incorrect")
	}
	return success(c, h.sessionView())
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) LoginWithPassword(c *fiber.Ctx) error {
	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.app.Auth.LoginWithPassword(c.UserContext(), req.Password); err != nil {
		return fail(err, "Login failed")
	}
	return success(c, h.sessionView())
}

// Resume retries the profile fetch with the cookies already held.
func (h *AuthHandler) Resume(c *fiber.Ctx) error {
	if err := h.app.Auth.Resume(c.UserContext()); err != nil {
		return fail(err, "Could not load your profile")
	}
	return success(c, h.sessionView())
}

type setPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *AuthHandler) SetPassword(c *fiber.Ctx) error {
	var req setPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.app.Auth.SetPassword(c.UserContext(), req.Password, req.ConfirmPassword); err != nil {
		return fail(err, "Could not set password")
	}
	return success(c, h.sessionView())
}

// Logout always succeeds.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.app.Auth.Logout(c.UserContext())
	return success(c, h.sessionView())
}

func (h *AuthHandler) ClearError(c *fiber.Ctx) error {
	h.app.Auth.ClearError()
	return success(c, h.sessionView())
}
