package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/app"
	"github.com/example/laundrypro/internal/models"
)

// ProfileHandler manages the signed-in user's profile.
type ProfileHandler struct {
	app *app.App
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(a *app.App) *ProfileHandler {
	return &ProfileHandler{app: a}
}

// GetProfile returns the session user without a network call.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	return success(c, fiber.Map{
		"user":    h.app.Auth.Snapshot().User,
		"profile": h.app.Profile.Snapshot(),
	})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	payload := models.UpdateProfilePayload{
		Name:    formString(c, "name"),
		Email:   formString(c, "email"),
		Address: formString(c, "address"),
	}
	avatar, err := formUpload(c, "avatar")
	if err != nil {
		return err
	}
	payload.Avatar = avatar

	user, err := h.app.Profile.Update(c.UserContext(), payload)
	if err != nil {
		return fail(err, "Could not update your profile")
	}
	return success(c, user)
}

func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.app.Profile.ChangePassword(c.UserContext(), req); err != nil {
		return fail(err, "Could not change your password")
	}
	return success(c, h.app.Profile.Snapshot())
}

func (h *ProfileHandler) ClearError(c *fiber.Ctx) error {
	h.app.Profile.ClearError()
	return success(c, h.app.Profile.Snapshot())
}
