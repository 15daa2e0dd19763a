package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/app"
	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/utils"
)

// UserHandler exposes the customer and staff directories to admins.
type UserHandler struct {
	app *app.App
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{app: a}
}

func userFilter(c *fiber.Ctx) (models.UserFilter, error) {
	f := models.UserFilter{
		Search: c.Query("search"),
		Role:   models.Role(c.Query("role")),
		Status: models.UserStatus(c.Query("status")),
		Limit:  utils.ParseLimit(c),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, fiber.NewError(fiber.StatusBadRequest, "Invalid status")
	}
	return f, nil
}

func statusBody(c *fiber.Ctx) (models.UserStatus, error) {
	var req models.StatusPayload
	if err := c.BodyParser(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return models.UserStatus(req.Status), nil
}

func (h *UserHandler) ListCustomers(c *fiber.Ctx) error {
	filter, err := userFilter(c)
	if err != nil {
		return err
	}
	if err := h.app.Customers.Fetch(c.UserContext(), filter); err != nil {
		return fail(err, "Could not load customers")
	}
	return success(c, h.app.Customers.Snapshot())
}

func (h *UserHandler) LoadMoreCustomers(c *fiber.Ctx) error {
	filter, err := userFilter(c)
	if err != nil {
		return err
	}
	if err := h.app.Customers.LoadMore(c.UserContext(), filter); err != nil {
		return fail(err, "Could not load more customers")
	}
	return success(c, h.app.Customers.Snapshot())
}

func (h *UserHandler) GetCustomer(c *fiber.Ctx) error {
	u, err := h.app.Customers.FetchOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(err, "Could not load the customer")
	}
	return success(c, u)
}

func (h *UserHandler) CreateCustomer(c *fiber.Ctx) error {
	var req models.CreateCustomerPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	u, err := h.app.Customers.Create(c.UserContext(), req)
	if err != nil {
		return fail(err, "Could not create the customer")
	}
	return created(c, u)
}

func (h *UserHandler) UpdateCustomer(c *fiber.Ctx) error {
	var req models.UpdateCustomerPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	u, err := h.app.Customers.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return fail(err, "Could not update the customer")
	}
	return success(c, u)
}

func (h *UserHandler) UpdateCustomerStatus(c *fiber.Ctx) error {
	status, err := statusBody(c)
	if err != nil {
		return err
	}
	if err := h.app.Customers.UpdateStatus(c.UserContext(), c.Params("id"), status); err != nil {
		return fail(err, "Could not update the customer status")
	}
	return success(c, h.app.Customers.Snapshot())
}

func (h *UserHandler) ClearCustomerError(c *fiber.Ctx) error {
	h.app.Customers.ClearError()
	return success(c, h.app.Customers.Snapshot())
}

func (h *UserHandler) ClearCustomerSelection(c *fiber.Ctx) error {
	h.app.Customers.ClearSelection()
	return success(c, h.app.Customers.Snapshot())
}

func (h *UserHandler) ListStaff(c *fiber.Ctx) error {
	filter, err := userFilter(c)
	if err != nil {
		return err
	}
	if err := h.app.Staff.Fetch(c.UserContext(), filter); err != nil {
		return fail(err, "Could not load staff")
	}
	return success(c, h.app.Staff.Snapshot())
}

func (h *UserHandler) LoadMoreStaff(c *fiber.Ctx) error {
	filter, err := userFilter(c)
	if err != nil {
		return err
	}
	if err := h.app.Staff.LoadMore(c.UserContext(), filter); err != nil {
		return fail(err, "Could not load more staff")
	}
	return success(c, h.app.Staff.Snapshot())
}

func (h *UserHandler) GetStaff(c *fiber.Ctx) error {
	u, err := h.app.Staff.FetchOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(err, "Could not load the staff member")
	}
	return success(c, u)
}

func (h *UserHandler) CreateStaff(c *fiber.Ctx) error {
	var req models.CreateStaffPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	u, err := h.app.Staff.Create(c.UserContext(), req)
	if err != nil {
		return fail(err, "Could not create the staff member")
	}
	return created(c, u)
}

func (h *UserHandler) UpdateStaffStatus(c *fiber.Ctx) error {
	status, err := statusBody(c)
	if err != nil {
		return err
	}
	if err := h.app.Staff.UpdateStatus(c.UserContext(), c.Params("id"), status); err != nil {
		return fail(err, "Could not update the staff status")
	}
	return success(c, h.app.Staff.Snapshot())
}

func (h *UserHandler) ClearStaffError(c *fiber.Ctx) error {
	h.app.Staff.ClearError()
	return success(c, h.app.Staff.Snapshot())
}

func (h *UserHandler) ClearStaffSelection(c *fiber.Ctx) error {
	h.app.Staff.ClearSelection()
	return success(c, h.app.Staff.Snapshot())
}
