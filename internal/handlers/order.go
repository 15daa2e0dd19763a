package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/app"
	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/utils"
)

// OrderHandler exposes the orders store.
type OrderHandler struct {
	app *app.App
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(a *app.App) *OrderHandler {
	return &OrderHandler{app: a}
}

func (h *OrderHandler) role() models.Role {
	return h.app.Auth.Snapshot().Role()
}

func orderFilter(c *fiber.Ctx) (models.OrderFilter, error) {
	f := models.OrderFilter{
		Status:        models.OrderStatus(c.Query("status")),
		CustomerID:    c.Query("customerId"),
		CreatedBy:     c.Query("createdBy"),
		CustomerPhone: c.Query("customerPhone"),
		StartDate:     c.Query("startDate"),
		EndDate:       c.Query("endDate"),
		Limit:         utils.ParseLimit(c),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, fiber.NewError(fiber.StatusBadRequest, "Invalid order status")
	}
	return f, nil
}

// ListOrders fetches page 1 and returns the store snapshot.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	filter, err := orderFilter(c)
	if err != nil {
		return err
	}
	if err := h.app.Orders.Fetch(c.UserContext(), h.role(), filter); err != nil {
		return fail(err, "Could not load orders")
	}
	return success(c, h.app.Orders.Snapshot())
}

// LoadMoreOrders appends the next page for the same filter.
func (h *OrderHandler) LoadMoreOrders(c *fiber.Ctx) error {
	filter, err := orderFilter(c)
	if err != nil {
		return err
	}
	if err := h.app.Orders.LoadMore(c.UserContext(), h.role(), filter); err != nil {
		return fail(err, "Could not load more orders")
	}
	return success(c, h.app.Orders.Snapshot())
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.app.Orders.FetchOne(c.UserContext(), h.role(), c.Params("id"))
	if err != nil {
		return fail(err, "Could not load the order")
	}
	return success(c, order)
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.app.Orders.Create(c.UserContext(), req)
	if err != nil {
		return fail(err, "Could not create the order")
	}
	return created(c, order)
}

func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req models.StatusPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.app.Orders.UpdateStatus(c.UserContext(), c.Params("id"), models.OrderStatus(req.Status)); err != nil {
		return fail(err, "Could not update the order status")
	}
	return success(c, h.app.Orders.Snapshot())
}

func (h *OrderHandler) ClearError(c *fiber.Ctx) error {
	h.app.Orders.ClearError()
	return success(c, h.app.Orders.Snapshot())
}

func (h *OrderHandler) ClearSelection(c *fiber.Ctx) error {
	h.app.Orders.ClearSelection()
	return success(c, h.app.Orders.Snapshot())
}
