package mockapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/utils"
)

type orderQuery struct {
	status        models.OrderStatus
	customerID    string
	createdBy     string
	customerPhone string
	start, end    time.Time
}

func parseOrderQuery(c *fiber.Ctx) (orderQuery, error) {
	q := orderQuery{
		status:        models.OrderStatus(c.Query("status")),
		customerID:    c.Query("customerId"),
		createdBy:     c.Query("createdBy"),
		customerPhone: c.Query("customerPhone"),
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return q, fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
		}
		q.start = t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return q, fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
		}
		q.end = t.Add(24 * time.Hour)
	}
	return q, nil
}

func (q orderQuery) match(o models.Order) bool {
	switch {
	case q.status != "" && o.Status != q.status:
		return false
	case q.customerID != "" && o.Customer.ID != q.customerID:
		return false
	case q.createdBy != "" && o.CreatedBy.ID != q.createdBy:
		return false
	case q.customerPhone != "" && !strings.Contains(o.Customer.Phone, q.customerPhone):
		return false
	case !q.start.IsZero() && o.CreatedAt.Before(q.start):
		return false
	case !q.end.IsZero() && !o.CreatedAt.Before(q.end):
		return false
	}
	return true
}

// filterOrders keeps the newest-first order of s.orders. Callers hold s.mu.
func (s *Server) filterOrders(keep func(models.Order) bool) []models.Order {
	var out []models.Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	q, err := parseOrderQuery(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	all := s.filterOrders(q.match)
	s.mu.Unlock()

	items, meta := paginate(all, pg)
	return ok(c, models.OrderList{Orders: items, Pagination: meta})
}

func (s *Server) listMyOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	me := currentUserID(c)
	status := models.OrderStatus(c.Query("status"))

	s.mu.Lock()
	all := s.filterOrders(func(o models.Order) bool {
		return o.Customer.ID == me && (status == "" || o.Status == status)
	})
	s.mu.Unlock()

	items, meta := paginate(all, pg)
	return ok(c, models.OrderList{Orders: items, Pagination: meta})
}

func (s *Server) findOrder(id string) (int, bool) {
	for i, o := range s.orders {
		if o.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Server) getOrder(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.findOrder(c.Params("id"))
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "Order not found")
	}
	return ok(c, s.orders[i])
}

func (s *Server) getMyOrder(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.findOrder(c.Params("id"))
	if !found || s.orders[i].Customer.ID != currentUserID(c) {
		return fiber.NewError(fiber.StatusNotFound, "Order not found")
	}
	return ok(c, s.orders[i])
}

// createOrder prices each item from the catalog unless a unit price is given
// and provisions the customer when the phone is unknown.
func (s *Server) createOrder(c *fiber.Ctx) error {
	var req models.CreateOrderPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.CustomerPhone == "" || req.CustomerName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Customer phone and name are required")
	}
	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Order must contain at least one item")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	order := models.Order{
		ID:        uuid.NewString(),
		Status:    models.OrderPending,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, item := range req.Items {
		svc, found := s.findService(item.ServiceID)
		if !found {
			return fiber.NewError(fiber.StatusBadRequest, "Service not found: "+item.ServiceID)
		}
		if !svc.Active {
			return fiber.NewError(fiber.StatusBadRequest, "Service is inactive: "+svc.Name)
		}
		if item.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantity must be greater than 0")
		}
		unit := svc.Price
		if item.UnitPrice != nil {
			unit = *item.UnitPrice
		}
		line := models.OrderItem{
			ID:              uuid.NewString(),
			OrderID:         order.ID,
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			ServiceCategory: svc.Category,
			ServicePrice:    svc.Price,
			ServiceUnit:     svc.Unit,
			Quantity:        item.Quantity,
			UnitPrice:       unit,
			TotalPrice:      unit * item.Quantity,
			Note:            item.Note,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		order.Items = append(order.Items, line)
		order.TotalPrice += line.TotalPrice
	}

	acc := s.accounts[s.phones[req.CustomerPhone]]
	if acc == nil {
		u, err := s.addAccount(models.User{
			Phone:   req.CustomerPhone,
			Name:    req.CustomerName,
			Address: req.CustomerAddress,
			Role:    models.RoleCustomer,
		}, "")
		if err != nil {
			return err
		}
		acc = s.accounts[u.ID]
	}
	order.Customer = models.OrderCustomer{
		ID:          acc.user.ID,
		Phone:       acc.user.Phone,
		Name:        acc.user.Name,
		Address:     acc.user.Address,
		Email:       acc.user.Email,
		IsVerified:  acc.user.IsVerified,
		HasPassword: acc.user.HasPassword,
	}

	creator := s.accounts[currentUserID(c)].user
	order.CreatedBy = models.OrderCreatedBy{ID: creator.ID, Phone: creator.Phone, Name: creator.Name}
	order.Payment = &models.Payment{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		Method:    models.PaymentCash,
		Amount:    order.TotalPrice,
		Status:    models.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.orders = append([]models.Order{order}, s.orders...)
	return created(c, "Order created", order)
}

func (s *Server) updateOrderStatus(c *fiber.Ctx) error {
	var req models.StatusPayload
	if err := c.BodyParser(&req); err != nil || !models.OrderStatus(req.Status).Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "Status must be pending or completed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.findOrder(c.Params("id"))
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "Order not found")
	}

	now := time.Now().UTC()
	o := &s.orders[i]
	o.Status = models.OrderStatus(req.Status)
	o.UpdatedAt = now
	if o.Status == models.OrderCompleted {
		o.CompletedAt = &now
	} else {
		o.CompletedAt = nil
	}
	return ok(c, *o)
}
