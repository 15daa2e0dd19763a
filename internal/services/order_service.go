package services

import (
	"context"
	"net/http"

	"github.com/example/laundrypro/internal/apiclient"
	"github.com/example/laundrypro/internal/models"
)

// OrderService picks the customer or the staff endpoints from the acting role.
type OrderService struct {
	api Requester
}

func NewOrderService(api Requester) *OrderService {
	return &OrderService{api: api}
}

func listPath(role models.Role) string {
	if role.IsStaffOrAdmin() {
		return "/orders"
	}
	return "/orders/my-orders"
}

// List returns one page of orders visible to role. Customers only ever get
// their own orders and the staff-only filters are not sent for them.
func (s *OrderService) List(ctx context.Context, role models.Role, f models.OrderFilter, page int) (models.Page[models.Order], error) {
	q := pageQuery(page, f.Limit)
	setIf(q, "status", string(f.Status))
	if role.IsStaffOrAdmin() {
		setIf(q, "customerId", f.CustomerID)
		setIf(q, "createdBy", f.CreatedBy)
		setIf(q, "customerPhone", f.CustomerPhone)
		setIf(q, "startDate", f.StartDate)
		setIf(q, "endDate", f.EndDate)
	}

	var out models.OrderList
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   listPath(role),
		Query:  q,
	}, &out)
	return models.Page[models.Order]{Items: out.Orders, Pagination: out.Pagination}, err
}

func (s *OrderService) Get(ctx context.Context, role models.Role, id string) (models.Order, error) {
	var out models.Order
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   listPath(role) + "/" + escape(id),
	}, &out)
	return out, err
}

// Create places an order; the server provisions the customer when the phone is unknown.
func (s *OrderService) Create(ctx context.Context, p models.CreateOrderPayload) (models.Order, error) {
	var out models.Order
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   p,
	}, &out)
	return out, err
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	var out models.Order
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPatch,
		Path:   "/orders/" + escape(id) + "/status",
		Body:   models.StatusPayload{Status: string(status)},
	}, &out)
	return out, err
}
