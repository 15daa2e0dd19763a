package services

import (
	"context"
	"net/http"

	"github.com/example/laundrypro/internal/apiclient"
	"github.com/example/laundrypro/internal/models"
)

type CustomerService struct {
	api Requester
}

func NewCustomerService(api Requester) *CustomerService {
	return &CustomerService{api: api}
}

func (s *CustomerService) List(ctx context.Context, f models.UserFilter, page int) (models.Page[models.User], error) {
	q := pageQuery(page, f.Limit)
	setIf(q, "search", f.Search)
	setIf(q, "status", string(f.Status))

	var out models.CustomerList
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/users/customers", Query: q}, &out)
	return models.Page[models.User]{Items: out.Customers, Pagination: out.Pagination}, err
}

func (s *CustomerService) Get(ctx context.Context, id string) (models.User, error) {
	var out models.User
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/users/customers/" + escape(id)}, &out)
	return out, err
}

func (s *CustomerService) Create(ctx context.Context, p models.CreateCustomerPayload) (models.User, error) {
	var out models.User
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/users/customers", Body: p}, &out)
	return out, err
}

func (s *CustomerService) Update(ctx context.Context, id string, p models.UpdateCustomerPayload) (models.User, error) {
	var out models.User
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: "/users/customers/" + escape(id), Body: p}, &out)
	return out, err
}

// UpdateStatus goes through the account endpoint shared with staff.
func (s *CustomerService) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	return updateAccountStatus(ctx, s.api, id, status)
}

func updateAccountStatus(ctx context.Context, api Requester, id string, status models.UserStatus) error {
	return api.Do(ctx, apiclient.Request{
		Method: http.MethodPatch,
		Path:   "/users/users/" + escape(id) + "/status",
		Body:   models.StatusPayload{Status: string(status)},
	}, nil)
}
