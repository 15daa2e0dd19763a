package services

import (
	"context"
	"net/http"

	"github.com/example/laundrypro/internal/apiclient"
	"github.com/example/laundrypro/internal/models"
)

// StaffService is the admin view over /users/users.
type StaffService struct {
	api Requester
}

func NewStaffService(api Requester) *StaffService {
	return &StaffService{api: api}
}

// List defaults the role filter to staff.
func (s *StaffService) List(ctx context.Context, f models.UserFilter, page int) (models.Page[models.User], error) {
	q := pageQuery(page, f.Limit)
	role := f.Role
	if role == "" {
		role = models.RoleStaff
	}
	q.Set("role", string(role))
	setIf(q, "search", f.Search)
	setIf(q, "status", string(f.Status))

	var out models.UserList
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/users/users", Query: q}, &out)
	return models.Page[models.User]{Items: out.Users, Pagination: out.Pagination}, err
}

func (s *StaffService) Get(ctx context.Context, id string) (models.User, error) {
	var out models.User
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/users/users/" + escape(id)}, &out)
	return out, err
}

func (s *StaffService) Create(ctx context.Context, p models.CreateStaffPayload) (models.User, error) {
	var out models.User
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/users/users/staff", Body: p}, &out)
	return out, err
}

func (s *StaffService) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	return updateAccountStatus(ctx, s.api, id, status)
}
