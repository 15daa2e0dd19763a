package mockapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/utils"
)

func matchesUser(u models.User, search string, status models.UserStatus) bool {
	if status != "" && u.Status != status {
		return false
	}
	if search == "" {
		return true
	}
	return containsFold(u.Name, search) || strings.Contains(u.Phone, search) || containsFold(u.Email, search)
}

func (s *Server) listCustomers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	search := c.Query("search")
	status := models.UserStatus(c.Query("status"))

	s.mu.Lock()
	all := s.sortedUsers(func(u models.User) bool {
		return u.Role == models.RoleCustomer && matchesUser(u, search, status)
	})
	s.mu.Unlock()

	items, meta := paginate(all, pg)
	return ok(c, models.CustomerList{Customers: items, Pagination: meta})
}

func (s *Server) getCustomer(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[c.Params("id")]
	if acc == nil || acc.user.Role != models.RoleCustomer {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}
	return ok(c, acc.user)
}

func (s *Server) createCustomer(c *fiber.Ctx) error {
	var req models.CreateCustomerPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone and name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.addAccount(models.User{
		Phone:   req.Phone,
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Note:    req.Note,
		Role:    models.RoleCustomer,
	}, "")
	if err != nil {
		return err
	}
	return created(c, "Customer created", u)
}

func (s *Server) updateCustomer(c *fiber.Ctx) error {
	var req models.UpdateCustomerPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[c.Params("id")]
	if acc == nil || acc.user.Role != models.RoleCustomer {
		return fiber.NewError(fiber.StatusNotFound, "Customer not found")
	}
	if req.Name != nil {
		acc.user.Name = *req.Name
	}
	if req.Email != nil {
		acc.user.Email = *req.Email
	}
	if req.Address != nil {
		acc.user.Address = *req.Address
	}
	if req.Note != nil {
		acc.user.Note = *req.Note
	}
	acc.user.UpdatedAt = time.Now().UTC()
	return ok(c, acc.user)
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	role := models.Role(c.Query("role"))
	search := c.Query("search")
	status := models.UserStatus(c.Query("status"))

	s.mu.Lock()
	all := s.sortedUsers(func(u models.User) bool {
		return (role == "" || u.Role == role) && matchesUser(u, search, status)
	})
	s.mu.Unlock()

	items, meta := paginate(all, pg)
	return ok(c, models.UserList{Users: items, Pagination: meta})
}

func (s *Server) getUser(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[c.Params("id")]
	if acc == nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return ok(c, acc.user)
}

// createStaff adds an unverified staff account without a password; the new
// member logs in by OTP first.
func (s *Server) createStaff(c *fiber.Ctx) error {
	var req models.CreateStaffPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone and name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.addAccount(models.User{
		Phone: req.Phone,
		Name:  req.Name,
		Email: req.Email,
		Role:  models.RoleStaff,
	}, "")
	if err != nil {
		return err
	}
	return created(c, "Staff created", u)
}

func (s *Server) updateUserStatus(c *fiber.Ctx) error {
	var req models.StatusPayload
	if err := c.BodyParser(&req); err != nil || !models.UserStatus(req.Status).Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "Status must be active or suspended")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[c.Params("id")]
	if acc == nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if acc.user.ID == currentUserID(c) {
		return fiber.NewError(fiber.StatusBadRequest, "You cannot change your own status")
	}
	acc.user.Status = models.UserStatus(req.Status)
	acc.user.UpdatedAt = time.Now().UTC()
	return ok(c, acc.user)
}
