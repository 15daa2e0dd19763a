package mockapi

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/laundrypro/internal/models"
)

// findService looks up a service by id. Callers hold s.mu.
func (s *Server) findService(id string) (models.Service, bool) {
	for _, svc := range s.services {
		if svc.ID == id {
			return svc, true
		}
	}
	return models.Service{}, false
}

func (s *Server) listServices(c *fiber.Ctx) error {
	category := c.Query("category")
	search := c.Query("search")

	var active *bool
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "active must be true or false")
		}
		active = &b
	}
	minPrice, err := optionalFloat(c.Query("minPrice"))
	if err != nil {
		return err
	}
	maxPrice, err := optionalFloat(c.Query("maxPrice"))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		switch {
		case active != nil && svc.Active != *active:
		case category != "" && svc.Category != category:
		case search != "" && !containsFold(svc.Name, search):
		case minPrice != nil && svc.Price < *minPrice:
		case maxPrice != nil && svc.Price > *maxPrice:
		default:
			out = append(out, svc)
		}
	}
	return ok(c, out)
}

func (s *Server) listCategories(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]struct{}{}
	out := []string{}
	for _, svc := range s.services {
		if _, dup := seen[svc.Category]; dup {
			continue
		}
		seen[svc.Category] = struct{}{}
		out = append(out, svc.Category)
	}
	sort.Strings(out)
	return ok(c, out)
}

func (s *Server) getService(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, found := s.findService(c.Params("id"))
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "Service not found")
	}
	return ok(c, svc)
}

// applyServiceForm copies the multipart fields present in the request onto svc.
func applyServiceForm(c *fiber.Ctx, svc *models.Service) error {
	if v := strings.TrimSpace(c.FormValue("name")); v != "" {
		svc.Name = v
	}
	if v := strings.TrimSpace(c.FormValue("category")); v != "" {
		svc.Category = v
	}
	if v := strings.TrimSpace(c.FormValue("unit")); v != "" {
		svc.Unit = v
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price must be a positive number")
		}
		svc.Price = price
	}
	if v := c.FormValue("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "active must be true or false")
		}
		svc.Active = active
	}
	if file, err := c.FormFile("image"); err == nil {
		svc.Image = "/uploads/services/" + uuid.NewString() + "-" + file.Filename
	}
	return nil
}

func (s *Server) createService(c *fiber.Ctx) error {
	svc := models.Service{Active: true}
	if err := applyServiceForm(c, &svc); err != nil {
		return err
	}
	if svc.Name == "" || svc.Category == "" || svc.Unit == "" || svc.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Name, category, price and unit are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return created(c, "Service created", s.insertService(svc))
}

func (s *Server) updateService(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Params("id")
	for i := range s.services {
		if s.services[i].ID != id {
			continue
		}
		updated := s.services[i]
		if err := applyServiceForm(c, &updated); err != nil {
			return err
		}
		updated.UpdatedAt = time.Now().UTC()
		s.services[i] = updated
		return ok(c, updated)
	}
	return fiber.NewError(fiber.StatusNotFound, "Service not found")
}

func (s *Server) deleteService(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Params("id")
	for i := range s.services {
		if s.services[i].ID == id {
			s.services = append(s.services[:i], s.services[i+1:]...)
			return c.JSON(models.Envelope[any]{Success: true, Message: "Service deleted"})
		}
	}
	return fiber.NewError(fiber.StatusNotFound, "Service not found")
}

func optionalFloat(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "price filters must be numbers")
	}
	return &f, nil
}
