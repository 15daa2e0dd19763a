package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/app"
	"github.com/example/laundrypro/internal/models"
)

// CatalogHandler exposes the services catalog.
type CatalogHandler struct {
	app *app.App
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(a *app.App) *CatalogHandler {
	return &CatalogHandler{app: a}
}

func serviceFilter(c *fiber.Ctx) (models.ServiceFilter, error) {
	f := models.ServiceFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "active must be true or false")
		}
		f.Active = &b
	}
	for key, dst := range map[string]**float64{"minPrice": &f.MinPrice, "maxPrice": &f.MaxPrice} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, key+" must be a number")
		}
		*dst = &p
	}
	return f, nil
}

// servicePayload reads the multipart service form. Absent fields stay nil.
func servicePayload(c *fiber.Ctx) (models.ServicePayload, error) {
	p := models.ServicePayload{
		Name:     formString(c, "name"),
		Category: formString(c, "category"),
		Unit:     formString(c, "unit"),
	}
	var err error
	if p.Price, err = formFloat(c, "price"); err != nil {
		return p, err
	}
	if p.Active, err = formBool(c, "active"); err != nil {
		return p, err
	}
	if p.Image, err = formUpload(c, "image"); err != nil {
		return p, err
	}
	return p, nil
}

func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	filter, err := serviceFilter(c)
	if err != nil {
		return err
	}
	if err := h.app.Services.Fetch(c.UserContext(), filter); err != nil {
		return fail(err, "Could not load services")
	}
	return success(c, h.app.Services.Snapshot())
}

func (h *CatalogHandler) LoadMoreServices(c *fiber.Ctx) error {
	filter, err := serviceFilter(c)
	if err != nil {
		return err
	}
	if err := h.app.Services.LoadMore(c.UserContext(), filter); err != nil {
		return fail(err, "Could not load more services")
	}
	return success(c, h.app.Services.Snapshot())
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.app.Services.FetchCategories(c.UserContext())
	if err != nil {
		return fail(err, "Could not load categories")
	}
	return success(c, categories)
}

func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	svc, err := h.app.Services.FetchOne(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(err, "Could not load the service")
	}
	return success(c, svc)
}

func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	payload, err := servicePayload(c)
	if err != nil {
		return err
	}

	svc, err := h.app.Services.Create(c.UserContext(), payload)
	if err != nil {
		return fail(err, "Could not create the service")
	}
	return created(c, svc)
}

func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	payload, err := servicePayload(c)
	if err != nil {
		return err
	}

	svc, err := h.app.Services.Update(c.UserContext(), c.Params("id"), payload)
	if err != nil {
		return fail(err, "Could not update the service")
	}
	return success(c, svc)
}

func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	if err := h.app.Services.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(err, "Could not delete the service")
	}
	return success(c, h.app.Services.Snapshot())
}

func (h *CatalogHandler) ClearError(c *fiber.Ctx) error {
	h.app.Services.ClearError()
	return success(c, h.app.Services.Snapshot())
}

func (h *CatalogHandler) ClearSelection(c *fiber.Ctx) error {
	h.app.Services.ClearSelection()
	return success(c, h.app.Services.Snapshot())
}
