package mockapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/models"
)

func (s *Server) routes() {
	app := s.app
	auth := s.requireAuth
	counter := requireRole(models.RoleStaff, models.RoleAdmin)
	admin := requireRole(models.RoleAdmin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(models.Envelope[string]{Success: true, Data: "ok"})
	})

	app.Post("/identity/:method", s.identity)

	v1 := app.Group("/v1")

	users := v1.Group("/users")
	users.Post("/check-login", s.checkLogin)
	users.Post("/login/otp", s.loginOTP)
	users.Post("/login/password", s.loginPassword)
	users.Post("/refresh-token", s.refreshToken)
	users.Post("/logout", s.logout)
	users.Get("/profile", auth, s.getProfile)
	users.Put("/profile", auth, s.updateProfile)
	users.Post("/password", auth, s.setPassword)
	users.Put("/password", auth, s.changePassword)

	users.Get("/customers", auth, counter, s.listCustomers)
	users.Post("/customers", auth, counter, s.createCustomer)
	users.Get("/customers/:id", auth, counter, s.getCustomer)
	users.Put("/customers/:id", auth, counter, s.updateCustomer)

	users.Get("/users", auth, admin, s.listUsers)
	users.Post("/users/staff", auth, admin, s.createStaff)
	users.Get("/users/:id", auth, admin, s.getUser)
	users.Patch("/users/:id/status", auth, admin, s.updateUserStatus)

	orders := v1.Group("/orders")
	orders.Get("/my-orders", auth, s.listMyOrders)
	orders.Get("/my-orders/:id", auth, s.getMyOrder)
	orders.Get("/", auth, counter, s.listOrders)
	orders.Post("/", auth, counter, s.createOrder)
	orders.Get("/:id", auth, counter, s.getOrder)
	orders.Patch("/:id/status", auth, counter, s.updateOrderStatus)

	catalog := v1.Group("/services")
	catalog.Get("/", s.listServices)
	catalog.Get("/categories", s.listCategories)
	catalog.Get("/:id", s.getService)
	catalog.Post("/", auth, admin, s.createService)
	catalog.Put("/:id", auth, admin, s.updateService)
	catalog.Delete("/:id", auth, admin, s.deleteService)
}
