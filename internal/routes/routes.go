package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/laundrypro/internal/app"
	"github.com/example/laundrypro/internal/handlers"
	"github.com/example/laundrypro/internal/middleware"
	"github.com/example/laundrypro/internal/navigation"
)

// NewServer builds the console Fiber app with every route registered.
// gatherer may be nil, in which case /metrics is not served.
func NewServer(a *app.App, gatherer prometheus.Gatherer) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:      "LaundryPro Console",
		ErrorHandler: handlers.ErrorHandler,
	})

	server.Use(recover.New())
	server.Use(logger.New())

	Register(server, a, gatherer)
	return server
}

// Register wires up all console routes.
func Register(server *fiber.App, a *app.App, gatherer prometheus.Gatherer) {
	authHandler := handlers.NewAuthHandler(a)
	orderHandler := handlers.NewOrderHandler(a)
	catalogHandler := handlers.NewCatalogHandler(a)
	userHandler := handlers.NewUserHandler(a)
	profileHandler := handlers.NewProfileHandler(a)

	screen := func(s ...navigation.Screen) fiber.Handler {
		return middleware.RequireScreen(a.Gate, s...)
	}

	server.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if gatherer != nil {
		server.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	server.Get("/session", authHandler.Session)
	server.Get("/navigation", authHandler.Navigation)
	server.Get("/home", screen(navigation.ScreenHome), authHandler.Home)

	// Auth routes
	auth := server.Group("/auth")
	auth.Post("/phone", screen(navigation.ScreenLogin), authHandler.SubmitPhone)
	auth.Post("/otp", screen(navigation.ScreenOtp), authHandler.VerifyOTP)
	auth.Post("/otp/resend", screen(navigation.ScreenOtp), authHandler.ResendCode)
	auth.Post("/password", screen(navigation.ScreenLogin), authHandler.LoginWithPassword)
	auth.Post("/set-password", screen(navigation.ScreenSetPassword), authHandler.SetPassword)
	auth.Post("/resume", authHandler.Resume)
	auth.Post("/logout", authHandler.Logout)
	auth.Delete("/error", authHandler.ClearError)

	// Orders
	orders := server.Group("/orders")
	orders.Get("/", screen(navigation.ScreenOrderList), orderHandler.ListOrders)
	orders.Post("/more", screen(navigation.ScreenOrderList), orderHandler.LoadMoreOrders)
	orders.Delete("/error", screen(navigation.ScreenOrderList), orderHandler.ClearError)
	orders.Delete("/selection", screen(navigation.ScreenOrderDetail), orderHandler.ClearSelection)
	orders.Post("/", screen(navigation.ScreenCreateOrder), orderHandler.CreateOrder)
	orders.Get("/:id", screen(navigation.ScreenOrderDetail), orderHandler.GetOrder)
	orders.Patch("/:id/status", screen(navigation.ScreenOrderDetail), orderHandler.UpdateOrderStatus)

	// Services catalog
	services := server.Group("/services")
	services.Get("/", screen(navigation.ScreenServiceList), catalogHandler.ListServices)
	services.Post("/more", screen(navigation.ScreenServiceList), catalogHandler.LoadMoreServices)
	services.Get("/categories", screen(navigation.ScreenServiceList, navigation.ScreenServiceForm), catalogHandler.ListCategories)
	services.Delete("/error", screen(navigation.ScreenServiceList), catalogHandler.ClearError)
	services.Delete("/selection", screen(navigation.ScreenServiceDetail), catalogHandler.ClearSelection)
	services.Post("/", screen(navigation.ScreenServiceForm), catalogHandler.CreateService)
	services.Get("/:id", screen(navigation.ScreenServiceDetail), catalogHandler.GetService)
	services.Put("/:id", screen(navigation.ScreenServiceForm), catalogHandler.UpdateService)
	services.Delete("/:id", screen(navigation.ScreenServiceForm), catalogHandler.DeleteService)

	// Customers
	customers := server.Group("/customers")
	customers.Get("/", screen(navigation.ScreenCustomerList), userHandler.ListCustomers)
	customers.Post("/more", screen(navigation.ScreenCustomerList), userHandler.LoadMoreCustomers)
	customers.Delete("/error", screen(navigation.ScreenCustomerList), userHandler.ClearCustomerError)
	customers.Delete("/selection", screen(navigation.ScreenCustomerDetail), userHandler.ClearCustomerSelection)
	customers.Post("/", screen(navigation.ScreenCustomerForm), userHandler.CreateCustomer)
	customers.Get("/:id", screen(navigation.ScreenCustomerDetail), userHandler.GetCustomer)
	customers.Put("/:id", screen(navigation.ScreenCustomerForm), userHandler.UpdateCustomer)
	customers.Patch("/:id/status", screen(navigation.ScreenCustomerDetail), userHandler.UpdateCustomerStatus)

	// Staff
	staff := server.Group("/staff")
	staff.Get("/", screen(navigation.ScreenStaffList), userHandler.ListStaff)
	staff.Post("/more", screen(navigation.ScreenStaffList), userHandler.LoadMoreStaff)
	staff.Delete("/error", screen(navigation.ScreenStaffList), userHandler.ClearStaffError)
	staff.Delete("/selection", screen(navigation.ScreenStaffDetail), userHandler.ClearStaffSelection)
	staff.Post("/", screen(navigation.ScreenCreateStaff), userHandler.CreateStaff)
	staff.Get("/:id", screen(navigation.ScreenStaffDetail), userHandler.GetStaff)
	staff.Patch("/:id/status", screen(navigation.ScreenStaffDetail), userHandler.UpdateStaffStatus)

	// Profile
	profile := server.Group("/profile")
	profile.Get("/", screen(navigation.ScreenProfile), profileHandler.GetProfile)
	profile.Put("/", screen(navigation.ScreenEditProfile), profileHandler.UpdateProfile)
	profile.Put("/password", screen(navigation.ScreenChangePassword), profileHandler.ChangePassword)
	profile.Delete("/error", screen(navigation.ScreenProfile), profileHandler.ClearError)
}
