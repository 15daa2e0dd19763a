package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrypro/internal/navigation"
)

const routeContextKey = "navigationRoute"

// RequireScreen lets the request through when any of screens is reachable in
// the current navigation decision. Anonymous sessions get 401; a session
// confined elsewhere gets 403.
func RequireScreen(gate *navigation.Gate, screens ...navigation.Screen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route := gate.Current()
		for _, s := range screens {
			if route.Allows(s) {
				c.Locals(routeContextKey, route)
				return c.Next()
			}
		}

		if route.Group == navigation.GroupAuth {
			return fiber.NewError(fiber.StatusUnauthorized, "please log in first")
		}
		return fiber.NewError(fiber.StatusForbidden, "this screen is not available for your account")
	}
}

// GetCurrentRoute returns the decision the request was admitted under.
func GetCurrentRoute(c *fiber.Ctx) (navigation.Route, bool) {
	route, ok := c.Locals(routeContextKey).(navigation.Route)
	return route, ok
}
