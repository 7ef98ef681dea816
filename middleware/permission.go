package middleware

import (
	"trademaster/models"

	"github.com/gofiber/fiber/v2"
)

// AdminOnly must run after JWTMiddleware; it rejects callers without the ADMIN role
func AdminOnly(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}
	return c.Next()
}
