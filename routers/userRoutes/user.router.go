package userProfileRoutes

import (
	userProfileController "trademaster/controllers/userControllers"
	"trademaster/middleware"
	"trademaster/validators"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", userProfileController.GetProfile)
	userGroup.Get("/enrollments", validators.Pagination(), userProfileController.GetMyEnrollments)
}
