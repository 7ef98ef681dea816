package courseRoutes

import (
	controllers "trademaster/controllers/course"
	"trademaster/middleware"
	"trademaster/validators"
	courseValidator "trademaster/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseID := validators.IDParam("id", "courseID", "Course ID")

	userGroup := app.Group("/course")

	// Catalog
	userGroup.Get("/list", middleware.JWTMiddleware, validators.Pagination(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, courseID, controllers.GetCourseDetails)

	// Enrollment and payment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseID, courseValidator.EnrollCourse(), controllers.EnrollInCourse)
	userGroup.Post("/:id/payment/verify", middleware.JWTMiddleware, courseID, courseValidator.VerifyPayment(), controllers.VerifyCoursePayment)
}

// SetupContentRoutes sets up content listing, streaming and progress routes.
// ":id" is a course id on the list routes and a content id on the item routes.
func SetupContentRoutes(app *fiber.App) {
	courseID := validators.IDParam("id", "courseID", "Course ID")
	contentID := validators.IDParam("id", "contentID", "Content ID")

	contentGroup := app.Group("/content")

	contentGroup.Get("/:id", middleware.JWTMiddleware, courseID, controllers.GetCourseContent)
	contentGroup.Get("/:id/public", courseID, controllers.GetPublicContent)
	contentGroup.Get("/:id/my-progress", middleware.JWTMiddleware, courseID, controllers.GetMyProgress)

	// Media elements cannot send headers, so streaming also accepts ?token=
	contentGroup.Get("/:id/stream", middleware.StreamAuthMiddleware, contentID, controllers.StreamContent)
	contentGroup.Get("/:id/preview", contentID, controllers.PreviewContent)
	contentGroup.Post("/:id/complete", middleware.JWTMiddleware, contentID, controllers.MarkContentComplete)
}
