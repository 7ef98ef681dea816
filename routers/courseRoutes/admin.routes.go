package courseRoutes

import (
	controllers "trademaster/controllers/course"
	"trademaster/middleware"
	"trademaster/validators"
	courseValidator "trademaster/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	courseID := validators.IDParam("id", "courseID", "Course ID")

	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)

	// Courses
	adminGroup.Post("/course", courseValidator.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Get("/course/list", validators.Pagination(), controllers.AdminGetAllCourses)

	// Content management
	adminGroup.Post("/course/:id/content", courseID, courseValidator.CreateContentAdmin(), controllers.AdminCreateContent)
	adminGroup.Put("/content/:id", validators.IDParam("id", "contentID", "Content ID"), courseValidator.UpdateContentAdmin(), controllers.AdminUpdateContent)
	adminGroup.Delete("/content/:id", validators.IDParam("id", "contentID", "Content ID"), controllers.AdminDeleteContent)

	// Coupons
	adminGroup.Post("/coupon", courseValidator.CreateCoupon(), controllers.AdminCreateCoupon)

	// Enrollments
	adminGroup.Get("/course/:id/enrollments", courseID, validators.Pagination(), controllers.AdminGetCourseEnrollments)
	adminGroup.Post("/enrollment/:id/refund", validators.IDParam("id", "enrollmentID", "Enrollment ID"), controllers.AdminRefundEnrollment)
}
