package controllers

import (
	"trademaster/config"
	"trademaster/database"
	"trademaster/middleware"
	"trademaster/services"
	"trademaster/utils/logger"
	courseValidator "trademaster/validators/course"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse creates an enrollment. Paid courses start PENDING until the
// gateway payment is verified; free ones complete immediately.
func EnrollInCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedEnrollment").(*courseValidator.EnrollRequest)

	enrollment, err := services.Enroll(database.Database.Db, userID, courseID, reqData.CouponCode)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("Enrollment created", "user_id", userID, "course_id", courseID, "status", enrollment.PaymentStatus)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// VerifyCoursePayment confirms a gateway payment and completes the enrollment.
func VerifyCoursePayment(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedPayment").(*courseValidator.VerifyPaymentRequest)

	enrollment, err := services.ConfirmPayment(database.Database.Db, config.AppConfig.RazorpayKeySecret,
		userID, courseID, reqData.OrderID, reqData.PaymentID, reqData.Signature)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("Payment verified", "user_id", userID, "course_id", courseID, "payment_id", reqData.PaymentID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully!", enrollment)
}
