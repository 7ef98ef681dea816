package controllers

import (
	"time"
	"trademaster/database"
	"trademaster/middleware"
	courseModels "trademaster/models/course"
	"trademaster/services"
	"trademaster/utils/logger"
	"trademaster/validators"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentRow is one student in the per-course enrollment list.
type EnrollmentRow struct {
	ID            uint       `json:"id"`
	UserID        uint       `json:"user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PaymentStatus string     `json:"payment_status"`
	AmountPaid    float64    `json:"amount_paid"`
	CouponCode    string     `json:"coupon_code"`
	Progress      int        `json:"progress"`
	IsCompleted   bool       `json:"is_completed"`
	EnrolledAt    time.Time  `json:"enrolled_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// AdminGetCourseEnrollments lists the enrollments of a course. ?status= filters
// by payment status.
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedList").(*validators.PageQuery)

	db := database.Database.Db.Table("enrollments").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Where("enrollments.course_id = ? AND enrollments.deleted_at IS NULL", courseID)

	switch status := c.Query("status"); status {
	case "":
	case courseModels.PaymentPending, courseModels.PaymentCompleted, courseModels.PaymentRefunded:
		db = db.Where("enrollments.payment_status = ?", status)
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status filter!", nil)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "count enrollments"))
	}

	var rows []EnrollmentRow
	err := db.Select("enrollments.id, enrollments.user_id, users.name, users.email, enrollments.payment_status, " +
		"enrollments.amount_paid, enrollments.coupon_code, enrollments.progress, enrollments.is_completed, " +
		"enrollments.enrolled_at, enrollments.completed_at").
		Order("enrollments.enrolled_at desc").
		Offset(reqData.Offset()).Limit(reqData.Limit).
		Scan(&rows).Error
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "list enrollments"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": rows,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// AdminRefundEnrollment moves a completed enrollment to REFUNDED, revoking access.
func AdminRefundEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)

	enrollment, err := services.Refund(database.Database.Db, enrollmentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("Enrollment refunded", "enrollment_id", enrollmentID, "admin_id", c.Locals("userId"))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment refunded successfully!", enrollment)
}
