package controllers

import (
	"trademaster/database"
	"trademaster/middleware"
	courseModels "trademaster/models/course"
	"trademaster/services"
	"trademaster/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetAllCourses lists published courses
func GetAllCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedList").(*validators.PageQuery)

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "count courses"))
	}

	var courses []courseModels.Course
	if err := db.Offset(reqData.Offset()).Limit(reqData.Limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "list courses"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// GetCourseDetails returns a published course with its free-preview items and
// the caller's enrollment, if any.
func GetCourseDetails(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	var course courseModels.Course
	err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "load course"))
	}

	previews, err := services.ActiveContents(db, courseID, true)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var contentCount int64
	if err := db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).
		Count(&contentCount).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "count content"))
	}

	enrollment, err := services.FindEnrollment(db, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":        course,
		"content_count": contentCount,
		"previews":      previews,
		"enrollment":    enrollment,
	})
}
