package userProfileController

import (
	"trademaster/database"
	"trademaster/middleware"
	"trademaster/models"
	courseModels "trademaster/models/course"
	"trademaster/services"
	"trademaster/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetProfile returns the signed-in user
func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var user models.User
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "load user"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// GetMyEnrollments lists the caller's enrollments with their courses
func GetMyEnrollments(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedList").(*validators.PageQuery)

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "count enrollments"))
	}

	var enrollments []courseModels.Enrollment
	if err := db.Preload("Course").Order("enrolled_at desc").
		Offset(reqData.Offset()).Limit(reqData.Limit).
		Find(&enrollments).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "list enrollments"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
