package controllers

import (
	"trademaster/database"
	"trademaster/middleware"
	courseModels "trademaster/models/course"
	"trademaster/services"
	"trademaster/utils/logger"
	"trademaster/validators"
	courseValidator "trademaster/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Price:        reqData.Price,
		ThumbnailURL: reqData.ThumbnailURL,
		IsPublished:  reqData.IsPublished,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "create course"))
	}

	logger.Log.Info("Course created", "course_id", course.ID, "admin_id", c.Locals("userId"))
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminGetAllCourses lists every course, published or not
func AdminGetAllCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedList").(*validators.PageQuery)

	var courses []courseModels.Course
	var total int64

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "count courses"))
	}

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

// AdminCreateCoupon creates a discount coupon. Codes are unique.
func AdminCreateCoupon(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCoupon").(*courseValidator.CreateCouponRequest)

	coupon := courseModels.Coupon{
		Code:            reqData.Code,
		DiscountPercent: reqData.DiscountPercent,
		ExpiresAt:       reqData.ExpiresAt,
		IsActive:        true,
	}

	result := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&coupon)
	if result.Error != nil {
		return middleware.ErrorResponse(c, services.Internal(result.Error, "create coupon"))
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Coupon code already exists!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Coupon created successfully!", coupon)
}
