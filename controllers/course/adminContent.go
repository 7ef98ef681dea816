package controllers

import (
	"mime/multipart"
	"trademaster/config"
	"trademaster/database"
	"trademaster/middleware"
	courseModels "trademaster/models/course"
	"trademaster/services"
	"trademaster/utils"
	"trademaster/utils/logger"
	courseValidator "trademaster/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// uploadedFile returns the optional "file" part, or nil when none was sent.
func uploadedFile(c *fiber.Ctx) *multipart.FileHeader {
	file, err := c.FormFile("file")
	if err != nil || file == nil || file.Size == 0 {
		return nil
	}
	return file
}

// AdminCreateContent creates a content item, storing the uploaded file if present.
func AdminCreateContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedContent").(*courseValidator.ContentRequest)
	db := database.Database.Db

	var course courseModels.Course
	err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "load course"))
	}

	content := courseModels.CourseContent{
		CourseID:      courseID,
		Title:         reqData.Title,
		Description:   reqData.Description,
		ContentType:   reqData.ContentType,
		OrderIndex:    reqData.OrderIndex,
		IsFreePreview: reqData.IsFreePreview,
		IsActive:      true,
		ExternalURL:   reqData.ExternalURL,
	}

	if file := uploadedFile(c); file != nil {
		stored, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			return middleware.ErrorResponse(c, services.Internal(err, "save upload"))
		}
		stored.Attach(&content)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&content).Error; err != nil {
			return err
		}
		// Zero values are skipped on create, so an inactive item needs an explicit update.
		if reqData.IsActive != nil && !*reqData.IsActive {
			content.IsActive = false
			return tx.Model(&content).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		if rmErr := services.RemoveStoredFile(config.AppConfig.UploadDir, content.FilePath); rmErr != nil {
			logger.Log.Warn("Failed to remove orphaned upload", "path", content.FilePath, "error", rmErr)
		}
		return middleware.ErrorResponse(c, services.Internal(err, "create content"))
	}

	logger.Log.Info("Content created", "content_id", content.ID, "course_id", courseID, "has_file", content.HasFile())
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully!", content)
}

// AdminUpdateContent patches content metadata. A new file replaces the old one.
func AdminUpdateContent(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(uint)
	reqData := c.Locals("validatedContentUpdate").(*courseValidator.ContentUpdateRequest)
	db := database.Database.Db
	root := config.AppConfig.UploadDir

	var content courseModels.CourseContent
	err := db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "load content"))
	}

	if reqData.Title != nil {
		content.Title = *reqData.Title
	}
	if reqData.Description != nil {
		content.Description = *reqData.Description
	}
	if reqData.ContentType != nil {
		content.ContentType = *reqData.ContentType
	}
	if reqData.OrderIndex != nil {
		content.OrderIndex = *reqData.OrderIndex
	}
	if reqData.IsFreePreview != nil {
		content.IsFreePreview = *reqData.IsFreePreview
	}
	if reqData.IsActive != nil {
		content.IsActive = *reqData.IsActive
	}
	if reqData.ExternalURL != nil {
		content.ExternalURL = *reqData.ExternalURL
	}

	file := uploadedFile(c)
	if file == nil {
		if err := db.Save(&content).Error; err != nil {
			return middleware.ErrorResponse(c, services.Internal(err, "update content"))
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully!", content)
	}

	stored, err := utils.SaveUploadedFile(file, root)
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "save upload"))
	}
	if err := services.ReplaceFile(db, root, &content, stored); err != nil {
		if rmErr := services.RemoveStoredFile(root, stored.Path); rmErr != nil {
			logger.Log.Warn("Failed to remove orphaned upload", "path", stored.Path, "error", rmErr)
		}
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("Content file replaced", "content_id", content.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully!", content)
}

// AdminDeleteContent removes a content item and its stored file.
func AdminDeleteContent(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(uint)

	if err := services.DeleteContent(database.Database.Db, config.AppConfig.UploadDir, contentID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("Content deleted", "content_id", contentID, "admin_id", c.Locals("userId"))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully!", nil)
}
