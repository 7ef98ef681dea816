package controllers

import (
	"trademaster/config"
	"trademaster/database"
	"trademaster/middleware"
	courseModels "trademaster/models/course"
	"trademaster/services"

	"github.com/gofiber/fiber/v2"
)

// ContentWithProgress is a content item annotated with the caller's completion.
type ContentWithProgress struct {
	courseModels.CourseContent
	IsCompleted bool `json:"is_completed"`
}

func isPublishedCourse(courseID uint) (bool, error) {
	var count int64
	if err := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&count).Error; err != nil {
		return false, services.Internal(err, "load course")
	}
	return count > 0, nil
}

func streamOptions() services.StreamOptions {
	return services.StreamOptions{
		Root:        config.AppConfig.UploadDir,
		IdleTimeout: config.AppConfig.StreamIdleTimeout,
		CacheMaxAge: config.AppConfig.StreamCacheMaxAge,
	}
}

// GetCourseContent returns the ordered content of a course the caller is
// entitled to, with their enrollment and completion state.
func GetCourseContent(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	allowed, reason, err := services.CanAccessCourse(db, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied: "+reason+"!", nil)
	}

	contents, err := services.ActiveContents(db, courseID, false)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	completed, err := services.CompletedContentIDs(db, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	enrollment, err := services.FindEnrollment(db, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	result := make([]ContentWithProgress, len(contents))
	completedIDs := make([]uint, 0, len(completed))
	for i, content := range contents {
		result[i] = ContentWithProgress{CourseContent: content, IsCompleted: completed[content.ID]}
		if completed[content.ID] {
			completedIDs = append(completedIDs, content.ID)
		}
	}

	summary := services.ProgressSummary{
		Completed:  int64(len(completedIDs)),
		Total:      int64(len(contents)),
		Percentage: services.Percentage(int64(len(completedIDs)), int64(len(contents))),
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"contents":              result,
		"enrollment":            enrollment,
		"completed_content_ids": completedIDs,
		"progress":              summary,
	})
}

// GetPublicContent lists the free-preview items of a course. No auth.
func GetPublicContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	published, err := isPublishedCourse(courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !published {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	contents, err := services.ActiveContents(database.Database.Db, courseID, true)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Preview content fetched successfully!", fiber.Map{
		"contents": contents,
	})
}

// StreamContent serves the stored file of a content item to an entitled caller.
func StreamContent(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	contentID := c.Locals("contentID").(uint)

	content, err := services.Authorize(database.Database.Db, userID, contentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := services.ServeFile(c, content, streamOptions()); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return nil
}

// PreviewContent serves a free-preview file without authentication.
func PreviewContent(c *fiber.Ctx) error {
	contentID := c.Locals("contentID").(uint)

	content, err := services.FindActiveContent(database.Database.Db, contentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !content.IsFreePreview {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied: content is not a free preview!", nil)
	}
	if err := services.ServeFile(c, content, streamOptions()); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return nil
}

// MarkContentComplete records completion of a content item. Repeats are no-ops.
func MarkContentComplete(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	contentID := c.Locals("contentID").(uint)
	db := database.Database.Db

	summary, err := services.MarkCompleted(db, userID, contentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	content, err := services.FindActiveContent(db, contentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	enrollment, err := services.FindEnrollment(db, userID, content.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content marked as completed!", fiber.Map{
		"completed":  summary.Completed,
		"total":      summary.Total,
		"percentage": summary.Percentage,
		"enrollment": enrollment,
	})
}

// GetMyProgress returns the caller's progress in a course with the completed items.
func GetMyProgress(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	published, err := isPublishedCourse(courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !published {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	allowed, reason, err := services.CanAccessCourse(db, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied: "+reason+"!", nil)
	}

	summary, err := services.CourseProgress(db, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	completed, err := services.CompletedContents(db, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"completed":          summary.Completed,
		"total":              summary.Total,
		"percentage":         summary.Percentage,
		"completed_contents": completed,
	})
}
