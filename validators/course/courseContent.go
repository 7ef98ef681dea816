package courseValidator

import (
	"strings"
	"trademaster/middleware"
	"trademaster/validators"

	"github.com/gofiber/fiber/v2"
)

// ContentRequest is the multipart metadata for creating content. The file part
// is read separately as "file".
type ContentRequest struct {
	Title         string `form:"title" validate:"required,min=3,max=150"`
	Description   string `form:"description" validate:"max=2000"`
	ContentType   string `form:"content_type" validate:"required,oneof=VIDEO DOCUMENT QUIZ ASSIGNMENT"`
	OrderIndex    int    `form:"order_index" validate:"gte=1"`
	IsFreePreview bool   `form:"is_free_preview"`
	IsActive      *bool  `form:"is_active"`
	ExternalURL   string `form:"external_url" validate:"omitempty,url"`
}

// ContentUpdateRequest patches content; nil fields are left unchanged.
type ContentUpdateRequest struct {
	Title         *string `form:"title" validate:"omitempty,min=3,max=150"`
	Description   *string `form:"description" validate:"omitempty,max=2000"`
	ContentType   *string `form:"content_type" validate:"omitempty,oneof=VIDEO DOCUMENT QUIZ ASSIGNMENT"`
	OrderIndex    *int    `form:"order_index" validate:"omitempty,gte=1"`
	IsFreePreview *bool   `form:"is_free_preview"`
	IsActive      *bool   `form:"is_active"`
	ExternalURL   *string `form:"external_url" validate:"omitempty,url"`
}

func CreateContentAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &ContentRequest{OrderIndex: 1}
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.ContentType = strings.ToUpper(strings.TrimSpace(reqData.ContentType))

		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

func UpdateContentAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ContentUpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.ContentType != nil {
			upper := strings.ToUpper(strings.TrimSpace(*reqData.ContentType))
			reqData.ContentType = &upper
		}

		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContentUpdate", reqData)
		return c.Next()
	}
}
