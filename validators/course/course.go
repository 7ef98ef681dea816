package courseValidator

import (
	"strings"
	"time"
	"trademaster/middleware"
	"trademaster/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=100"`
	Description  string  `json:"description" validate:"max=1000"`
	Price        float64 `json:"price" validate:"gte=0"`
	ThumbnailURL string  `json:"thumbnail_url" validate:"omitempty,url"`
	IsPublished  bool    `json:"is_published"`
}

type CreateCouponRequest struct {
	Code            string     `json:"code" validate:"required,alphanum,min=3,max=20"`
	DiscountPercent int        `json:"discount_percent" validate:"required,gte=1,lte=100"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// Normalize and sanitize inputs
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		errors := validators.Struct(reqData)
		if strings.ContainsAny(reqData.Title, "<>{}") {
			if errors == nil {
				errors = map[string]string{}
			}
			errors["title"] = "Title contains invalid characters (e.g., <, >, {, })!"
		}
		if errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func CreateCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCouponRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Code = strings.ToUpper(strings.TrimSpace(reqData.Code))

		errors := validators.Struct(reqData)
		if reqData.ExpiresAt != nil && reqData.ExpiresAt.Before(time.Now()) {
			if errors == nil {
				errors = map[string]string{}
			}
			errors["expires_at"] = "Expiry must be in the future!"
		}
		if errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCoupon", reqData)
		return c.Next()
	}
}
