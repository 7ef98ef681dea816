package courseValidator

import (
	"strings"
	"trademaster/middleware"
	"trademaster/validators"

	"github.com/gofiber/fiber/v2"
)

type EnrollRequest struct {
	CouponCode string `json:"coupon_code" validate:"omitempty,alphanum,min=3,max=20"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required,max=100"`
	PaymentID string `json:"payment_id" validate:"required,max=100"`
	Signature string `json:"signature" validate:"required,hexadecimal,len=64"`
}

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)

		// Empty body is fine: no coupon
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		reqData.CouponCode = strings.TrimSpace(reqData.CouponCode)

		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyPaymentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.OrderID = strings.TrimSpace(reqData.OrderID)
		reqData.PaymentID = strings.TrimSpace(reqData.PaymentID)
		reqData.Signature = strings.TrimSpace(reqData.Signature)

		if errors := validators.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}
