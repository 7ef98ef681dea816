package validators

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"trademaster/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Struct runs struct-tag validation and returns field -> message, or nil when valid.
func Struct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": "Invalid request!"}
	}
	errors := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		errors[fe.Field()] = message(fe)
	}
	return errors
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s!", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more!", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less!", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters!", field, fe.Param())
	case "email":
		return "Invalid email!"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits!", field)
	case "hexadecimal":
		return fmt.Sprintf("%s must be hexadecimal!", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL!", field)
	default:
		return fmt.Sprintf("%s is invalid!", field)
	}
}

// IDParam validates a positive integer path parameter and stores it as uint under local.
func IDParam(param, local, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params(param))
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}
		c.Locals(local, uint(id))
		return c.Next()
	}
}

// PageQuery is the shared page/limit query for list endpoints.
type PageQuery struct {
	Page  int `query:"page" validate:"omitempty,gte=1"`
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

// Offset returns the row offset for the page.
func (q *PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination parses page/limit (defaults 1 and 10) into Locals "validatedList".
func Pagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PageQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errors := Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}
		if reqData.Page == 0 {
			reqData.Page = 1
		}
		if reqData.Limit == 0 {
			reqData.Limit = 10
		}
		c.Locals("validatedList", reqData)
		return c.Next()
	}
}
