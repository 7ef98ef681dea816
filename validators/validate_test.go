package validators

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Kind  string `form:"content_type" validate:"oneof=VIDEO DOCUMENT"`
	Count int    `query:"count" validate:"gte=1"`
}

func TestStructReportsWireNames(t *testing.T) {
	errs := Struct(&sample{Email: "bad", Kind: "AUDIO"})
	require.NotNil(t, errs)
	assert.Equal(t, "Invalid email!", errs["email"])
	assert.Equal(t, "content type must be one of: VIDEO DOCUMENT!", errs["content_type"])
	assert.Equal(t, "count must be 1 or more!", errs["count"])

	assert.Nil(t, Struct(&sample{Email: "a@b.co", Kind: "VIDEO", Count: 1}))
}

func TestIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/item/:id", IDParam("id", "itemID", "Item ID"), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("itemID"))
	})

	for target, want := range map[string]int{
		"/item/12":  fiber.StatusOK,
		"/item/0":   fiber.StatusBadRequest,
		"/item/-3":  fiber.StatusBadRequest,
		"/item/abc": fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, target)
	}
}

func TestPaginationDefaultsAndBounds(t *testing.T) {
	app := fiber.New()
	app.Get("/list", Pagination(), func(c *fiber.Ctx) error {
		q := c.Locals("validatedList").(*PageQuery)
		return c.JSON(fiber.Map{"page": q.Page, "limit": q.Limit, "offset": q.Offset()})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/list", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/list?limit=500", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	q := &PageQuery{Page: 3, Limit: 20}
	assert.Equal(t, 40, q.Offset())
}
