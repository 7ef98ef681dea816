package routers

import (
	"trademaster/config"
	"trademaster/middleware"
	"trademaster/routers/authRoutes"
	"trademaster/routers/courseRoutes"
	userProfileRoutes "trademaster/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the Fiber application with middleware and all routes registered.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    config.AppConfig.MaxUploadMB * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.AppConfig.CorsOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE",
		AllowHeaders:  "Content-Type,Authorization,Range",
		ExposeHeaders: "Content-Range,Accept-Ranges,Content-Length",
	}))

	// ${path} excludes the query string, so ?token= never reaches the access log
	app.Use(fiberLogger.New(fiberLogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupContentRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return middleware.JsonResponse(c, fe.Code, false, fe.Message, nil)
	}
	return middleware.ErrorResponse(c, err)
}
