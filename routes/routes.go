package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/middleware"
	"github.com/meinhoongagan/feastbook/utils"
)

// NewApp builds the fiber application with every route mounted.
func NewApp(deps *controllers.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "feastbook",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(deps.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := middleware.Protected(string(deps.Tokens.Secret), deps.Denylist, deps.Log)
	SetupAuthRoutes(app, deps, protected)
	SetupCatalogRoutes(app, deps)
	SetupCustomerRoutes(app, deps, protected)
	SetupSellerRoutes(app, deps, protected)
	return app
}

// errorHandler renders errors that escape handlers, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong."
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		message = fe.Message
	}

	kind := apperr.KindBackend
	switch code {
	case fiber.StatusNotFound:
		kind = apperr.KindNotFound
	case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
		kind = apperr.KindValidation
	}
	return c.Status(code).JSON(utils.ErrorResponse{
		Message: message,
		Error:   string(kind),
	})
}
