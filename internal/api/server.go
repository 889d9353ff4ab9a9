package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp returns a fiber app serving h. maxUploadMiB bounds request bodies.
func NewApp(h *Handler, maxUploadMiB int) *fiber.App {
	if maxUploadMiB <= 0 {
		maxUploadMiB = 32
	}
	app := fiber.New(fiber.Config{
		AppName:               "statement-extractor",
		BodyLimit:             maxUploadMiB << 20,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return writeError(c, code, err.Error())
		},
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST,GET,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.Register(app)
	return app
}
