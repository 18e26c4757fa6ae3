package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/handler"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/middleware"
)

type RouteConfig struct {
	Api             *fiber.App
	Middleware      *middleware.Middleware
	PracticeHandler handler.PracticeHandler
}

func Setup(c *RouteConfig) {
	c.Api.Use(recover.New())
	c.Api.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path}\n",
	}))
	c.Api.Use(c.Middleware.CorsMiddleware())

	SetupPracticeRoute(c.Api, c.PracticeHandler, c.Middleware)
}
