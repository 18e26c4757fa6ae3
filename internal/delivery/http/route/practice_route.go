package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/handler"
	"github.com/juniortalk/juniortalk-be/internal/delivery/http/middleware"
)

func SetupPracticeRoute(api *fiber.App, handler handler.PracticeHandler, m *middleware.Middleware) {
	api.Get("/scenarios", handler.ListScenarios)
	api.Get("/stats", handler.GetStats)

	router := api.Group("/practice/sessions")
	{
		router.Post("/", handler.StartSession)
		router.Get("/:session_id", handler.GetSession)
		router.Post("/:session_id/messages", handler.SendMessage)
		router.Post("/:session_id/restart", handler.RestartSession)
		router.Delete("/:session_id", handler.ExitSession)
		router.Get("/:session_id/turns/:turn_id/speech", handler.SpeechClip)
	}
}
