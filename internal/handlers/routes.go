package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Routes mounts the session-scoped API under router.
func Routes(router fiber.Router, session fiber.Handler, credentials *CredentialsHandler, evaluation *EvaluationHandler) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	scoped := router.Group("", session)
	scoped.Get("/session/credentials", credentials.HandleGet)
	scoped.Put("/session/credentials", credentials.HandleUpdate)
	scoped.Post("/evaluate/multi", evaluation.HandleMulti)
	scoped.Post("/evaluate/single", evaluation.HandleSingle)
}
