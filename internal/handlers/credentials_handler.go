package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/candilyzer/internal/logger"
	"alfredoptarigan/candilyzer/internal/models"
)

type CredentialsHandler struct {
	logger *zap.Logger
}

func NewCredentialsHandler(log *zap.Logger) *CredentialsHandler {
	return &CredentialsHandler{logger: logger.WithFields(log)}
}

// HandleGet handles GET /session/credentials. Only presence is reported.
func (h *CredentialsHandler) HandleGet(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(session.Status())
}

// HandleUpdate handles PUT /session/credentials. Absent fields are left as they are.
func (h *CredentialsHandler) HandleUpdate(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	var update models.CredentialsUpdate
	if err := c.BodyParser(&update); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	session.Apply(update)
	status := session.Status()

	h.logger.Debug("credentials updated",
		zap.String(logger.FieldSession, session.ID),
		zap.Bool("model", status.Model),
		zap.Bool("github", status.GitHub),
		zap.Bool("search", status.Search),
	)

	return c.JSON(status)
}
