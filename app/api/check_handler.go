package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AP-047/hvac-assistant/store"
)

type CheckHandler struct {
	index store.VectorIndex
}

func NewCheckHandler(index store.VectorIndex) *CheckHandler {
	return &CheckHandler{index: index}
}

func (h *CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	count, err := h.index.Count(c.UserContext())
	if err != nil {
		return c.JSON(fiber.Map{"result": "degraded", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"result": "ok", "points": count})
}
