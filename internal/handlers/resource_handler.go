package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/careerpulse/internal/models"
	"alfredoptarigan/careerpulse/internal/services"
)

const generateFailedMessage = "Error generating content. Please try again."

type ResourceHandler struct {
	generator services.GeneratorService
}

func NewResourceHandler(generator services.GeneratorService) *ResourceHandler {
	return &ResourceHandler{
		generator: generator,
	}
}

// HandleGenerate handles POST /resources/:kind
func (h *ResourceHandler) HandleGenerate(c *fiber.Ctx) error {
	kind, err := models.ParseResourceKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "kind must be one of headline, bio, email",
		})
	}

	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	ctx, cancel := callScope(c)
	defer cancel()

	resource, err := h.generator.Generate(ctx, kind, req.ResumeContext, req.ExtraContext)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"kind":  kind,
			"error": generateFailedMessage,
			"text":  generateFailedMessage,
		})
	}

	return c.JSON(resource)
}
