package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/careerpulse/internal/models"
	"alfredoptarigan/careerpulse/internal/services"
)

const analyzeFailedMessage = "Failed to analyze resume. Please try again."

type AnalyzeHandler struct {
	analyzer  services.AnalyzerService
	minLength int
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, minLength int) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:  analyzer,
		minLength: minLength,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.ResumeText)) < h.minLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("resume_text must be at least %d characters", h.minLength),
		})
	}

	ctx, cancel := callScope(c)
	defer cancel()

	analysis, err := h.analyzer.Analyze(ctx, req.ResumeText)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": analyzeFailedMessage,
		})
	}

	return c.JSON(analysis)
}
