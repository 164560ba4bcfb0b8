package handlers

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/careerpulse/internal/logger"
	"alfredoptarigan/careerpulse/internal/models"
	"alfredoptarigan/careerpulse/internal/services"
)

type UploadHandler struct {
	parser      services.ResumeParserService
	maxFileSize int64
}

func NewUploadHandler(parser services.ResumeParserService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		parser:      parser,
		maxFileSize: maxFileSize,
	}
}

// HandleExtract handles POST /resume/extract
func (h *UploadHandler) HandleExtract(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume uploaded. Please upload a 'resume' file (PDF, DOCX or TXT).",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	content, err := h.parser.ExtractText(file.Filename, file.Header.Get("Content-Type"), data)
	switch {
	case errors.Is(err, services.ErrUnsupportedFileType):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": "Unsupported file type. Please upload a PDF, DOCX or TXT file.",
		})
	case errors.Is(err, services.ErrNoTextContent):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "No text content found in the uploaded file",
		})
	case err != nil:
		logger.Warn().Err(err).Str("filename", file.Filename).Msg("⚠️ Failed to extract resume text")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Could not read the uploaded file",
		})
	}

	return c.JSON(models.ExtractResponse{
		Filename:   file.Filename,
		Text:       content.Text,
		PageCount:  content.PageCount,
		Characters: utf8.RuneCountInString(content.Text),
	})
}
