package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Routes struct {
	Upload   *UploadHandler
	Analyze  *AnalyzeHandler
	Resource *ResourceHandler
	Chat     *ChatHandler
}

// Register mounts every endpoint on api.
func (r *Routes) Register(api fiber.Router) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/resume/extract", r.Upload.HandleExtract)
	api.Post("/analyze", r.Analyze.HandleAnalyze)
	api.Post("/resources/:kind", r.Resource.HandleGenerate)

	chat := api.Group("/chat/sessions")
	chat.Post("/", r.Chat.HandleCreate)
	chat.Get("/:id", r.Chat.HandleGet)
	chat.Post("/:id/messages", r.Chat.HandleSendMessage)
	chat.Post("/:id/reset", r.Chat.HandleReset)
	chat.Delete("/:id", r.Chat.HandleDelete)
}

// callScope bounds one outbound call to the life of the request. It is
// cancelled when the handler returns or the server shuts down.
func callScope(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithCancel(c.Context())
}
