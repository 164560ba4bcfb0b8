package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"alfredoptarigan/careerpulse/internal/logger"
	"alfredoptarigan/careerpulse/internal/models"
	"alfredoptarigan/careerpulse/internal/services"
)

type ChatHandler struct {
	store services.ConversationStore
}

func NewChatHandler(store services.ConversationStore) *ChatHandler {
	return &ChatHandler{
		store: store,
	}
}

func snapshot(conv *services.Conversation) models.ConversationResponse {
	return models.ConversationResponse{
		ID:       conv.ID.String(),
		Messages: conv.Messages(),
		Typing:   conv.Typing(),
	}
}

func (h *ChatHandler) lookup(c *fiber.Ctx) (*services.Conversation, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	conv, err := h.store.Get(id)
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chat session not found",
		})
	}

	return conv, nil
}

// HandleCreate handles POST /chat/sessions
func (h *ChatHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateChatRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	ctx, cancel := callScope(c)
	defer cancel()

	conv, err := h.store.Create(ctx, req.ResumeContext)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Failed to start chat session")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to start chat session. Please try again.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(snapshot(conv))
}

// HandleGet handles GET /chat/sessions/:id
func (h *ChatHandler) HandleGet(c *fiber.Ctx) error {
	conv, err := h.lookup(c)
	if conv == nil {
		return err
	}

	return c.JSON(snapshot(conv))
}

// HandleReset handles POST /chat/sessions/:id/reset
func (h *ChatHandler) HandleReset(c *fiber.Ctx) error {
	conv, err := h.lookup(c)
	if conv == nil {
		return err
	}

	ctx, cancel := callScope(c)
	defer cancel()

	if err := conv.Reset(ctx); err != nil {
		if errors.Is(err, services.ErrConversationClosed) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Chat session not found",
			})
		}
		logger.Error().Err(err).Str("conversation_id", conv.ID.String()).Msg("❌ Failed to reset chat session")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to reset chat session. Please try again.",
		})
	}

	return c.JSON(snapshot(conv))
}

// HandleDelete handles DELETE /chat/sessions/:id
func (h *ChatHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	if err := h.store.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chat session not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSendMessage handles POST /chat/sessions/:id/messages. The reply is
// streamed as server-sent events: one "user" event, a "thinking" event, a
// "delta" per text increment, a "message" per assistant message the turn
// produced, then "done" carrying the full snapshot.
func (h *ChatHandler) HandleSendMessage(c *fiber.Ctx) error {
	conv, err := h.lookup(c)
	if conv == nil {
		return err
	}

	var req models.ChatTurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	// The fiber context is recycled once this handler returns, so the
	// stream runs on its own context. The conversation bounds it.
	deltas, err := conv.SendTurn(context.Background(), req.Message)
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	case errors.Is(err, services.ErrTurnInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "The mentor is still replying. Please wait.",
		})
	case errors.Is(err, services.ErrConversationClosed):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Chat session not found",
		})
	case err != nil:
		return err
	}

	userMsg, _ := lastOfRole(conv.Messages(), models.RoleUser)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		clientGone := writeEvent(w, "user", userMsg) != nil ||
			writeEvent(w, "thinking", fiber.Map{"text": models.ThinkingText}) != nil

		for delta := range deltas {
			if clientGone {
				break
			}
			if err := writeEvent(w, "delta", fiber.Map{"text": delta}); err != nil {
				clientGone = true
			}
		}
		if clientGone {
			logger.Debug().Str("conversation_id", conv.ID.String()).Msg("Chat client disconnected mid-stream")
			return
		}

		final := snapshot(conv)
		for _, msg := range messagesAfter(final.Messages, userMsg.ID) {
			if err := writeEvent(w, "message", msg); err != nil {
				return
			}
		}
		_ = writeEvent(w, "done", final)
	}))

	return nil
}

func writeEvent(w *bufio.Writer, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}

func lastOfRole(messages []models.ChatMessage, role models.ChatRole) (models.ChatMessage, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == role {
			return messages[i], true
		}
	}
	return models.ChatMessage{}, false
}

// messagesAfter returns the messages following id, or nothing when id is no
// longer in the list (the session was reset meanwhile).
func messagesAfter(messages []models.ChatMessage, id uuid.UUID) []models.ChatMessage {
	for i, msg := range messages {
		if msg.ID == id {
			return messages[i+1:]
		}
	}
	return nil
}
