package services

import (
	"context"
	"fmt"
	"iter"
	"time"

	"google.golang.org/genai"

	"alfredoptarigan/careerpulse/internal/logger"
)

type GeminiService interface {
	// GenerateStructured asks for a JSON payload constrained by schema.
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, systemInstruction string) (string, error)
	// GenerateText asks for free text with no schema.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// StartChat opens a conversational session whose history lives in the
	// returned handle.
	StartChat(ctx context.Context, systemInstruction string) (ChatHandle, error)
}

// ChatHandle is an opaque, stateful chat session on the model side.
type ChatHandle interface {
	// SendStream sends one user turn and yields the reply as text increments.
	SendStream(ctx context.Context, text string) iter.Seq2[string, error]
}

type geminiService struct {
	client         *genai.Client
	modelName      string
	requestTimeout time.Duration
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, requestTimeout time.Duration) (GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:         client,
		modelName:      modelName,
		requestTimeout: requestTimeout,
	}, nil
}

// GenerateStructured implements GeminiService.
func (g *geminiService) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, systemInstruction string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	return g.generate(ctx, prompt, config)
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, nil)
}

func (g *geminiService) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if g.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		logger.Error().Err(err).Str("model", g.modelName).Msg("❌ Gemini API error")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("nil response: %w", ErrEmptyResponse)
	}

	text := resp.Text()
	logger.Debug().
		Str("model", g.modelName).
		Int("prompt_chars", len(prompt)).
		Int("response_chars", len(text)).
		Dur("latency", time.Since(start)).
		Msg("📊 Gemini response received")

	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// StartChat implements GeminiService. Creating a chat is local; no request
// is sent until the first turn.
func (g *geminiService) StartChat(ctx context.Context, systemInstruction string) (ChatHandle, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	chat, err := g.client.Chats.Create(ctx, g.modelName, config, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

// SendStream implements ChatHandle.
func (c *geminiChat) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for chunk, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
			if err != nil {
				yield("", fmt.Errorf("failed to stream chat reply: %w", err))
				return
			}
			if chunk == nil {
				continue
			}
			if !yield(chunk.Text(), nil) {
				return
			}
		}
	}
}
