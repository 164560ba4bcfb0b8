package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"alfredoptarigan/careerpulse/internal/logger"
	"alfredoptarigan/careerpulse/internal/models"
)

type GeneratorService interface {
	Generate(ctx context.Context, kind models.ResourceKind, resumeContext, extraContext string) (*models.GeneratedResource, error)
}

type generatorService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
}

func NewGeneratorService(geminiService GeminiService) GeneratorService {
	return &generatorService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
	}
}

// Generate implements GeneratorService. An empty model reply is not an
// error: the fallback text is returned instead.
func (g *generatorService) Generate(ctx context.Context, kind models.ResourceKind, resumeContext, extraContext string) (*models.GeneratedResource, error) {
	prompt, err := g.promptBuilder.BuildResourcePrompt(kind, resumeContext, extraContext)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("kind", string(kind)).Msg("✍️ Generating resource...")

	text, err := g.geminiService.GenerateText(ctx, prompt)
	if err != nil && !errors.Is(err, ErrEmptyResponse) {
		logger.Error().Err(err).Str("kind", string(kind)).Msg("❌ Resource generation failed")
		return nil, &GenerationError{Kind: KindRequestFailure, Resource: kind, Err: err}
	}

	resource := &models.GeneratedResource{
		Kind:      kind,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if strings.TrimSpace(text) == "" {
		logger.Warn().Str("kind", string(kind)).Msg("⚠️ Empty response, using fallback text")
		resource.Text = ResourceFallback
		resource.Fallback = true
	}

	return resource, nil
}
