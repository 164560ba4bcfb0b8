package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"alfredoptarigan/careerpulse/internal/logger"
	"alfredoptarigan/careerpulse/internal/models"
)

type AnalyzerService interface {
	Analyze(ctx context.Context, resumeText string) (*models.ResumeAnalysis, error)
}

type analyzerService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
}

func NewAnalyzerService(geminiService GeminiService) AnalyzerService {
	return &analyzerService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
	}
}

// analysisPayload mirrors the response schema. Pointers tell "absent" apart
// from "empty" so normalization can fill the gaps.
type analysisPayload struct {
	ATSScore      *float64                       `json:"atsScore"`
	Summary       string                         `json:"summary"`
	Strengths     []string                       `json:"strengths"`
	Weaknesses    []string                       `json:"weaknesses"`
	MissingSkills []string                       `json:"missingSkills"`
	GrammarIssues []string                       `json:"grammarIssues"`
	Skills        *models.SkillCategories        `json:"skills"`
	Improvements  []models.ImprovementSuggestion `json:"improvements"`
	CareerPaths   []models.CareerPath            `json:"careerPaths"`
}

// Analyze implements AnalyzerService. The resume text is forwarded as is;
// length gating belongs to the caller.
func (a *analyzerService) Analyze(ctx context.Context, resumeText string) (*models.ResumeAnalysis, error) {
	prompt := a.promptBuilder.BuildAnalysisPrompt(resumeText)
	logger.Info().Int("prompt_chars", len(prompt)).Msg("🤖 Analyzing resume with LLM...")

	start := time.Now()
	response, err := a.geminiService.GenerateStructured(ctx, prompt, AnalysisSchema(), CoachSystemInstruction)
	if err != nil {
		kind := classify(err)
		logger.Error().Err(err).Str("kind", string(kind)).Msg("❌ Resume analysis failed")
		return nil, &AnalysisError{Kind: kind, Err: err}
	}

	if strings.TrimSpace(response) == "" {
		return nil, &AnalysisError{Kind: KindEmptyResponse, Err: ErrEmptyResponse}
	}

	analysis, err := ParseAnalysis(response)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Failed to parse resume analysis response")
		return nil, &AnalysisError{Kind: KindParseError, Err: err}
	}

	logger.Info().
		Int("ats_score", analysis.ATSScore).
		Int("career_paths", len(analysis.CareerPaths)).
		Dur("latency", time.Since(start)).
		Msg("✅ Resume analysis completed")

	return analysis, nil
}

// ParseAnalysis decodes a model payload into a normalized ResumeAnalysis.
// Type mismatches, trailing data and a missing atsScore are errors; missing
// lists become empty ones and the score is clamped to [0,100].
func ParseAnalysis(response string) (*models.ResumeAnalysis, error) {
	jsonStr := extractJSON(response)

	dec := json.NewDecoder(bytes.NewReader([]byte(jsonStr)))
	var payload analysisPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("failed to unmarshal JSON: unexpected data after object")
	}

	if payload.ATSScore == nil {
		return nil, errors.New("response is missing required field atsScore")
	}

	analysis := &models.ResumeAnalysis{
		ATSScore:      ClampScore(*payload.ATSScore),
		Summary:       strings.TrimSpace(payload.Summary),
		Strengths:     nonNil(payload.Strengths),
		Weaknesses:    nonNil(payload.Weaknesses),
		MissingSkills: nonNil(payload.MissingSkills),
		GrammarIssues: nonNil(payload.GrammarIssues),
		Improvements:  nonNil(payload.Improvements),
		CareerPaths:   nonNil(payload.CareerPaths),
	}

	if payload.Skills != nil {
		analysis.Skills = *payload.Skills
	}
	analysis.Skills.Technical = nonNil(analysis.Skills.Technical)
	analysis.Skills.Soft = nonNil(analysis.Skills.Soft)
	analysis.Skills.Tools = nonNil(analysis.Skills.Tools)

	for i := range analysis.CareerPaths {
		analysis.CareerPaths[i].Roadmap = nonNil(analysis.CareerPaths[i].Roadmap)
	}

	return analysis, nil
}

// ClampScore rounds a model-provided score into the 0..100 range.
func ClampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// extractJSON strips a surrounding markdown fence and any prose around a
// JSON object or array. Backticks inside the payload are left alone.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	hasObj := startObj != -1 && endObj > startObj
	hasArr := startArr != -1 && endArr > startArr

	if hasArr && (!hasObj || startArr < startObj) {
		return text[startArr : endArr+1]
	}
	if hasObj {
		return text[startObj : endObj+1]
	}

	return strings.TrimSpace(text)
}
